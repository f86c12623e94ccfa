package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModelDirPerOS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  Env
		want string
	}{
		{
			name: "linux with xdg",
			env:  Env{GOOS: "linux", HomeDir: "/home/dev", XDGDataHome: "/tmp/xdg-data"},
			want: "/tmp/xdg-data/voxdesk/models",
		},
		{
			name: "linux without xdg",
			env:  Env{GOOS: "linux", HomeDir: "/home/dev"},
			want: "/home/dev/.local/share/voxdesk/models",
		},
		{
			name: "macos",
			env:  Env{GOOS: "darwin", HomeDir: "/Users/dev"},
			want: "/Users/dev/Library/Application Support/voxdesk/models",
		},
		{
			name: "windows with appdata",
			env:  Env{GOOS: "windows", HomeDir: "/Users/dev", AppData: "/appdata"},
			want: "/appdata/voxdesk/models",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir, err := tt.env.ModelDir()
			require.NoError(t, err)
			require.Equal(t, tt.want, dir)
		})
	}
}

func TestConfigDirLinux(t *testing.T) {
	t.Parallel()

	dir, err := Env{GOOS: "linux", HomeDir: "/home/dev"}.ConfigDir()
	require.NoError(t, err)
	require.Equal(t, "/home/dev/.config/voxdesk", dir)

	dir, err = Env{GOOS: "linux", HomeDir: "/home/dev", XDGConfigHome: "/cfg"}.ConfigDir()
	require.NoError(t, err)
	require.Equal(t, "/cfg/voxdesk", dir)
}

func TestLogFile(t *testing.T) {
	t.Parallel()

	path, err := Env{GOOS: "linux", HomeDir: "/home/dev"}.LogFile()
	require.NoError(t, err)
	require.Equal(t, "/home/dev/.local/share/voxdesk/voxdesk.log", path)
}

func TestDataDirUnsupportedOS(t *testing.T) {
	t.Parallel()

	_, err := Env{GOOS: "plan9", HomeDir: "/usr/dev"}.DataDir()
	require.Error(t, err)
}

func TestDataDirEmptyHome(t *testing.T) {
	t.Parallel()

	_, err := Env{GOOS: "linux"}.DataDir()
	require.Error(t, err)
}

func TestResolveModelDirOverride(t *testing.T) {
	t.Parallel()

	dir, err := ResolveModelDir("/data/models/")
	require.NoError(t, err)
	require.Equal(t, "/data/models", dir)
}
