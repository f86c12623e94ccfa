package panel

import (
	"path/filepath"
	"strings"
)

// FileFilter is one entry of a file dialog's type list. A pattern of "*"
// (or "*.*") matches every file.
type FileFilter struct {
	Label    string
	Patterns []string
}

var AudioFilters = []FileFilter{
	{Label: "All Audio Files", Patterns: []string{"*.mp3", "*.wav", "*.m4a", "*.flac", "*.aac", "*.ogg"}},
	{Label: "MP3 Files", Patterns: []string{"*.mp3"}},
	{Label: "WAV Files", Patterns: []string{"*.wav"}},
	{Label: "M4A Files", Patterns: []string{"*.m4a"}},
	{Label: "FLAC Files", Patterns: []string{"*.flac"}},
	{Label: "AAC Files", Patterns: []string{"*.aac"}},
	{Label: "OGG Files", Patterns: []string{"*.ogg"}},
	{Label: "All Files", Patterns: []string{"*"}},
}

var TextFilters = []FileFilter{
	{Label: "Text Files", Patterns: []string{"*.txt"}},
	{Label: "All Files", Patterns: []string{"*"}},
}

// Extensions returns the lower-case extensions ("." included) the filter
// accepts, or nil when it accepts everything.
func (f FileFilter) Extensions() []string {
	var exts []string
	for _, pattern := range f.Patterns {
		if pattern == "*" || pattern == "*.*" {
			return nil
		}
		exts = append(exts, strings.ToLower(strings.TrimPrefix(pattern, "*")))
	}
	return exts
}

func (f FileFilter) Matches(path string) bool {
	exts := f.Extensions()
	if exts == nil {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range exts {
		if ext == want {
			return true
		}
	}
	return false
}

// String renders the filter the way native dialogs list it.
func (f FileFilter) String() string {
	return f.Label + " (" + strings.Join(f.Patterns, " ") + ")"
}

type OpenRequest struct {
	Title   string
	Filters []FileFilter
}

type SaveRequest struct {
	Title      string
	DefaultExt string
	FileName   string
	Filters    []FileFilter
}

// Dialogs is implemented by each front-end. OpenFile and SaveFile call done
// on the UI goroutine with the chosen absolute path, or "" when cancelled.
type Dialogs interface {
	OpenFile(req OpenRequest, done func(path string))
	SaveFile(req SaveRequest, done func(path string))
	Warn(title, message string)
	Error(title, message string)
	Info(title, message string)
}
