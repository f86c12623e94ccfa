package whisper

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type freeCounter struct {
	calls int
	err   error
}

func (f *freeCounter) free() error {
	f.calls++
	return f.err
}

func TestModelLeaseCloseWhileIdleFreesModel(t *testing.T) {
	t.Parallel()

	var f freeCounter
	var l modelLease
	require.NoError(t, l.acquire())
	l.hold(f.free)
	require.NoError(t, l.release())
	require.Zero(t, f.calls)

	require.NoError(t, l.close())
	require.Equal(t, 1, f.calls)
	require.NoError(t, l.close())
	require.Equal(t, 1, f.calls)
}

func TestModelLeaseCloseDuringRunDoesNotWait(t *testing.T) {
	t.Parallel()

	var f freeCounter
	var l modelLease
	require.NoError(t, l.acquire())
	l.hold(f.free)

	closed := make(chan error, 1)
	go func() { closed <- l.close() }()

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("close waited for the running transcription")
	}
	require.Zero(t, f.calls)

	require.NoError(t, l.release())
	require.Equal(t, 1, f.calls)
}

func TestModelLeaseRejectsRunsAfterClose(t *testing.T) {
	t.Parallel()

	var l modelLease
	require.NoError(t, l.close())
	require.ErrorIs(t, l.acquire(), ErrEngineClosed)
}

func TestModelLeaseReportsFreeError(t *testing.T) {
	t.Parallel()

	f := freeCounter{err: errors.New("boom")}
	var l modelLease
	l.hold(f.free)
	require.EqualError(t, l.close(), "boom")
}
