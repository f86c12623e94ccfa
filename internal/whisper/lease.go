package whisper

import (
	"errors"
	"sync"
)

var ErrEngineClosed = errors.New("transcription engine is closed")

// modelLease guards a loaded model that Close may be asked to free while a
// transcription still runs on it. The model is freed by Close when idle,
// otherwise by the running call once it ends, so Close never waits for
// inference.
type modelLease struct {
	mu     sync.Mutex
	busy   bool
	closed bool
	free   func() error
}

func (l *modelLease) acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrEngineClosed
	}
	l.busy = true
	return nil
}

// hold replaces the function that frees the current model.
func (l *modelLease) hold(free func() error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.free = free
}

func (l *modelLease) release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.busy = false
	if l.closed {
		return l.freeLocked()
	}
	return nil
}

func (l *modelLease) close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.busy {
		return nil
	}
	return l.freeLocked()
}

func (l *modelLease) freeLocked() error {
	if l.free == nil {
		return nil
	}
	free := l.free
	l.free = nil
	return free()
}
