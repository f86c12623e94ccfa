package panel

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type Outcome int

const (
	Pending Outcome = iota
	Succeeded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Task is one transcription run. Its outcome is published after the panel
// has applied the result, so a caller woken by Done sees the updated state.
type Task struct {
	id        string
	audioPath string
	done      chan struct{}

	mu      sync.Mutex
	outcome Outcome
	text    string
	err     error
}

func newTask(audioPath string) *Task {
	return &Task{
		id:        uuid.NewString(),
		audioPath: audioPath,
		done:      make(chan struct{}),
	}
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) AudioPath() string {
	return t.audioPath
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Outcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (string, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text, t.err
}

func (t *Task) complete(text string, err error) {
	t.mu.Lock()
	if t.outcome != Pending {
		t.mu.Unlock()
		return
	}
	if err != nil {
		t.outcome = Failed
		t.err = err
	} else {
		t.outcome = Succeeded
		t.text = text
	}
	t.mu.Unlock()
	close(t.done)
}
