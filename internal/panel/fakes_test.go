package panel

import (
	"context"
	"sync"
	"testing"
	"time"
)

// uiLoop stands in for the toolkit's event loop: workers queue closures and
// the test goroutine runs them.
type uiLoop struct {
	fns chan func()
}

func newUILoop() *uiLoop {
	return &uiLoop{fns: make(chan func(), 64)}
}

func (l *uiLoop) Do(fn func()) {
	l.fns <- fn
}

func (l *uiLoop) runUntil(t *testing.T, task *Task) {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case <-task.Done():
			return
		case fn := <-l.fns:
			fn()
		case <-timeout:
			t.Fatal("transcription task did not finish")
		}
	}
}

type fakeDialogs struct {
	openPath string
	savePath string

	opens    []OpenRequest
	saves    []SaveRequest
	warnings []string
	errors   []string
	infos    []string
}

func (d *fakeDialogs) OpenFile(req OpenRequest, done func(string)) {
	d.opens = append(d.opens, req)
	done(d.openPath)
}

func (d *fakeDialogs) SaveFile(req SaveRequest, done func(string)) {
	d.saves = append(d.saves, req)
	done(d.savePath)
}

func (d *fakeDialogs) Warn(_, message string) {
	d.warnings = append(d.warnings, message)
}

func (d *fakeDialogs) Error(_, message string) {
	d.errors = append(d.errors, message)
}

func (d *fakeDialogs) Info(_, message string) {
	d.infos = append(d.infos, message)
}

type fakeEngine struct {
	mu       sync.Mutex
	text     string
	err      error
	panicMsg string
	block    chan struct{}
	calls    []string
	closed   bool
}

func (e *fakeEngine) Transcribe(ctx context.Context, audioPath string) (string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, audioPath)
	block, text, err, panicMsg := e.block, e.text, e.err, e.panicMsg
	e.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return text, err
}

func (e *fakeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *fakeEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

type factoryCounter struct {
	mu     sync.Mutex
	builds int
	engine *fakeEngine
	errs   []error
	status []string
}

func (f *factoryCounter) build(_ context.Context, status func(string)) (Engine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.builds++
	for _, message := range f.status {
		status(message)
	}
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return f.engine, nil
}

func (f *factoryCounter) buildCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.builds
}

type harness struct {
	panel     *Panel
	dialogs   *fakeDialogs
	loop      *uiLoop
	engine    *fakeEngine
	factory   *factoryCounter
	snapshots []Snapshot
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		dialogs: &fakeDialogs{},
		loop:    newUILoop(),
		engine:  &fakeEngine{text: "hello world"},
	}
	h.factory = &factoryCounter{engine: h.engine}

	p, err := New(Options{
		Dialogs:  h.dialogs,
		Engine:   h.factory.build,
		Dispatch: h.loop,
		OnChange: func(s Snapshot) { h.snapshots = append(h.snapshots, s) },
	})
	if err != nil {
		t.Fatalf("new panel: %v", err)
	}
	t.Cleanup(p.Close)
	h.panel = p
	return h
}

func (h *harness) selectFile(path string) {
	h.dialogs.openPath = path
	h.panel.SelectAudioFile()
}

func (h *harness) transcribe(t *testing.T) *Task {
	t.Helper()

	task, err := h.panel.TranscribeAudio()
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	h.loop.runUntil(t, task)
	return task
}

func (h *harness) statuses() []string {
	out := make([]string, 0, len(h.snapshots))
	for _, s := range h.snapshots {
		out = append(out, s.Status)
	}
	return out
}
