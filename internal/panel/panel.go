// Package panel implements the transcription panel as a front-end neutral
// state machine. Views render Snapshots and forward button presses; dialogs,
// the transcription engine and UI-thread dispatch are injected.
package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type Engine interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// EngineFactory builds the engine on first use. It runs off the UI goroutine
// and may report progress (for example a model download) through status.
type EngineFactory func(ctx context.Context, status func(string)) (Engine, error)

// Dispatcher runs fn on the goroutine that owns the panel, normally the
// toolkit's event loop. It must not run fn on the calling goroutine: workers
// use it to hand results back.
type Dispatcher interface {
	Do(fn func())
}

type DispatchFunc func(fn func())

func (f DispatchFunc) Do(fn func()) {
	f(fn)
}

type Options struct {
	Dialogs  Dialogs
	Engine   EngineFactory
	Dispatch Dispatcher
	OnChange func(Snapshot)
	Logger   *zap.Logger

	// WriteFile persists a saved transcript. Defaults to WriteFileAtomic.
	WriteFile func(path string, data []byte) error
	// Describe returns extra detail shown under the file label.
	Describe func(path string) string
}

// Panel holds the selected file, the engine handle and the transcript. All
// methods must be called on the dispatcher's goroutine; background work
// reports back only through Dispatch.
type Panel struct {
	dialogs   Dialogs
	factory   EngineFactory
	dispatch  Dispatcher
	onChange  func(Snapshot)
	logger    *zap.Logger
	writeFile func(string, []byte) error
	describe  func(string) string

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	state      State
	resume     State
	filePath   string
	fileDetail string
	status     string
	engine     Engine
	transcript string
	rev        uint64
	completed  bool
	task       *Task
}

func New(opts Options) (*Panel, error) {
	if opts.Dialogs == nil {
		return nil, errors.New("panel dialogs are required")
	}
	if opts.Engine == nil {
		return nil, errors.New("panel engine factory is required")
	}
	if opts.Dispatch == nil {
		return nil, errors.New("panel dispatcher is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.WriteFile == nil {
		opts.WriteFile = WriteFileAtomic
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Panel{
		dialogs:   opts.Dialogs,
		factory:   opts.Engine,
		dispatch:  opts.Dispatch,
		onChange:  opts.OnChange,
		logger:    opts.Logger,
		writeFile: opts.WriteFile,
		describe:  opts.Describe,
		ctx:       ctx,
		cancel:    cancel,
		state:     NoFileSelected,
		status:    StatusReady,
	}, nil
}

func (p *Panel) Snapshot() Snapshot {
	label := LabelNoFile
	if p.filePath != "" {
		label = "Selected: " + filepath.Base(p.filePath)
	}

	return Snapshot{
		State:         p.state,
		FileLabel:     label,
		FileDetail:    p.fileDetail,
		Status:        p.status,
		CanTranscribe: p.filePath != "" && p.task == nil,
		CanSave:       p.completed,
		Transcript:    p.transcript,
		TranscriptRev: p.rev,
	}
}

// Transcript returns the live buffer, including the user's edits.
func (p *Panel) Transcript() string {
	return p.transcript
}

func (p *Panel) AudioPath() string {
	return p.filePath
}

// SelectAudioFile opens the audio picker. Cancelling leaves the panel as is.
func (p *Panel) SelectAudioFile() {
	p.dialogs.OpenFile(OpenRequest{Title: TitlePickAudio, Filters: AudioFilters}, p.SetAudioFile)
}

// SetAudioFile selects path as if it had been chosen in the picker.
func (p *Panel) SetAudioFile(path string) {
	if strings.TrimSpace(path) == "" || p.closed {
		return
	}

	p.filePath = path
	p.fileDetail = ""
	if p.describe != nil {
		p.fileDetail = p.describe(path)
	}

	if p.task != nil {
		// the running task keeps its own path; the new file becomes
		// transcribable once it finishes
		p.resume = FileSelected
	} else {
		p.state = FileSelected
		p.status = StatusFileSelected
	}

	p.logger.Info("audio file selected", zap.String("path", path))
	p.changed()
}

// TranscribeAudio starts transcribing the selected file in the background.
// The returned Task completes after the panel has applied the result.
func (p *Panel) TranscribeAudio() (*Task, error) {
	if p.filePath == "" {
		return nil, p.precondition(ErrNoFileSelected, "Please select an audio file first.")
	}
	if p.task != nil {
		return nil, p.precondition(ErrTranscriptionInProgress, "A transcription is already running.")
	}
	if p.closed {
		return nil, &OperationFailure{Op: "transcribe", Err: context.Canceled}
	}

	task := newTask(p.filePath)
	engine := p.engine

	p.task = task
	p.resume = p.state
	p.state = Transcribing
	if engine == nil {
		p.status = StatusInitializing
	} else {
		p.status = StatusTranscribing
	}
	p.changed()

	p.logger.Info("transcription started", zap.String("task", task.ID()), zap.String("path", task.AudioPath()))
	go p.run(task, engine)
	return task, nil
}

func (p *Panel) run(task *Task, engine Engine) {
	text, err := p.transcribe(task, engine)
	p.dispatch.Do(func() { p.finish(task, text, err) })
}

func (p *Panel) transcribe(task *Task, engine Engine) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transcriber panicked: %v", r)
		}
	}()

	if engine == nil {
		engine, err = p.factory(p.ctx, p.workerStatus(task))
		if err != nil {
			return "", fmt.Errorf("initialize transcriber: %w", err)
		}
		if engine == nil {
			return "", errors.New("initialize transcriber: no engine returned")
		}
		p.dispatch.Do(func() { p.adopt(task, engine) })
	}

	return engine.Transcribe(p.ctx, task.AudioPath())
}

// adopt stores a freshly built engine so later runs reuse it.
func (p *Panel) adopt(task *Task, engine Engine) {
	if p.closed {
		closeEngine(engine, p.logger)
		return
	}
	p.engine = engine
	if p.task == task {
		p.status = StatusTranscribing
		p.changed()
	}
}

func (p *Panel) workerStatus(task *Task) func(string) {
	return func(message string) {
		p.dispatch.Do(func() {
			if p.task != task || p.closed {
				return
			}
			p.status = message
			p.changed()
		})
	}
}

func (p *Panel) finish(task *Task, text string, err error) {
	if p.task == task {
		p.task = nil
	}

	if p.closed {
		task.complete(text, err)
		return
	}

	if err != nil {
		failure := &OperationFailure{Op: "transcribe", Err: err}
		p.state = p.resume
		p.status = StatusFailed
		p.logger.Error("transcription failed", zap.String("task", task.ID()), zap.Error(err))
		p.changed()
		p.dialogs.Error("Error", "An error occurred during transcription:\n"+err.Error())
		task.complete("", failure)
		return
	}

	p.transcript = text
	p.rev++
	p.completed = true
	p.state = TranscriptionDone
	p.status = StatusDone
	p.logger.Info("transcription completed", zap.String("task", task.ID()), zap.Int("chars", len(text)))
	p.changed()
	task.complete(text, nil)
}

// EditTranscript records the user's edits to the text area. The saved file
// always holds the buffer as it is when the save is confirmed.
func (p *Panel) EditTranscript(text string) {
	p.transcript = text
}

// SaveTranscription asks for a destination and writes the transcript there.
func (p *Panel) SaveTranscription() error {
	if strings.TrimSpace(p.transcript) == "" {
		return p.precondition(ErrNothingToSave, "No transcription to save.")
	}

	req := SaveRequest{
		Title:      TitleSave,
		DefaultExt: ".txt",
		FileName:   SuggestedFileName(p.filePath),
		Filters:    TextFilters,
	}
	p.dialogs.SaveFile(req, func(path string) { p.saveTo(path, req.DefaultExt) })
	return nil
}

func (p *Panel) saveTo(path, ext string) {
	if strings.TrimSpace(path) == "" || p.closed {
		return
	}
	path = WithDefaultExt(path, ext)

	if err := p.writeFile(path, []byte(p.transcript)); err != nil {
		p.logger.Error("save transcription failed", zap.String("path", path), zap.Error(err))
		p.dialogs.Error("Error", "Failed to save transcription:\n"+err.Error())
		return
	}

	p.logger.Info("transcription saved", zap.String("path", path))
	p.dialogs.Info("Success", "Transcription saved to:\n"+path)
	p.status = "Transcription saved to " + filepath.Base(path)
	p.changed()
}

// Close cancels in-flight work and releases the engine.
func (p *Panel) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.cancel()
	if p.engine != nil {
		closeEngine(p.engine, p.logger)
		p.engine = nil
	}
}

func (p *Panel) precondition(err error, message string) error {
	p.dialogs.Warn("Warning", message)
	return &PreconditionError{Err: err}
}

func (p *Panel) changed() {
	if p.onChange != nil {
		p.onChange(p.Snapshot())
	}
}

func closeEngine(engine Engine, logger *zap.Logger) {
	closer, ok := engine.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn("close transcriber", zap.Error(err))
	}
}
