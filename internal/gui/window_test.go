package gui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/require"

	"github.com/fmueller/voxdesk/internal/panel"
)

type queue chan func()

func (q queue) Do(fn func()) {
	q <- fn
}

func (q queue) drain(t *testing.T, task *panel.Task) {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case <-task.Done():
			return
		case fn := <-q:
			fn()
		case <-timeout:
			t.Fatal("transcription did not finish")
		}
	}
}

type stubEngine string

func (s stubEngine) Transcribe(context.Context, string) (string, error) {
	return string(s), nil
}

type silentDialogs struct {
	savePath string
	warnings []string
}

func (d *silentDialogs) OpenFile(_ panel.OpenRequest, done func(string)) { done("") }
func (d *silentDialogs) SaveFile(_ panel.SaveRequest, done func(string)) { done(d.savePath) }
func (d *silentDialogs) Warn(_, message string)                          { d.warnings = append(d.warnings, message) }
func (d *silentDialogs) Error(string, string)                            {}
func (d *silentDialogs) Info(string, string)                             {}

func newTestView(t *testing.T, audioPath string) (*View, queue) {
	t.Helper()

	a := test.NewApp()
	t.Cleanup(a.Quit)
	w := a.NewWindow(WindowTitle)

	q := make(queue, 16)
	view, err := NewView(w, Options{
		Engine: func(context.Context, func(string)) (panel.Engine, error) {
			return stubEngine("hello from the desk"), nil
		},
		AudioPath: audioPath,
		Dialogs:   &silentDialogs{},
		Dispatch:  q,
	})
	require.NoError(t, err)
	t.Cleanup(view.Close)
	return view, q
}

func TestNewViewRequiresEngine(t *testing.T) {
	_, err := NewView(nil, Options{})
	require.EqualError(t, err, "engine factory is required")
}

func TestViewInitialState(t *testing.T) {
	view, _ := newTestView(t, "")

	require.Equal(t, panel.LabelNoFile, view.fileLabel.Text)
	require.Equal(t, panel.StatusReady, view.statusLabel.Text)
	require.True(t, view.transcribe.Disabled())
	require.True(t, view.save.Disabled())
	require.Empty(t, view.text.Text)
}

func TestViewPreselectedFileEnablesTranscribe(t *testing.T) {
	view, _ := newTestView(t, "/audio/interview.wav")

	require.Equal(t, "Selected: interview.wav", view.fileLabel.Text)
	require.Equal(t, panel.StatusFileSelected, view.statusLabel.Text)
	require.False(t, view.transcribe.Disabled())
	require.True(t, view.save.Disabled())
}

func TestViewTranscribeFillsTextArea(t *testing.T) {
	view, q := newTestView(t, "/audio/interview.wav")

	task, err := view.Panel().TranscribeAudio()
	require.NoError(t, err)
	require.True(t, view.transcribe.Disabled())
	require.Equal(t, panel.StatusInitializing, view.statusLabel.Text)

	q.drain(t, task)

	require.Equal(t, "hello from the desk", view.text.Text)
	require.Equal(t, panel.StatusDone, view.statusLabel.Text)
	require.False(t, view.transcribe.Disabled())
	require.False(t, view.save.Disabled())
}

func TestViewKeepsEditsAcrossRenders(t *testing.T) {
	view, q := newTestView(t, "/audio/a.wav")

	task, err := view.Panel().TranscribeAudio()
	require.NoError(t, err)
	q.drain(t, task)

	test.Type(view.text, "edited ")
	require.Contains(t, view.Panel().Transcript(), "edited ")

	view.Panel().SetAudioFile("/audio/b.wav")
	require.Equal(t, "Selected: b.wav", view.fileLabel.Text)
	require.Contains(t, view.text.Text, "edited ")
}

func TestViewCopyPutsTranscriptOnClipboard(t *testing.T) {
	view, q := newTestView(t, "/audio/a.wav")

	task, err := view.Panel().TranscribeAudio()
	require.NoError(t, err)
	q.drain(t, task)

	test.Tap(view.copyBtn)

	require.Equal(t, "hello from the desk", view.window.Clipboard().Content())
	require.Equal(t, "Transcription copied to clipboard", view.statusLabel.Text)
}
