// Package gui is the desktop front-end of the transcription panel, built on fyne.
package gui

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/fmueller/voxdesk/internal/panel"
)

const (
	AppID       = "io.github.fmueller.voxdesk"
	WindowTitle = "Voxdesk - Whisper Mode"
)

var windowSize = fyne.NewSize(700, 600)

type Options struct {
	Engine   panel.EngineFactory
	Describe func(path string) string
	Logger   *zap.Logger

	// AudioPath preselects a file when the window opens.
	AudioPath string

	// Dialogs and Dispatch replace the fyne implementations; used by tests.
	Dialogs  panel.Dialogs
	Dispatch panel.Dispatcher
}

// Run opens the main window and blocks until it is closed.
func Run(opts Options) error {
	a := app.NewWithID(AppID)
	w := a.NewWindow(WindowTitle)

	view, err := NewView(w, opts)
	if err != nil {
		return err
	}

	w.SetMaster()
	w.Resize(windowSize)
	w.CenterOnScreen()
	w.SetOnClosed(view.Close)
	w.ShowAndRun()
	return nil
}

// View binds a panel to fyne widgets.
type View struct {
	window fyne.Window
	panel  *panel.Panel
	logger *zap.Logger

	fileLabel   *widget.Label
	detailLabel *widget.Label
	statusLabel *widget.Label
	showAll     *widget.Check
	browseBtn   *widget.Button
	transcribe  *widget.Button
	save        *widget.Button
	copyBtn     *widget.Button
	text        *widget.Entry

	rev uint64
}

func NewView(w fyne.Window, opts Options) (*View, error) {
	if opts.Engine == nil {
		return nil, errors.New("engine factory is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	v := &View{window: w, logger: opts.Logger}

	var fyneDialogs *windowDialogs
	var writeFile func(string, []byte) error
	dialogs := opts.Dialogs
	if dialogs == nil {
		fyneDialogs = newWindowDialogs(w, opts.Logger)
		dialogs = fyneDialogs
		writeFile = fyneDialogs.writeFile
	}
	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = fyneDispatcher{logger: opts.Logger}
	}

	p, err := panel.New(panel.Options{
		Dialogs:   dialogs,
		Engine:    opts.Engine,
		Dispatch:  dispatch,
		OnChange:  v.render,
		Logger:    opts.Logger.Named("panel"),
		WriteFile: writeFile,
		Describe:  opts.Describe,
	})
	if err != nil {
		return nil, err
	}
	v.panel = p

	v.build(fyneDialogs)
	v.render(p.Snapshot())

	if opts.AudioPath != "" {
		p.SetAudioFile(opts.AudioPath)
	}
	return v, nil
}

func (v *View) build(fyneDialogs *windowDialogs) {
	title := widget.NewLabelWithStyle("Audio Transcription", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	v.fileLabel = widget.NewLabelWithStyle(panel.LabelNoFile, fyne.TextAlignCenter, fyne.TextStyle{})
	v.detailLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	v.browseBtn = widget.NewButtonWithIcon("Browse Audio Files", theme.FolderOpenIcon(), v.panel.SelectAudioFile)
	v.showAll = widget.NewCheck("Show all files", func(checked bool) {
		if fyneDialogs != nil {
			fyneDialogs.showAll = checked
		}
	})
	fileCard := widget.NewCard("Select Audio File", "", container.NewVBox(
		v.fileLabel,
		v.detailLabel,
		container.NewHBox(layout.NewSpacer(), v.browseBtn, v.showAll, layout.NewSpacer()),
	))

	v.transcribe = widget.NewButtonWithIcon("Start Transcription", theme.MediaPlayIcon(), func() {
		_, _ = v.panel.TranscribeAudio()
	})
	v.transcribe.Importance = widget.HighImportance
	v.save = widget.NewButtonWithIcon("Save Transcription", theme.DocumentSaveIcon(), func() {
		_ = v.panel.SaveTranscription()
	})
	v.copyBtn = widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), v.copyTranscript)
	controls := container.NewHBox(v.transcribe, v.save, layout.NewSpacer(), v.copyBtn)

	v.statusLabel = widget.NewLabelWithStyle(panel.StatusReady, fyne.TextAlignCenter, fyne.TextStyle{})

	v.text = widget.NewMultiLineEntry()
	v.text.Wrapping = fyne.TextWrapWord
	v.text.SetPlaceHolder("The transcription will appear here.")
	v.text.OnChanged = v.panel.EditTranscript

	header := container.NewVBox(title, fileCard, controls, v.statusLabel)
	result := widget.NewCard("Transcription Result", "", container.NewScroll(v.text))

	v.window.SetContent(container.NewPadded(container.NewBorder(header, nil, nil, nil, result)))
}

func (v *View) render(s panel.Snapshot) {
	if v.fileLabel == nil {
		return
	}

	v.fileLabel.SetText(s.FileLabel)
	v.detailLabel.SetText(s.FileDetail)
	v.statusLabel.SetText(s.Status)
	setEnabled(v.transcribe, s.CanTranscribe)
	setEnabled(v.save, s.CanSave)

	// only a new transcription overwrites the text area; edits are kept
	if s.TranscriptRev != v.rev {
		v.rev = s.TranscriptRev
		v.text.SetText(s.Transcript)
	}
}

func (v *View) copyTranscript() {
	text := v.panel.Transcript()
	if text == "" {
		return
	}
	v.window.Clipboard().SetContent(text)
	v.statusLabel.SetText("Transcription copied to clipboard")
}

func (v *View) Panel() *panel.Panel {
	return v.panel
}

func (v *View) Close() {
	v.logger.Debug("window closed")
	v.panel.Close()
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}
