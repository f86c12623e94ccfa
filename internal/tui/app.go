// Package tui is the terminal front-end of the transcription panel.
package tui

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/fmueller/voxdesk/internal/panel"
)

const (
	mainPage   = "main"
	pickerPage = "picker"
	modalPage  = "modal"

	keyHelp = "[yellow]^O[white] browse  [yellow]^T[white] transcribe  [yellow]^S[white] save  [yellow]Tab[white] focus  [yellow]^Q[white] quit"
)

type Options struct {
	Engine    panel.EngineFactory
	Describe  func(path string) string
	Logger    *zap.Logger
	AudioPath string

	// Screen and Dispatch replace the terminal and QueueUpdateDraw; used by tests.
	Screen   tcell.Screen
	Dispatch panel.Dispatcher
}

type App struct {
	*tview.Application

	pages  *tview.Pages
	panel  *panel.Panel
	logger *zap.Logger

	fileLabel  *tview.TextView
	detail     *tview.TextView
	status     *tview.TextView
	browse     *tview.Button
	transcribe *tview.Button
	save       *tview.Button
	text       *tview.TextArea
	focusables []tview.Primitive

	dialogs *dialogs
	rev     uint64
}

func New(opts Options) (*App, error) {
	if opts.Engine == nil {
		return nil, errors.New("engine factory is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	a := &App{
		Application: tview.NewApplication(),
		pages:       tview.NewPages(),
		logger:      opts.Logger,
	}
	if opts.Screen != nil {
		a.SetScreen(opts.Screen)
	}
	a.dialogs = &dialogs{app: a}

	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = panel.DispatchFunc(func(fn func()) { a.QueueUpdateDraw(fn) })
	}

	p, err := panel.New(panel.Options{
		Dialogs:  a.dialogs,
		Engine:   opts.Engine,
		Dispatch: dispatch,
		OnChange: a.render,
		Logger:   opts.Logger.Named("panel"),
		Describe: opts.Describe,
	})
	if err != nil {
		return nil, err
	}
	a.panel = p

	a.build()
	a.render(p.Snapshot())
	if opts.AudioPath != "" {
		p.SetAudioFile(opts.AudioPath)
	}
	return a, nil
}

// Run takes over the terminal until the user quits.
func (a *App) Run() error {
	defer a.panel.Close()
	a.SetInputCapture(a.inputCapture)
	return a.SetRoot(a.pages, true).EnableMouse(true).Run()
}

func (a *App) Panel() *panel.Panel {
	return a.panel
}

func (a *App) build() {
	title := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText("[::b]Audio Transcription")

	a.fileLabel = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	a.detail = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetTextColor(tcell.ColorGray)
	a.browse = tview.NewButton("Browse Audio Files").SetSelectedFunc(a.panel.SelectAudioFile)

	fileBox := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.fileLabel, 1, 0, false).
		AddItem(a.detail, 1, 0, false).
		AddItem(centerRow(a.browse, 24), 1, 0, true)
	fileBox.SetBorder(true).SetTitle(" Select Audio File ")

	a.transcribe = tview.NewButton("Start Transcription").SetSelectedFunc(func() {
		_, _ = a.panel.TranscribeAudio()
	})
	a.save = tview.NewButton("Save Transcription").SetSelectedFunc(func() {
		_ = a.panel.SaveTranscription()
	})
	controls := tview.NewFlex().
		AddItem(a.transcribe, 22, 0, false).
		AddItem(nil, 2, 0, false).
		AddItem(a.save, 22, 0, false).
		AddItem(nil, 0, 1, false)

	a.status = tview.NewTextView().SetTextAlign(tview.AlignCenter)

	a.text = tview.NewTextArea().SetPlaceholder("The transcription will appear here.")
	a.text.SetWrap(true).SetWordWrap(true)
	a.text.SetChangedFunc(func() { a.panel.EditTranscript(a.text.GetText()) })
	a.text.SetBorder(true).SetTitle(" Transcription Result ")

	footer := tview.NewTextView().SetDynamicColors(true).SetText(keyHelp)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(title, 1, 0, false).
		AddItem(fileBox, 5, 0, true).
		AddItem(controls, 1, 0, false).
		AddItem(a.status, 1, 0, false).
		AddItem(a.text, 0, 1, false).
		AddItem(footer, 1, 0, false)

	a.focusables = []tview.Primitive{a.browse, a.transcribe, a.save, a.text}
	a.pages.AddPage(mainPage, layout, true, true)
}

func (a *App) render(s panel.Snapshot) {
	if a.fileLabel == nil {
		return
	}

	a.fileLabel.SetText(s.FileLabel)
	a.detail.SetText(s.FileDetail)
	a.status.SetText(s.Status)
	a.transcribe.SetDisabled(!s.CanTranscribe)
	a.save.SetDisabled(!s.CanSave)

	if s.TranscriptRev != a.rev {
		a.rev = s.TranscriptRev
		a.text.SetText(s.Transcript, false)
	}
}

func (a *App) inputCapture(event *tcell.EventKey) *tcell.EventKey {
	if a.pages.HasPage(modalPage) || a.pages.HasPage(pickerPage) {
		return event
	}

	switch event.Key() {
	case tcell.KeyCtrlO:
		a.panel.SelectAudioFile()
	case tcell.KeyCtrlT:
		_, _ = a.panel.TranscribeAudio()
	case tcell.KeyCtrlS:
		_ = a.panel.SaveTranscription()
	case tcell.KeyCtrlQ:
		a.Stop()
	case tcell.KeyTab:
		a.cycleFocus(1)
	case tcell.KeyBacktab:
		a.cycleFocus(-1)
	default:
		return event
	}
	return nil
}

func (a *App) cycleFocus(step int) {
	current := a.GetFocus()
	index := 0
	for i, p := range a.focusables {
		if p == current {
			index = i
			break
		}
	}
	next := (index + step + len(a.focusables)) % len(a.focusables)
	a.SetFocus(a.focusables[next])
}

func centerRow(p tview.Primitive, width int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(p, width, 0, true).
		AddItem(nil, 0, 1, false)
}

func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
