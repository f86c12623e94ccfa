package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rivo/tview"

	"github.com/fmueller/voxdesk/internal/panel"
)

// dialogs renders panel dialogs as tview pages: path-entry forms for the
// pickers and modals for messages.
type dialogs struct {
	app     *App
	lastDir string
}

func (d *dialogs) OpenFile(req panel.OpenRequest, done func(string)) {
	path := d.startDir() + string(filepath.Separator)
	filter := firstFilter(req.Filters)

	form := tview.NewForm()
	form.AddInputField("Path", path, 0, nil, func(text string) { path = text })
	if len(req.Filters) > 0 {
		form.AddDropDown("Type", filterLabels(req.Filters), 0, func(_ string, index int) {
			if index >= 0 && index < len(req.Filters) {
				filter = req.Filters[index]
			}
		})
	}
	form.AddButton("Open", func() { d.confirmOpen(path, filter, done) })
	form.AddButton("Cancel", func() { d.dismiss(done) })
	form.SetCancelFunc(func() { d.dismiss(done) })
	form.SetBorder(true).SetTitle(" " + req.Title + " ")

	d.showPicker(form)
}

func (d *dialogs) confirmOpen(input string, filter panel.FileFilter, done func(string)) {
	path, err := checkOpenPath(input, filter)
	if err != nil {
		d.message("Warning", err.Error())
		return
	}
	d.lastDir = filepath.Dir(path)
	d.closePicker()
	done(path)
}

func (d *dialogs) SaveFile(req panel.SaveRequest, done func(string)) {
	path := filepath.Join(d.startDir(), req.FileName)

	form := tview.NewForm()
	form.AddInputField("Save as", path, 0, nil, func(text string) { path = text })
	form.AddButton("Save", func() { d.confirmSave(path, req.DefaultExt, done) })
	form.AddButton("Cancel", func() { d.dismiss(done) })
	form.SetCancelFunc(func() { d.dismiss(done) })
	form.SetBorder(true).SetTitle(" " + req.Title + " ")

	d.showPicker(form)
}

func (d *dialogs) confirmSave(input, ext string, done func(string)) {
	path, err := checkSavePath(input, ext)
	if err != nil {
		d.message("Warning", err.Error())
		return
	}

	finish := func() {
		d.lastDir = filepath.Dir(path)
		d.closePicker()
		done(path)
	}

	if _, err := os.Stat(path); err == nil {
		d.confirm(filepath.Base(path)+" already exists.\nReplace it?", finish)
		return
	}
	finish()
}

func (d *dialogs) Warn(title, message string) {
	d.message(title, message)
}

func (d *dialogs) Error(title, message string) {
	d.message(title, message)
}

func (d *dialogs) Info(title, message string) {
	d.message(title, message)
}

func (d *dialogs) message(title, text string) {
	d.showModal(title+"\n\n"+text, []string{"OK"}, nil)
}

func (d *dialogs) confirm(text string, yes func()) {
	d.showModal(text, []string{"Replace", "Cancel"}, func(index int) {
		if index == 0 {
			yes()
		}
	})
}

func (d *dialogs) showModal(text string, buttons []string, then func(index int)) {
	previous := d.app.GetFocus()
	modal := tview.NewModal().
		SetText(text).
		AddButtons(buttons).
		SetDoneFunc(func(index int, _ string) {
			d.app.pages.RemovePage(modalPage)
			if previous != nil {
				d.app.SetFocus(previous)
			}
			if then != nil {
				then(index)
			}
		})

	d.app.pages.AddPage(modalPage, modal, true, true)
	d.app.SetFocus(modal)
}

func (d *dialogs) showPicker(form *tview.Form) {
	d.app.pages.AddPage(pickerPage, centered(form, 80, 9), true, true)
	d.app.SetFocus(form)
}

func (d *dialogs) closePicker() {
	d.app.pages.RemovePage(pickerPage)
	d.app.SetFocus(d.app.browse)
}

func (d *dialogs) dismiss(done func(string)) {
	d.closePicker()
	done("")
}

func (d *dialogs) startDir() string {
	if d.lastDir != "" {
		return d.lastDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func checkOpenPath(input string, filter panel.FileFilter) (string, error) {
	path, err := normalizePath(input)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if !filter.Matches(path) {
		return "", fmt.Errorf("%s does not match %s", filepath.Base(path), filter)
	}
	return path, nil
}

func checkSavePath(input, ext string) (string, error) {
	path, err := normalizePath(input)
	if err != nil {
		return "", err
	}
	path = panel.WithDefaultExt(path, ext)

	info, err := os.Stat(filepath.Dir(path))
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("directory does not exist: %s", filepath.Dir(path))
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return path, nil
}

func normalizePath(input string) (string, error) {
	path := strings.TrimSpace(input)
	if path == "" {
		return "", errors.New("enter a file path")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

func firstFilter(filters []panel.FileFilter) panel.FileFilter {
	if len(filters) == 0 {
		return panel.FileFilter{Label: "All Files", Patterns: []string{"*"}}
	}
	return filters[0]
}

func filterLabels(filters []panel.FileFilter) []string {
	labels := make([]string, 0, len(filters))
	for _, f := range filters {
		labels = append(labels, f.String())
	}
	return labels
}
