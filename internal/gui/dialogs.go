package gui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"go.uber.org/zap"

	"github.com/fmueller/voxdesk/internal/panel"
)

var dialogSize = fyne.NewSize(800, 560)

// windowDialogs shows panel dialogs on top of the main window. Fyne file
// dialogs take a single filter, so the first filter of a request is applied
// unless showAll is set.
//
// The fyne save dialog creates the chosen file before handing it over.
// placeholder remembers that file until the transcript has been written so
// a renamed or failed save does not leave an empty file behind.
type windowDialogs struct {
	window  fyne.Window
	logger  *zap.Logger
	showAll bool
	lastDir string

	placeholder string
	confirm     func(title, message string, answer func(bool))
	write       func(path string, data []byte) error
}

func newWindowDialogs(w fyne.Window, logger *zap.Logger) *windowDialogs {
	d := &windowDialogs{window: w, logger: logger, write: panel.WriteFileAtomic}
	d.confirm = func(title, message string, answer func(bool)) {
		dialog.ShowConfirm(title, message, answer, d.window)
	}
	return d
}

func (d *windowDialogs) OpenFile(req panel.OpenRequest, done func(string)) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			d.logger.Warn("file picker failed", zap.Error(err))
			done("")
			return
		}
		if reader == nil {
			done("")
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		d.lastDir = filepath.Dir(path)
		done(path)
	}, d.window)

	d.prepare(fd, req.Filters)
	fd.SetConfirmText("Open")
	fd.Show()
}

func (d *windowDialogs) SaveFile(req panel.SaveRequest, done func(string)) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			d.logger.Warn("save dialog failed", zap.Error(err))
			done("")
			return
		}
		if writer == nil {
			done("")
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		d.lastDir = filepath.Dir(path)
		d.confirmSave(path, req.DefaultExt, done)
	}, d.window)

	d.prepare(fd, req.Filters)
	fd.SetFileName(req.FileName)
	fd.Show()
}

// confirmSave settles the final path of a save. fyne only asked about the
// name as typed, so a name that still needs the default extension gets its
// own overwrite prompt and the file fyne created for it is removed.
func (d *windowDialogs) confirmSave(path, ext string, done func(string)) {
	d.placeholder = path

	final := panel.WithDefaultExt(path, ext)
	if final == path {
		done(path)
		return
	}
	d.discardPlaceholder()

	if _, err := os.Stat(final); err != nil {
		done(final)
		return
	}
	d.confirm("Overwrite?", fmt.Sprintf("%s already exists.\nDo you want to replace it?", filepath.Base(final)), func(ok bool) {
		if !ok {
			done("")
			return
		}
		done(final)
	})
}

// writeFile is the panel's WriteFile hook.
func (d *windowDialogs) writeFile(path string, data []byte) error {
	err := d.write(path, data)
	if err != nil && path == d.placeholder {
		d.discardPlaceholder()
	}
	d.placeholder = ""
	return err
}

func (d *windowDialogs) discardPlaceholder() {
	if d.placeholder == "" {
		return
	}
	if info, err := os.Stat(d.placeholder); err == nil && info.Size() == 0 {
		if err := os.Remove(d.placeholder); err != nil {
			d.logger.Warn("remove empty save target", zap.String("path", d.placeholder), zap.Error(err))
		}
	}
	d.placeholder = ""
}

func (d *windowDialogs) prepare(fd *dialog.FileDialog, filters []panel.FileFilter) {
	if !d.showAll && len(filters) > 0 {
		if exts := filters[0].Extensions(); exts != nil {
			fd.SetFilter(storage.NewExtensionFileFilter(exts))
		}
	}

	if d.lastDir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(d.lastDir)); err == nil {
			fd.SetLocation(lister)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		if lister, err := storage.ListerForURI(storage.NewFileURI(home)); err == nil {
			fd.SetLocation(lister)
		}
	}

	fd.Resize(dialogSize)
}

func (d *windowDialogs) Warn(title, message string) {
	dialog.ShowInformation(title, message, d.window)
}

func (d *windowDialogs) Error(title, message string) {
	dialog.ShowError(errors.New(message), d.window)
	d.logger.Debug("error dialog shown", zap.String("title", title))
}

func (d *windowDialogs) Info(title, message string) {
	dialog.ShowInformation(title, message, d.window)
}
