package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"go.uber.org/zap"
)

// fyneDispatcher hands closures to the fyne event loop and keeps a panic in
// one of them from taking the window down.
type fyneDispatcher struct {
	logger *zap.Logger
}

func (d fyneDispatcher) Do(fn func()) {
	fyne.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("ui callback panicked", zap.String("panic", fmt.Sprint(r)))
			}
		}()
		fn()
	})
}
