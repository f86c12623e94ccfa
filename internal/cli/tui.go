package cli

import (
	"github.com/fmueller/voxdesk/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTUICmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:         "tui [audio-file]",
		Short:       "Run the transcription panel in the terminal",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{logToFile: "true"},
		RunE: func(_ *cobra.Command, args []string) error {
			app.log().Info("starting terminal ui", zap.String("audio", firstArg(args)))
			return app.runTUIFn(tui.Options{
				Engine:    app.engineFactory(),
				Describe:  app.describeAudio,
				Logger:    app.log().Named("tui"),
				AudioPath: firstArg(args),
			})
		},
	}
}

func runTUI(opts tui.Options) error {
	app, err := tui.New(opts)
	if err != nil {
		return err
	}
	return app.Run()
}
