package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fmueller/voxdesk/internal/panel"
	"github.com/fmueller/voxdesk/internal/transcribe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTranscribeCmd(app *appState) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file without opening a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcribeFn := app.transcribeFn
			if transcribeFn == nil {
				transcribeFn = app.transcribeFile
			}

			transcript, err := transcribeFn(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), transcript)
			if transcribe.IsBlankTranscript(transcript) {
				app.log().Warn(transcribe.NoSpeechHint())
				return nil
			}

			if strings.TrimSpace(output) == "" {
				return nil
			}
			saved, err := writeTranscript(output, args[0], transcript)
			if err != nil {
				return fmt.Errorf("save transcription: %w", err)
			}
			app.log().Info("transcription saved", zap.String("path", saved))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Also save the transcript to this file, or into this directory")
	return cmd
}

func (a *appState) transcribeFile(ctx context.Context, audioPath string) (string, error) {
	audioPath = filepath.Clean(audioPath)
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("audio file not found: %w", err)
	}

	svc, err := transcribe.New(ctx, a.serviceOptions(nil, a.noProgress))
	if err != nil {
		return "", err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			a.log().Warn("close transcriber", zap.Error(err))
		}
	}()

	stopSpinner := startSpinner(a.progressEnabled(), "Transcribing")
	defer stopSpinner()

	return svc.Transcribe(ctx, audioPath)
}

// writeTranscript saves text to output. A directory gets the same file name
// the save dialog would suggest.
func writeTranscript(output, audioPath, text string) (string, error) {
	path := output
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		path = filepath.Join(output, panel.SuggestedFileName(audioPath))
	} else {
		path = panel.WithDefaultExt(path, ".txt")
	}

	if err := panel.WriteFileAtomic(path, []byte(text)); err != nil {
		return "", err
	}
	return path, nil
}
