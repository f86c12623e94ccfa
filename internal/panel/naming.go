package panel

import (
	"path/filepath"
	"strings"
)

const defaultTranscriptName = "transcription.txt"

// SuggestedFileName derives the save dialog's file name from the audio file:
// interview.wav becomes interview_transcription.txt.
func SuggestedFileName(audioPath string) string {
	if strings.TrimSpace(audioPath) == "" {
		return defaultTranscriptName
	}
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_transcription.txt"
}

// WithDefaultExt appends ext when path has no extension of its own.
func WithDefaultExt(path, ext string) string {
	if ext == "" || filepath.Ext(path) != "" {
		return path
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path + ext
}
