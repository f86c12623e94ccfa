package transcribe

import "strings"

// BlankAudioToken is what whisper prints for audio without speech.
const BlankAudioToken = "[BLANK_AUDIO]"

func IsBlankTranscript(transcript string) bool {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return true
	}
	return strings.EqualFold(trimmed, BlankAudioToken)
}

func NoSpeechHint() string {
	return "No speech detected. Check that the file contains audible speech and try again."
}
