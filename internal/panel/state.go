package panel

type State int

const (
	NoFileSelected State = iota
	FileSelected
	Transcribing
	TranscriptionDone
)

func (s State) String() string {
	switch s {
	case FileSelected:
		return "file-selected"
	case Transcribing:
		return "transcribing"
	case TranscriptionDone:
		return "transcription-done"
	default:
		return "no-file-selected"
	}
}

// Snapshot is what a view renders. TranscriptRev increments each time the
// panel replaces the transcript, so views only overwrite the text area when
// a new transcription lands and keep the user's edits otherwise.
type Snapshot struct {
	State         State
	FileLabel     string
	FileDetail    string
	Status        string
	CanTranscribe bool
	CanSave       bool
	Transcript    string
	TranscriptRev uint64
}

const (
	LabelNoFile = "No file selected"

	StatusReady        = "Ready to transcribe"
	StatusFileSelected = "File selected. Ready to transcribe."
	StatusInitializing = "Initializing transcriber..."
	StatusTranscribing = "Transcribing audio... This may take a while."
	StatusDone         = "Transcription completed successfully!"
	StatusFailed       = "Transcription failed. Please try again."

	TitlePickAudio = "Select Audio File for Transcription"
	TitleSave      = "Save Transcription"
)
