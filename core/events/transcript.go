package events

const (
	// KindPartialTranscript identifies an in-progress transcript snapshot.
	KindPartialTranscript Kind = "transcript.partial"
	// KindFinalTranscript identifies the final transcript for the utterance.
	KindFinalTranscript Kind = "transcript.final"
)

// PartialTranscript carries an in-progress transcript snapshot emitted by the
// speech-to-text engine before the final text is resolved.
type PartialTranscript struct {
	Base
	Text    string
	IsFinal bool
}

// NewPartialTranscript creates a partial transcript event.
func NewPartialTranscript(text string, isFinal bool) PartialTranscript {
	return PartialTranscript{Base: NewBase(KindPartialTranscript), Text: text, IsFinal: isFinal}
}

// FinalTranscript carries the terminal transcript for the utterance.
type FinalTranscript struct {
	Base
	Text string
}

// NewFinalTranscript creates a final transcript event.
func NewFinalTranscript(text string) FinalTranscript {
	return FinalTranscript{Base: NewBase(KindFinalTranscript), Text: text}
}
