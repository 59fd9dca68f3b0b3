package events

const (
	// KindTtsStarted identifies the start of speech synthesis.
	KindTtsStarted Kind = "tts.started"
	// KindTtsFinished identifies the end of speech synthesis.
	KindTtsFinished Kind = "tts.finished"
)

// TtsStarted marks that the speech synthesizer began speaking the response.
type TtsStarted struct{ Base }

// NewTtsStarted creates a TTS started event.
func NewTtsStarted() TtsStarted {
	return TtsStarted{Base: NewBase(KindTtsStarted)}
}

// TtsFinished marks that the speech synthesizer finished speaking.
type TtsFinished struct{ Base }

// NewTtsFinished creates a TTS finished event.
func NewTtsFinished() TtsFinished {
	return TtsFinished{Base: NewBase(KindTtsFinished)}
}
