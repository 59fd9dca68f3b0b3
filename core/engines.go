package orchestration

import (
	"context"

	"github.com/fridayvoice/friday-core/core/bus"
	"github.com/fridayvoice/friday-core/core/intents"
)

// Capability interfaces the pipeline consumes. Concrete engines — mock,
// subprocess-backed, or otherwise — are interchangeable behind them.

// WakeDetector suspends until a wake signal arrives.
type WakeDetector interface {
	WaitForWake(ctx context.Context) error
}

// SpeechToText captures speech until silence and returns the final
// transcript. It may emit PartialTranscript events through the sink before
// returning.
type SpeechToText interface {
	StreamUntilSilence(ctx context.Context, sink *bus.Producer) (string, error)
}

// TextToSpeech voices a response, emitting TtsStarted and TtsFinished around
// the synthesis.
type TextToSpeech interface {
	Speak(ctx context.Context, text string, sink *bus.Producer) error
}

// IntentSource maps a transcript to a typed intent. *intents.Matcher
// satisfies it.
type IntentSource interface {
	ParseIntent(text string) intents.Intent
}

// Executor carries out an intent and returns the response to speak. It emits
// ExecutionStarted and ExecutionFinished around its work. *plugins.Executor
// and *DefaultExecutor both satisfy it.
type Executor interface {
	Execute(ctx context.Context, intent intents.Intent, sink *bus.Producer) (string, error)
}
