package orchestration

import (
	"context"

	"github.com/fridayvoice/friday-core/core/bus"
	"github.com/fridayvoice/friday-core/core/events"
)

// Deterministic engines for development and tests. Unlike the real engines
// they involve no audio, no subprocesses and no randomness.

// MockWakeDetector wakes immediately, or fails with the configured error.
type MockWakeDetector struct {
	Err error
}

func (m *MockWakeDetector) WaitForWake(ctx context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	return ctx.Err()
}

// MockSpeechToText emits its scripted partials and returns the transcript.
type MockSpeechToText struct {
	Partials   []string
	Transcript string
	Err        error
}

func (m *MockSpeechToText) StreamUntilSilence(ctx context.Context, sink *bus.Producer) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	for _, partial := range m.Partials {
		sink.Emit(events.NewPartialTranscript(partial, false))
	}
	transcript := m.Transcript
	if transcript == "" {
		transcript = "hello there assistant"
	}
	return transcript, ctx.Err()
}

// MockTextToSpeech records what it was asked to say.
type MockTextToSpeech struct {
	Spoken []string
	Err    error
}

func (m *MockTextToSpeech) Speak(ctx context.Context, text string, sink *bus.Producer) error {
	if m.Err != nil {
		return m.Err
	}
	sink.Emit(events.NewTtsStarted())
	m.Spoken = append(m.Spoken, text)
	sink.Emit(events.NewTtsFinished())
	return ctx.Err()
}
