package bridge

import (
	"github.com/fridayvoice/friday-core/core/events"
	"github.com/fridayvoice/friday-core/core/intents"
)

// CallbackSink dispatches each event to a matching typed callback, for
// embedders that want plain function hooks instead of reading the stream.
// Nil callbacks are skipped; unmatched events are dropped silently.
type CallbackSink struct {
	OnWakeDetected      func()
	OnPartialTranscript func(text string, isFinal bool)
	OnFinalTranscript   func(text string)
	OnIntentRecognized  func(intent intents.Intent)
	OnExecutionStarted  func(name string)
	OnExecutionFinished func(name string)
	OnNotification      func(message string)
	OnTtsStarted        func()
	OnTtsFinished       func()
}

func (s *CallbackSink) Send(event events.Event) error {
	switch typedEvent := event.(type) {
	case events.WakeDetected:
		if s.OnWakeDetected != nil {
			s.OnWakeDetected()
		}
	case events.PartialTranscript:
		if s.OnPartialTranscript != nil {
			s.OnPartialTranscript(typedEvent.Text, typedEvent.IsFinal)
		}
	case events.FinalTranscript:
		if s.OnFinalTranscript != nil {
			s.OnFinalTranscript(typedEvent.Text)
		}
	case events.IntentRecognized:
		if s.OnIntentRecognized != nil {
			s.OnIntentRecognized(typedEvent.Intent)
		}
	case events.ExecutionStarted:
		if s.OnExecutionStarted != nil {
			s.OnExecutionStarted(typedEvent.Name)
		}
	case events.ExecutionFinished:
		if s.OnExecutionFinished != nil {
			s.OnExecutionFinished(typedEvent.Name)
		}
	case events.Notification:
		if s.OnNotification != nil {
			s.OnNotification(typedEvent.Message)
		}
	case events.TtsStarted:
		if s.OnTtsStarted != nil {
			s.OnTtsStarted()
		}
	case events.TtsFinished:
		if s.OnTtsFinished != nil {
			s.OnTtsFinished()
		}
	}
	return nil
}

func (s *CallbackSink) Close() error { return nil }
