package events

import (
	"encoding/json"
	"fmt"

	"github.com/fridayvoice/friday-core/core/intents"
)

// Encode serializes an event as a single JSON object keyed by the variant
// name, one object per event, for line-delimited consumption by an external
// UI process.
func Encode(e Event) ([]byte, error) {
	var name string
	var payload any

	switch typed := e.(type) {
	case WakeDetected:
		name, payload = "WakeDetected", struct{}{}
	case PartialTranscript:
		name, payload = "PartialTranscript", struct {
			Text    string `json:"text"`
			IsFinal bool   `json:"isFinal"`
		}{typed.Text, typed.IsFinal}
	case FinalTranscript:
		name, payload = "FinalTranscript", struct {
			Text string `json:"text"`
		}{typed.Text}
	case IntentRecognized:
		intent, err := intents.MarshalIntent(typed.Intent)
		if err != nil {
			return nil, fmt.Errorf("failed to encode recognized intent: %w", err)
		}
		name, payload = "IntentRecognized", struct {
			Intent json.RawMessage `json:"intent"`
		}{intent}
	case ExecutionStarted:
		name, payload = "ExecutionStarted", struct {
			Name string `json:"name"`
		}{typed.Name}
	case ExecutionFinished:
		name, payload = "ExecutionFinished", struct {
			Name string `json:"name"`
		}{typed.Name}
	case Notification:
		name, payload = "Notification", struct {
			Message string `json:"message"`
		}{typed.Message}
	case TtsStarted:
		name, payload = "TtsStarted", struct{}{}
	case TtsFinished:
		name, payload = "TtsFinished", struct{}{}
	case PluginStateChanged:
		name, payload = "PluginStateChanged", struct {
			Plugin string `json:"plugin"`
			Key    string `json:"key"`
			Value  any    `json:"value"`
		}{typed.Plugin, typed.Key, typed.Value}
	case PluginCustom:
		name, payload = "PluginCustom", struct {
			Plugin    string         `json:"plugin"`
			EventType string         `json:"eventType"`
			Data      map[string]any `json:"data,omitempty"`
		}{typed.Plugin, typed.EventType, typed.Data}
	default:
		return nil, fmt.Errorf("cannot encode event of unknown type: %T", e)
	}

	return json.Marshal(map[string]any{name: payload})
}
