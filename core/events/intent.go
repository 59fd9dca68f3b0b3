package events

import "github.com/fridayvoice/friday-core/core/intents"

// KindIntentRecognized identifies a resolved intent for the current turn.
const KindIntentRecognized Kind = "intent.recognized"

// IntentRecognized carries the typed intent resolved from the final
// transcript, produced once per turn and consumed by the executor stage.
type IntentRecognized struct {
	Base
	Intent intents.Intent
}

// NewIntentRecognized creates an intent recognized event.
func NewIntentRecognized(intent intents.Intent) IntentRecognized {
	return IntentRecognized{Base: NewBase(KindIntentRecognized), Intent: intent}
}
