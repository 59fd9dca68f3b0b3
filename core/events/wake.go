package events

// KindWakeDetected identifies a successful wake-word detection.
const KindWakeDetected Kind = "wake.detected"

// WakeDetected marks that the wake detector observed a wake signal and the
// session pipeline is about to start capturing speech.
type WakeDetected struct{ Base }

// NewWakeDetected creates a wake detected event.
func NewWakeDetected() WakeDetected {
	return WakeDetected{Base: NewBase(KindWakeDetected)}
}
