// Package intents defines the typed intent union and the deterministic
// pattern-based intent matcher that maps free text to an intent plus
// extracted parameters.
package intents

// Kind identifies an intent variant.
type Kind string

const (
	KindTimer         Kind = "timer"
	KindGreeting      Kind = "greeting"
	KindWeather       Kind = "weather"
	KindAppLaunch     Kind = "app_launch"
	KindQuery         Kind = "query"
	KindSystemControl Kind = "system_control"
	KindUnknown       Kind = "unknown"
)

// Intent is the typed meaning extracted from one utterance. It is produced
// once per turn and consumed exactly once by the executor stage.
type Intent interface {
	IntentKind() Kind
}

// Timer requests a countdown timer.
type Timer struct {
	DurationSeconds int    `json:"durationSeconds"`
	Label           string `json:"label,omitempty"`
}

func (Timer) IntentKind() Kind { return KindTimer }

// Greeting is a salutation directed at the assistant.
type Greeting struct {
	UserName string `json:"userName,omitempty"`
}

func (Greeting) IntentKind() Kind { return KindGreeting }

// Weather requests a weather report, optionally for a specific location.
type Weather struct {
	Location string `json:"location,omitempty"`
}

func (Weather) IntentKind() Kind { return KindWeather }

// AppLaunch requests launching a named application.
type AppLaunch struct {
	AppName string `json:"appName"`
}

func (AppLaunch) IntentKind() Kind { return KindAppLaunch }

// Query is a free-form question.
type Query struct {
	Question string `json:"question"`
}

func (Query) IntentKind() Kind { return KindQuery }

// SystemAction names a system control operation.
type SystemAction string

const (
	ActionVolumeUp   SystemAction = "volume_up"
	ActionVolumeDown SystemAction = "volume_down"
	ActionMute       SystemAction = "mute"
	ActionUnmute     SystemAction = "unmute"
	ActionSleep      SystemAction = "sleep"
	ActionShutdown   SystemAction = "shutdown"
	ActionRestart    SystemAction = "restart"
)

// SystemControl requests a system-level action such as volume changes.
type SystemControl struct {
	Action SystemAction `json:"action"`
}

func (SystemControl) IntentKind() Kind { return KindSystemControl }

// Unknown carries the raw text of an utterance no pattern claimed with
// sufficient confidence.
type Unknown struct {
	Text string `json:"text"`
}

func (Unknown) IntentKind() Kind { return KindUnknown }
