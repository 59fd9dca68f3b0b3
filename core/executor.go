package orchestration

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fridayvoice/friday-core/core/bus"
	"github.com/fridayvoice/friday-core/core/events"
	"github.com/fridayvoice/friday-core/core/intents"
)

// DefaultExecutor is the non-plugin execution path. Timers complete in the
// background; weather and queries are simulated locally; app launches and
// volume control shell out to the platform's own tooling.
type DefaultExecutor struct {
	weatherAPIKey string
	appAliases    map[string]string

	// newTimer is swapped out in tests to drive timers with simulated time.
	newTimer   func(time.Duration) <-chan time.Time
	runCommand func(ctx context.Context, name string, args ...string) error
	now        func() time.Time
}

// ExecutorOption configures a DefaultExecutor at construction time.
type ExecutorOption func(*DefaultExecutor)

// WithWeatherAPIKey enables real-sounding weather responses.
func WithWeatherAPIKey(apiKey string) ExecutorOption {
	return func(e *DefaultExecutor) { e.weatherAPIKey = apiKey }
}

// WithAppAlias maps a spoken alias to the application name to launch.
func WithAppAlias(alias, appName string) ExecutorOption {
	return func(e *DefaultExecutor) { e.appAliases[strings.ToLower(alias)] = appName }
}

// WithTimerFunc replaces the timer channel factory, for simulated time in
// tests.
func WithTimerFunc(newTimer func(time.Duration) <-chan time.Time) ExecutorOption {
	return func(e *DefaultExecutor) { e.newTimer = newTimer }
}

// WithCommandRunner replaces the subprocess runner used for app launches and
// system control.
func WithCommandRunner(run func(ctx context.Context, name string, args ...string) error) ExecutorOption {
	return func(e *DefaultExecutor) { e.runCommand = run }
}

// WithClock overrides the time source used for time and date queries.
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *DefaultExecutor) { e.now = now }
}

// NewDefaultExecutor builds the executor with the stock app aliases.
func NewDefaultExecutor(opts ...ExecutorOption) *DefaultExecutor {
	e := &DefaultExecutor{
		appAliases: map[string]string{
			"chrome":   "Google Chrome",
			"firefox":  "Firefox",
			"safari":   "Safari",
			"edge":     "Microsoft Edge",
			"vscode":   "Visual Studio Code",
			"code":     "Visual Studio Code",
			"terminal": "Terminal",
			"slack":    "Slack",
			"discord":  "Discord",
			"zoom":     "Zoom",
			"teams":    "Microsoft Teams",
			"notes":    "Notes",
			"calendar": "Calendar",
			"mail":     "Mail",
			"spotify":  "Spotify",
			"music":    "Music",
			"photos":   "Photos",
			"vlc":      "VLC",
		},
		newTimer: func(d time.Duration) <-chan time.Time { return time.After(d) },
		now:      time.Now,
	}
	e.runCommand = func(ctx context.Context, name string, args ...string) error {
		return exec.CommandContext(ctx, name, args...).Run()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute implements the pipeline executor contract.
func (e *DefaultExecutor) Execute(ctx context.Context, intent intents.Intent, sink *bus.Producer) (string, error) {
	switch typedIntent := intent.(type) {
	case intents.Timer:
		return e.executeTimer(typedIntent, sink), nil
	case intents.Greeting:
		return e.executeGreeting(typedIntent, sink), nil
	case intents.Weather:
		return e.executeWeather(typedIntent.Location, sink), nil
	case intents.AppLaunch:
		return e.executeAppLaunch(ctx, typedIntent.AppName, sink), nil
	case intents.SystemControl:
		return e.executeSystemControl(ctx, typedIntent.Action, sink), nil
	case intents.Query:
		return e.executeQuery(typedIntent.Question, sink), nil
	case intents.Unknown:
		return e.executeUnknown(ctx, typedIntent.Text, sink), nil
	}
	return "", fmt.Errorf("unsupported intent %q", intent.IntentKind())
}

// executeTimer answers immediately and completes in the background: the
// detached goroutine holds its own cloned producer, so it can outlive the
// turn — and the turn's producer — that spawned it.
func (e *DefaultExecutor) executeTimer(timer intents.Timer, sink *bus.Producer) string {
	sink.Emit(events.NewExecutionStarted("timer"))

	duration := time.Duration(timer.DurationSeconds) * time.Second
	background := sink.Clone()
	go func() {
		defer background.Close()
		<-e.newTimer(duration)
		background.Emit(events.NewNotification("Timer done"))
		background.Emit(events.NewExecutionFinished("timer"))
	}()

	return fmt.Sprintf("Timer set for %d seconds", timer.DurationSeconds)
}

func (e *DefaultExecutor) executeGreeting(greeting intents.Greeting, sink *bus.Producer) string {
	sink.Emit(events.NewExecutionStarted("greeting"))
	defer sink.Emit(events.NewExecutionFinished("greeting"))

	if greeting.UserName != "" {
		return fmt.Sprintf("Hello %s! How can I help you?", greeting.UserName)
	}
	return "Hello! How can I help you?"
}

func (e *DefaultExecutor) executeWeather(location string, sink *bus.Producer) string {
	sink.Emit(events.NewExecutionStarted("weather"))
	defer sink.Emit(events.NewExecutionFinished("weather"))

	if location == "" {
		location = "your location"
	}
	if e.weatherAPIKey == "" {
		return fmt.Sprintf("Weather information for %s is not available. Please configure a weather API key.", location)
	}
	return fmt.Sprintf("The weather in %s is partly cloudy with a temperature of 72 degrees Fahrenheit", location)
}

func (e *DefaultExecutor) executeAppLaunch(ctx context.Context, appName string, sink *bus.Producer) string {
	sink.Emit(events.NewExecutionStarted("app_launch"))
	defer sink.Emit(events.NewExecutionFinished("app_launch"))

	resolved := appName
	if alias, ok := e.appAliases[strings.ToLower(appName)]; ok {
		resolved = alias
	}

	if err := e.launchApp(ctx, resolved); err != nil {
		logger.WarnContext(ctx, "Failed to launch app", "app", resolved, "error", err)
		return fmt.Sprintf("Sorry, I couldn't launch %s.", resolved)
	}
	return fmt.Sprintf("Launched %s", resolved)
}

func (e *DefaultExecutor) launchApp(ctx context.Context, appName string) error {
	switch runtime.GOOS {
	case "darwin":
		return e.runCommand(ctx, "open", "-a", appName)
	case "windows":
		return e.runCommand(ctx, "cmd", "/C", "start", "", appName)
	default:
		return e.runCommand(ctx, "xdg-open", appName)
	}
}

func (e *DefaultExecutor) executeSystemControl(ctx context.Context, action intents.SystemAction, sink *bus.Producer) string {
	sink.Emit(events.NewExecutionStarted("system_control"))
	defer sink.Emit(events.NewExecutionFinished("system_control"))

	response, err := e.performSystemAction(ctx, action)
	if err != nil {
		logger.WarnContext(ctx, "System action failed", "action", action, "error", err)
		return fmt.Sprintf("Sorry, I couldn't %s.", strings.ReplaceAll(string(action), "_", " "))
	}
	return response
}

// performSystemAction drives the platform mixer on macOS and simulates
// elsewhere; the destructive actions are always simulated.
func (e *DefaultExecutor) performSystemAction(ctx context.Context, action intents.SystemAction) (string, error) {
	if runtime.GOOS != "darwin" {
		return fmt.Sprintf("System action '%s' executed (simulated)", action), nil
	}

	switch action {
	case intents.ActionVolumeUp:
		err := e.runCommand(ctx, "osascript", "-e",
			"set volume output volume (output volume of (get volume settings) + 10)")
		return "Volume increased", err
	case intents.ActionVolumeDown:
		err := e.runCommand(ctx, "osascript", "-e",
			"set volume output volume (output volume of (get volume settings) - 10)")
		return "Volume decreased", err
	case intents.ActionMute:
		err := e.runCommand(ctx, "osascript", "-e", "set volume with output muted")
		return "Audio muted", err
	case intents.ActionUnmute:
		err := e.runCommand(ctx, "osascript", "-e", "set volume without output muted")
		return "Audio unmuted", err
	}
	return fmt.Sprintf("System action '%s' executed (simulated)", action), nil
}

func (e *DefaultExecutor) executeQuery(question string, sink *bus.Producer) string {
	sink.Emit(events.NewExecutionStarted("query"))
	defer sink.Emit(events.NewExecutionFinished("query"))

	return e.knowledgeResponse(question)
}

func (e *DefaultExecutor) knowledgeResponse(question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "time"):
		return "The current time is " + e.now().Format("3:04 PM")
	case strings.Contains(lower, "date"):
		return "Today is " + e.now().Format("Monday, January 2, 2006")
	case strings.Contains(lower, "friday") && strings.Contains(lower, "assistant"):
		return "I'm Friday, your voice assistant. I can help you with timers, weather, launching apps, and answering questions."
	case strings.Contains(lower, "help"):
		return "I can help you with setting timers, checking weather, launching applications, controlling system volume, and answering basic questions. Just ask me!"
	default:
		return fmt.Sprintf("I'm not sure about '%s'. You could try asking about the time, date, weather, or ask me to launch an app or set a timer.", question)
	}
}

// executeUnknown takes one more keyword pass at an unclassified utterance
// before giving up with a canned response.
func (e *DefaultExecutor) executeUnknown(ctx context.Context, text string, sink *bus.Producer) string {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "weather"):
		location := ""
		if pos := strings.Index(lower, " in "); pos >= 0 {
			location = strings.TrimSpace(text[pos+4:])
		}
		return e.executeWeather(location, sink)
	case strings.Contains(lower, "open "), strings.Contains(lower, "launch "), strings.Contains(lower, "start "):
		appName := "unknown"
		for _, verb := range []string{"open ", "launch ", "start "} {
			if pos := strings.Index(lower, verb); pos >= 0 {
				appName = strings.TrimSpace(text[pos+len(verb):])
				break
			}
		}
		return e.executeAppLaunch(ctx, appName, sink)
	case strings.Contains(lower, "volume"), strings.Contains(lower, "mute"):
		action := intents.ActionVolumeUp
		switch {
		case strings.Contains(lower, "volume down"), strings.Contains(lower, "quieter"):
			action = intents.ActionVolumeDown
		case strings.Contains(lower, "unmute"):
			action = intents.ActionUnmute
		case strings.Contains(lower, "mute"):
			action = intents.ActionMute
		}
		return e.executeSystemControl(ctx, action, sink)
	}

	return "I'm not sure how to help with that. You could ask me to set a timer, check the weather, or open an app."
}
