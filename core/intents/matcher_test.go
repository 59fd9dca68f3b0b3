package intents

import "testing"

func TestParseIntentTimerDurations(t *testing.T) {
	matcher := NewMatcher()

	cases := []struct {
		text        string
		wantSeconds int
	}{
		{"set a timer for 5 minutes", 300},
		{"set a timer for 30 seconds", 30},
		{"set a timer for 2 hours", 7200},
		{"remind me in 10 minutes", 600},
		{"timer 45 seconds", 45},
		{"3 minute timer", 180},
		{"set timer 10", 10},
	}

	for _, c := range cases {
		intent := matcher.ParseIntent(c.text)
		timer, ok := intent.(Timer)
		if !ok {
			t.Errorf("expected %q to parse as a timer, got %T", c.text, intent)
			continue
		}
		if timer.DurationSeconds != c.wantSeconds {
			t.Errorf("expected %q to yield %d seconds, got %d", c.text, c.wantSeconds, timer.DurationSeconds)
		}
	}
}

func TestParseIntentTimerLabel(t *testing.T) {
	matcher := NewMatcher()

	intent := matcher.ParseIntent("set a timer for 5 minutes called pasta")
	timer, ok := intent.(Timer)
	if !ok {
		t.Fatalf("expected a timer, got %T", intent)
	}
	if timer.Label != "pasta" {
		t.Errorf("expected label \"pasta\", got %q", timer.Label)
	}
}

func TestParseIntentGreeting(t *testing.T) {
	matcher := NewMatcher(WithUserName("Luka"))

	for _, text := range []string{
		"hey friday",
		"hello assistant",
		"good morning friday",
		"what's up friday",
	} {
		intent := matcher.ParseIntent(text)
		greeting, ok := intent.(Greeting)
		if !ok {
			t.Errorf("expected %q to parse as a greeting, got %T", text, intent)
			continue
		}
		if greeting.UserName != "Luka" {
			t.Errorf("expected greeting to carry the user name, got %q", greeting.UserName)
		}
	}
}

func TestParseIntentWeatherLocation(t *testing.T) {
	matcher := NewMatcher()

	cases := []struct {
		text         string
		wantLocation string
	}{
		{"what's the weather like in Boston", "Boston"},
		{"weather in Zagreb today", "Zagreb"},
		{"how's the weather", ""},
	}

	for _, c := range cases {
		intent := matcher.ParseIntent(c.text)
		weather, ok := intent.(Weather)
		if !ok {
			t.Errorf("expected %q to parse as weather, got %T", c.text, intent)
			continue
		}
		if weather.Location != c.wantLocation {
			t.Errorf("expected %q to yield location %q, got %q", c.text, c.wantLocation, weather.Location)
		}
	}
}

func TestParseIntentAppLaunch(t *testing.T) {
	matcher := NewMatcher()

	intent := matcher.ParseIntent("open spotify")
	appLaunch, ok := intent.(AppLaunch)
	if !ok {
		t.Fatalf("expected an app launch, got %T", intent)
	}
	if appLaunch.AppName != "spotify" {
		t.Errorf("expected app name \"spotify\", got %q", appLaunch.AppName)
	}
}

func TestParseIntentSystemControl(t *testing.T) {
	matcher := NewMatcher()

	cases := []struct {
		text       string
		wantAction SystemAction
	}{
		{"volume up", ActionVolumeUp},
		{"turn volume down", ActionVolumeDown},
		{"mute", ActionMute},
		{"unmute", ActionUnmute},
		{"shut down", ActionShutdown},
		{"restart", ActionRestart},
	}

	for _, c := range cases {
		intent := matcher.ParseIntent(c.text)
		control, ok := intent.(SystemControl)
		if !ok {
			t.Errorf("expected %q to parse as system control, got %T", c.text, intent)
			continue
		}
		if control.Action != c.wantAction {
			t.Errorf("expected %q to yield action %q, got %q", c.text, c.wantAction, control.Action)
		}
	}
}

func TestParseIntentQuery(t *testing.T) {
	matcher := NewMatcher()

	intent := matcher.ParseIntent("what is the capital of France")
	query, ok := intent.(Query)
	if !ok {
		t.Fatalf("expected a query, got %T", intent)
	}
	if query.Question != "the capital of France" {
		t.Errorf("unexpected question %q", query.Question)
	}
}

func TestParseIntentUnknown(t *testing.T) {
	matcher := NewMatcher()

	for _, text := range []string{
		"asdf qwerty",
		"blue elephant sandwich",
		"",
	} {
		intent := matcher.ParseIntent(text)
		unknown, ok := intent.(Unknown)
		if !ok {
			t.Errorf("expected %q to be unknown, got %T", text, intent)
			continue
		}
		if unknown.Text != text {
			t.Errorf("expected unknown to carry the raw text, got %q", unknown.Text)
		}
	}
}

func TestParseIntentThresholdOverride(t *testing.T) {
	matcher := NewMatcher(WithConfidenceThreshold(0.95))

	// 0.9 confidence falls below the raised threshold.
	if _, ok := matcher.ParseIntent("set a timer for 5 minutes").(Unknown); !ok {
		t.Error("expected a raised threshold to reject weaker matches")
	}
	if _, ok := matcher.ParseIntent("hey friday").(Greeting); !ok {
		t.Error("expected a 0.95 match to survive the raised threshold")
	}
}

func TestParseIntentDeterministic(t *testing.T) {
	matcher := NewMatcher()

	// "start" and "run" both match; the higher-confidence rule must win every
	// time regardless of evaluation count.
	first := matcher.ParseIntent("start run club playlist")
	for range 50 {
		if got := matcher.ParseIntent("start run club playlist"); got != first {
			t.Fatalf("expected identical results on repeat parses, got %#v then %#v", first, got)
		}
	}
}
