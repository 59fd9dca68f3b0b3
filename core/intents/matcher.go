package intents

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultConfidenceThreshold is the minimum winning confidence required
// before a match is accepted instead of falling back to Unknown.
const DefaultConfidenceThreshold = 0.6

// Matcher maps free text to a typed intent using an ordered registry of
// pattern rules, built once at construction and never mutated afterwards. A
// single matcher can therefore be shared by reference without
// synchronization. Matching is purely rule based, so results are fully
// reproducible for identical input.
type Matcher struct {
	rules     []rule
	threshold float64
	userName  string
}

type rule struct {
	kind       Kind
	pattern    *regexp.Regexp
	confidence float64
	build      func(m *Matcher, text string) Intent
}

// MatcherOption configures a matcher at construction time.
type MatcherOption func(*Matcher)

// WithConfidenceThreshold overrides the minimum confidence a winning pattern
// needs before the match is accepted.
func WithConfidenceThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) { m.threshold = threshold }
}

// WithUserName sets the user name attached to recognized greetings.
func WithUserName(name string) MatcherOption {
	return func(m *Matcher) { m.userName = name }
}

// NewMatcher builds the immutable rule registry.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{threshold: DefaultConfidenceThreshold}
	for _, opt := range opts {
		opt(m)
	}

	m.registerGreetingRules()
	m.registerTimerRules()
	m.registerWeatherRules()
	m.registerAppLaunchRules()
	m.registerSystemControlRules()
	m.registerQueryRules()

	return m
}

// ParseIntent evaluates every registered pattern against the text and builds
// the intent for the strictly highest-confidence match; the first-registered
// pattern wins ties. Anything below the confidence threshold, or no match at
// all, classifies as Unknown.
func (m *Matcher) ParseIntent(text string) Intent {
	var best *rule
	for i := range m.rules {
		r := &m.rules[i]
		if !r.pattern.MatchString(text) {
			continue
		}
		if best == nil || r.confidence > best.confidence {
			best = r
		}
	}

	if best == nil || best.confidence < m.threshold {
		return Unknown{Text: text}
	}

	return best.build(m, text)
}

func (m *Matcher) register(kind Kind, pattern string, confidence float64, build func(*Matcher, string) Intent) {
	m.rules = append(m.rules, rule{
		kind:       kind,
		pattern:    regexp.MustCompile(pattern),
		confidence: confidence,
		build:      build,
	})
}

func (m *Matcher) registerGreetingRules() {
	patterns := []struct {
		pattern    string
		confidence float64
	}{
		{`(?i)(?:hey|hi|hello|yo)\s+(?:friday|assistant)`, 0.95},
		{`(?i)(?:good\s+)?(?:morning|afternoon|evening)\s+friday`, 0.9},
		{`(?i)what'?s\s+up\s+friday`, 0.9},
	}
	for _, p := range patterns {
		m.register(KindGreeting, p.pattern, p.confidence, buildGreeting)
	}
}

func (m *Matcher) registerTimerRules() {
	patterns := []struct {
		pattern    string
		confidence float64
	}{
		{`(?i)set\s+(?:a\s+)?timer\s+for\s+(\d+)\s+(second|minute|hour)s?`, 0.9},
		{`(?i)(?:remind|alert)\s+me\s+in\s+(\d+)\s+(second|minute|hour)s?`, 0.8},
		{`(?i)timer\s+(\d+)\s+(second|minute|hour)s?`, 0.7},
		{`(?i)(\d+)\s+(second|minute|hour)\s+timer`, 0.7},
		{`(?i)set\s+timer\s+(\d+)`, 0.6},
	}
	for _, p := range patterns {
		m.register(KindTimer, p.pattern, p.confidence, buildTimer)
	}
}

func (m *Matcher) registerWeatherRules() {
	patterns := []struct {
		pattern    string
		confidence float64
	}{
		{`(?i)what'?s\s+the\s+weather\s+(?:like\s+)?(?:in\s+)?(.+)?`, 0.9},
		{`(?i)weather\s+(?:in\s+)?(.+)?`, 0.8},
		{`(?i)how'?s\s+the\s+weather\s+(?:in\s+)?(.+)?`, 0.8},
		{`(?i)is\s+it\s+(?:raining|sunny|cloudy|snowing)\s+(?:in\s+)?(.+)?`, 0.7},
		{`(?i)temperature\s+(?:in\s+)?(.+)?`, 0.7},
	}
	for _, p := range patterns {
		m.register(KindWeather, p.pattern, p.confidence, buildWeather)
	}
}

func (m *Matcher) registerAppLaunchRules() {
	patterns := []struct {
		pattern    string
		confidence float64
	}{
		{`(?i)open\s+(.+)`, 0.9},
		{`(?i)launch\s+(.+)`, 0.9},
		{`(?i)start\s+(.+)`, 0.8},
		{`(?i)run\s+(.+)`, 0.7},
	}
	for _, p := range patterns {
		m.register(KindAppLaunch, p.pattern, p.confidence, buildAppLaunch)
	}
}

func (m *Matcher) registerSystemControlRules() {
	patterns := []struct {
		pattern    string
		confidence float64
	}{
		{`(?i)(?:turn\s+)?volume\s+up`, 0.9},
		{`(?i)(?:turn\s+)?volume\s+down`, 0.9},
		{`(?i)(?:louder|increase\s+volume)`, 0.8},
		{`(?i)(?:quieter|decrease\s+volume|lower\s+volume)`, 0.8},
		{`(?i)mute`, 0.9},
		{`(?i)unmute`, 0.9},
		{`(?i)(?:go\s+to\s+)?sleep`, 0.8},
		{`(?i)shutdown|shut\s+down`, 0.9},
		{`(?i)restart|reboot`, 0.9},
	}
	for _, p := range patterns {
		m.register(KindSystemControl, p.pattern, p.confidence, buildSystemControl)
	}
}

func (m *Matcher) registerQueryRules() {
	patterns := []struct {
		pattern    string
		confidence float64
	}{
		{`(?i)what\s+is\s+(.+)`, 0.7},
		{`(?i)who\s+is\s+(.+)`, 0.7},
		{`(?i)when\s+(?:is|was|will)\s+(.+)`, 0.7},
		{`(?i)where\s+is\s+(.+)`, 0.7},
		{`(?i)how\s+(?:do\s+(?:i|you)|to)\s+(.+)`, 0.7},
		{`(?i)why\s+(.+)`, 0.6},
		{`(?i)tell\s+me\s+about\s+(.+)`, 0.8},
	}
	for _, p := range patterns {
		m.register(KindQuery, p.pattern, p.confidence, buildQuery)
	}
}

var (
	durationPattern   = regexp.MustCompile(`(?i)(\d+)\s+(second|minute|hour)s?`)
	bareNumberPattern = regexp.MustCompile(`\b(\d+)\b`)
	timerLabelPattern = regexp.MustCompile(`(?i)(?:called|named)\s+(.+?)(?:\s+timer)?$`)
	locationPattern   = regexp.MustCompile(`(?i)(?:in|for|at)\s+(.+?)(?:\s+today|\s+tomorrow|$)`)
	appNamePattern    = regexp.MustCompile(`(?i)(?:open|launch|start|run)\s+(.+)`)
	questionPattern   = regexp.MustCompile(`(?i)(?:what|who|when|where|how|why|tell\s+me\s+about)\s+(?:is\s+|was\s+|will\s+|do\s+|to\s+)?(.+)`)
)

const defaultTimerSeconds = 10

// ExtractDurationSeconds parses a "<number> <unit>" duration phrase and
// converts it to seconds (seconds x1, minutes x60, hours x3600). A bare
// number without a unit is treated as seconds. The second return reports
// whether any duration was found.
func ExtractDurationSeconds(text string) (int, bool) {
	if captures := durationPattern.FindStringSubmatch(text); captures != nil {
		num, err := strconv.Atoi(captures[1])
		if err != nil {
			return 0, false
		}
		switch strings.ToLower(captures[2]) {
		case "minute":
			return num * 60, true
		case "hour":
			return num * 3600, true
		default:
			return num, true
		}
	}

	if captures := bareNumberPattern.FindStringSubmatch(text); captures != nil {
		num, err := strconv.Atoi(captures[1])
		if err != nil {
			return 0, false
		}
		return num, true
	}

	return 0, false
}

func buildGreeting(m *Matcher, _ string) Intent {
	return Greeting{UserName: m.userName}
}

func buildTimer(_ *Matcher, text string) Intent {
	seconds, ok := ExtractDurationSeconds(text)
	if !ok {
		seconds = defaultTimerSeconds
	}

	intent := Timer{DurationSeconds: seconds}
	if captures := timerLabelPattern.FindStringSubmatch(text); captures != nil {
		intent.Label = strings.TrimSpace(captures[1])
	}

	return intent
}

func buildWeather(_ *Matcher, text string) Intent {
	intent := Weather{}
	if captures := locationPattern.FindStringSubmatch(text); captures != nil {
		location := strings.TrimSpace(captures[1])
		if len(location) > 1 {
			intent.Location = location
		}
	}

	return intent
}

func buildAppLaunch(_ *Matcher, text string) Intent {
	appName := "unknown"
	if captures := appNamePattern.FindStringSubmatch(text); captures != nil {
		appName = strings.TrimSpace(captures[1])
	}

	return AppLaunch{AppName: appName}
}

func buildSystemControl(_ *Matcher, text string) Intent {
	lower := strings.ToLower(text)

	action := ActionVolumeUp
	switch {
	case strings.Contains(lower, "volume up"), strings.Contains(lower, "louder"), strings.Contains(lower, "increase"):
		action = ActionVolumeUp
	case strings.Contains(lower, "volume down"), strings.Contains(lower, "quieter"),
		strings.Contains(lower, "decrease"), strings.Contains(lower, "lower"):
		action = ActionVolumeDown
	case strings.Contains(lower, "unmute"):
		action = ActionUnmute
	case strings.Contains(lower, "mute"):
		action = ActionMute
	case strings.Contains(lower, "sleep"):
		action = ActionSleep
	case strings.Contains(lower, "shutdown"), strings.Contains(lower, "shut down"):
		action = ActionShutdown
	case strings.Contains(lower, "restart"), strings.Contains(lower, "reboot"):
		action = ActionRestart
	}

	return SystemControl{Action: action}
}

func buildQuery(_ *Matcher, text string) Intent {
	question := text
	if captures := questionPattern.FindStringSubmatch(text); captures != nil {
		question = strings.TrimSpace(captures[1])
	}

	return Query{Question: question}
}
