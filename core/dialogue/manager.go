// Package dialogue keeps per-session conversational state and drives
// multi-turn slot filling when an utterance names an intent but not all of
// its required parameters.
package dialogue

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/fridayvoice/friday-core/core/intents"
)

const (
	DefaultSessionTimeout = 5 * time.Minute
	DefaultMaxSessions    = 100
	DefaultHistoryLimit   = 10
)

// Slot names used by the built-in intent tables.
const (
	SlotDuration = "duration_seconds"
	SlotLabel    = "label"
	SlotLocation = "location"
	SlotAppName  = "app_name"
)

// Turn is one exchange entry in a session's history.
type Turn struct {
	Role string
	Text string
	At   time.Time
}

// ActiveIntent is a partially filled intent awaiting more slots. Missing is
// kept in required-declaration order; slot filling always targets Missing[0].
type ActiveIntent struct {
	IntentType intents.Kind
	Required   []string
	Optional   []string
	Filled     map[string]string
	Missing    []string
}

// Session is the per-session conversational state.
type Session struct {
	ID           string
	Context      map[string]string
	Active       *ActiveIntent
	History      []Turn
	CreatedAt    time.Time
	LastActivity time.Time
	TurnCount    int
}

// Result is the outcome of one dialogue turn. Intent is non-nil only when
// the turn completed an intent.
type Result struct {
	SessionID      string
	Response       string
	NeedsMoreInput bool
	Intent         intents.Intent
}

// Manager owns the session map. It is driven by a single orchestrator flow
// and is not safe for concurrent mutation.
type Manager struct {
	sessions map[string]*Session

	sessionTimeout time.Duration
	maxSessions    int
	historyLimit   int

	now func() time.Time
}

// ManagerOption configures a manager at construction time.
type ManagerOption func(*Manager)

// WithSessionTimeout overrides how long an idle session survives.
func WithSessionTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) { m.sessionTimeout = timeout }
}

// WithMaxSessions overrides the live session ceiling. Non-positive limits
// are ignored.
func WithMaxSessions(limit int) ManagerOption {
	return func(m *Manager) {
		if limit > 0 {
			m.maxSessions = limit
		}
	}
}

// WithHistoryLimit overrides the per-session history cap. Non-positive
// limits are ignored.
func WithHistoryLimit(limit int) ManagerOption {
	return func(m *Manager) {
		if limit > 0 {
			m.historyLimit = limit
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:       map[string]*Session{},
		sessionTimeout: DefaultSessionTimeout,
		maxSessions:    DefaultMaxSessions,
		historyLimit:   DefaultHistoryLimit,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HasActiveIntent reports whether a slot-filling conversation is in progress
// for the session.
func (m *Manager) HasActiveIntent(sessionID string) bool {
	session, ok := m.sessions[sessionID]
	return ok && session.Active != nil
}

// ProcessInput runs one dialogue turn. Idle sessions are purged on every
// call; the session is created lazily (with a generated id when sessionID is
// empty), and the least-recently-active session is evicted once the ceiling
// is exceeded.
func (m *Manager) ProcessInput(ctx context.Context, sessionID, text string) (Result, error) {
	ctx, span := tracer.Start(ctx, "process dialogue turn")
	defer span.End()

	m.CleanupExpired()

	session := m.getOrCreateSession(sessionID)
	session.TurnCount++
	session.LastActivity = m.now()
	m.appendHistory(session, "user", text)

	var result Result
	if session.Active != nil {
		result = m.continueSlotFilling(session, text)
	} else {
		result = m.intake(session, text)
	}
	result.SessionID = session.ID

	m.appendHistory(session, "assistant", result.Response)
	logger.DebugContext(ctx, "Dialogue turn processed",
		"session", session.ID, "needsMoreInput", result.NeedsMoreInput)
	return result, nil
}

// CleanupExpired removes every session idle longer than the session timeout.
func (m *Manager) CleanupExpired() {
	now := m.now()
	for id, session := range m.sessions {
		if now.Sub(session.LastActivity) > m.sessionTimeout {
			delete(m.sessions, id)
		}
	}
}

// SessionCount reports the number of live sessions.
func (m *Manager) SessionCount() int {
	return len(m.sessions)
}

// Snapshot deep-copies the current session map for inspection.
func (m *Manager) Snapshot() (map[string]Session, error) {
	snapshot := map[string]Session{}
	for id, session := range m.sessions {
		var copied Session
		if err := copier.CopyWithOption(&copied, session, copier.Option{DeepCopy: true}); err != nil {
			return nil, fmt.Errorf("failed to snapshot session %q: %w", id, err)
		}
		snapshot[id] = copied
	}
	return snapshot, nil
}

func (m *Manager) getOrCreateSession(sessionID string) *Session {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if session, ok := m.sessions[sessionID]; ok {
		return session
	}

	session := &Session{
		ID:           sessionID,
		Context:      map[string]string{},
		CreatedAt:    m.now(),
		LastActivity: m.now(),
	}
	m.sessions[sessionID] = session

	for len(m.sessions) > m.maxSessions {
		if !m.evictLeastRecentlyActive(sessionID) {
			break
		}
	}
	return session
}

// evictLeastRecentlyActive reports whether a session was evicted; the kept
// session is never a candidate.
func (m *Manager) evictLeastRecentlyActive(keep string) bool {
	var oldestID string
	var oldest time.Time
	for id, session := range m.sessions {
		if id == keep {
			continue
		}
		if oldestID == "" || session.LastActivity.Before(oldest) {
			oldestID = id
			oldest = session.LastActivity
		}
	}
	if oldestID == "" {
		return false
	}
	delete(m.sessions, oldestID)
	return true
}

func (m *Manager) appendHistory(session *Session, role, text string) {
	session.History = append(session.History, Turn{Role: role, Text: text, At: m.now()})
	if overflow := len(session.History) - m.historyLimit; overflow > 0 {
		session.History = session.History[overflow:]
	}
}

// intake starts a new intent from an utterance: coarse keyword detection
// picks the intent type, every extractable slot is filled from the utterance
// itself, and the first still-missing required slot is prompted for.
func (m *Manager) intake(session *Session, text string) Result {
	active, ok := detectIntent(text)
	if !ok {
		return Result{
			Response: "I didn't understand that. Can you try again?",
			Intent:   intents.Unknown{Text: text},
		}
	}

	fillFromUtterance(active, text)
	active.Missing = missingSlots(active)

	if len(active.Missing) > 0 {
		session.Active = active
		return Result{
			Response:       promptFor(active.Missing[0]),
			NeedsMoreInput: true,
		}
	}

	return completeIntent(session, active)
}

// continueSlotFilling handles a follow-up turn while a slot is awaited. A
// failed extraction re-prompts the same slot without advancing.
func (m *Manager) continueSlotFilling(session *Session, text string) Result {
	active := session.Active
	slot := active.Missing[0]

	value, ok := extractSlot(slot, text, true)
	if !ok {
		return Result{
			Response:       "I didn't understand. " + promptFor(slot),
			NeedsMoreInput: true,
		}
	}

	active.Filled[slot] = value
	active.Missing = active.Missing[1:]

	if len(active.Missing) > 0 {
		return Result{
			Response:       promptFor(active.Missing[0]),
			NeedsMoreInput: true,
		}
	}

	return completeIntent(session, active)
}

// detectIntent is a coarse keyword pass; the precise pattern matching lives
// in the intent matcher, which runs before the dialogue manager gets
// involved.
func detectIntent(text string) (*ActiveIntent, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "timer"), strings.Contains(lower, "remind"):
		return &ActiveIntent{
			IntentType: intents.KindTimer,
			Required:   []string{SlotDuration},
			Optional:   []string{SlotLabel},
			Filled:     map[string]string{},
		}, true
	case strings.Contains(lower, "weather"), strings.Contains(lower, "temperature"):
		return &ActiveIntent{
			IntentType: intents.KindWeather,
			Optional:   []string{SlotLocation},
			Filled:     map[string]string{},
		}, true
	case strings.Contains(lower, "open"), strings.Contains(lower, "launch"):
		return &ActiveIntent{
			IntentType: intents.KindAppLaunch,
			Required:   []string{SlotAppName},
			Filled:     map[string]string{},
		}, true
	}
	return nil, false
}

var (
	labelPattern    = regexp.MustCompile(`(?i)(?:called|named)\s+(.+?)(?:\s+timer)?$`)
	locationPattern = regexp.MustCompile(`(?i)(?:in|for|at)\s+(.+?)(?:\s+today|\s+tomorrow|$)`)
	appPattern      = regexp.MustCompile(`(?i)(?:open|launch|start|run)\s+(.+)`)
)

func fillFromUtterance(active *ActiveIntent, text string) {
	for _, slot := range append(append([]string{}, active.Required...), active.Optional...) {
		if value, ok := extractSlot(slot, text, false); ok {
			active.Filled[slot] = value
		}
	}
}

// extractSlot pulls one slot value out of an utterance. During intake only
// slot-specific patterns apply; on a follow-up turn the whole utterance is
// acceptable as a free-text value for non-numeric slots, since the user was
// just asked for exactly that.
func extractSlot(slot, text string, followUp bool) (string, bool) {
	switch slot {
	case SlotDuration:
		seconds, ok := intents.ExtractDurationSeconds(text)
		if !ok {
			return "", false
		}
		return strconv.Itoa(seconds), true
	case SlotLabel:
		if captures := labelPattern.FindStringSubmatch(text); captures != nil {
			return strings.TrimSpace(captures[1]), true
		}
	case SlotLocation:
		if captures := locationPattern.FindStringSubmatch(text); captures != nil {
			location := strings.TrimSpace(captures[1])
			if len(location) > 1 {
				return location, true
			}
		}
	case SlotAppName:
		if captures := appPattern.FindStringSubmatch(text); captures != nil {
			return strings.TrimSpace(captures[1]), true
		}
	}

	if !followUp {
		return "", false
	}
	value := strings.TrimSpace(text)
	return value, value != ""
}

func missingSlots(active *ActiveIntent) []string {
	var missing []string
	for _, slot := range active.Required {
		if _, ok := active.Filled[slot]; !ok {
			missing = append(missing, slot)
		}
	}
	return missing
}

func promptFor(slot string) string {
	switch slot {
	case SlotDuration:
		return "How long should the timer be?"
	case SlotLabel:
		return "What should I call it?"
	case SlotLocation:
		return "Which location?"
	case SlotAppName:
		return "Which app should I open?"
	}
	return fmt.Sprintf("What should I use for %s?", slot)
}

func completeIntent(session *Session, active *ActiveIntent) Result {
	session.Active = nil

	switch active.IntentType {
	case intents.KindTimer:
		seconds, _ := strconv.Atoi(active.Filled[SlotDuration])
		return Result{
			Response: "Timer set for " + formatDuration(seconds),
			Intent:   intents.Timer{DurationSeconds: seconds, Label: active.Filled[SlotLabel]},
		}
	case intents.KindWeather:
		location := active.Filled[SlotLocation]
		spoken := location
		if spoken == "" {
			spoken = "your location"
		}
		return Result{
			Response: "Checking the weather for " + spoken,
			Intent:   intents.Weather{Location: location},
		}
	case intents.KindAppLaunch:
		appName := active.Filled[SlotAppName]
		return Result{
			Response: "Opening " + appName,
			Intent:   intents.AppLaunch{AppName: appName},
		}
	}

	return Result{
		Response: "I didn't understand that. Can you try again?",
		Intent:   intents.Unknown{},
	}
}

func formatDuration(seconds int) string {
	switch {
	case seconds >= 3600 && seconds%3600 == 0:
		return plural(seconds/3600, "hour")
	case seconds >= 60 && seconds%60 == 0:
		return plural(seconds/60, "minute")
	default:
		return plural(seconds, "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
