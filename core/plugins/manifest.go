package plugins

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/fridayvoice/friday-core/core/events"
)

// Manifest declares a plugin's identity, the permissions it needs and the
// intent patterns it can satisfy. A manifest is validated once at load time
// and immutable thereafter.
type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Description  string       `json:"description,omitempty"`
	Author       string       `json:"author,omitempty"`
	EntryPoint   string       `json:"entryPoint,omitempty"`
	Permissions  []Permission `json:"permissions,omitempty"`
	Dependencies []string     `json:"dependencies,omitempty"`

	// IntentPatterns are evaluated in declaration order; the first matching
	// pattern claims the utterance.
	IntentPatterns []IntentPattern `json:"intentPatterns"`

	// ConfigSchema optionally describes the shape of the plugin's
	// configuration map.
	ConfigSchema *jsonschema.Schema `json:"configSchema,omitempty"`
}

// PermissionKind names a capability a plugin may request.
type PermissionKind string

const (
	PermissionFileSystem     PermissionKind = "filesystem"
	PermissionNetwork        PermissionKind = "network"
	PermissionSystemCommands PermissionKind = "system_commands"
	PermissionAudioAccess    PermissionKind = "audio_access"
	PermissionConfigAccess   PermissionKind = "config_access"
	PermissionAll            PermissionKind = "all"
)

// Permission is a requested capability plus its scope (paths, domains or
// commands, depending on the kind).
type Permission struct {
	Kind   PermissionKind `json:"kind"`
	Scopes []string       `json:"scopes,omitempty"`
}

// IntentPattern maps one named plugin intent to the utterance patterns that
// trigger it.
type IntentPattern struct {
	Name       string         `json:"name"`
	Patterns   []string       `json:"patterns"`
	Confidence float64        `json:"confidence"`
	Parameters []ParameterDef `json:"parameters,omitempty"`
}

// ParameterDef describes one parameter the pattern's extractor should try to
// pull out of the utterance.
type ParameterDef struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "string", "number", "boolean", "array"
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// Context is handed to a plugin at initialization time.
type Context struct {
	PluginName  string
	Config      map[string]any
	Permissions []Permission
	DataDir     string
}

// Result is what a plugin execution hands back to the runtime.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`

	// Events are relayed by the runtime after execution: logs go to the
	// process log, the rest onto the event bus.
	Events []Event `json:"events,omitempty"`
}

// Event is a side effect a plugin wants relayed.
type Event interface {
	pluginEvent()
}

// LogEvent asks for a line in the process log.
type LogEvent struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NotificationEvent asks for a user-visible notification.
type NotificationEvent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// StateChangeEvent publishes a change to a piece of plugin-owned state.
type StateChangeEvent struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// CustomEvent passes an arbitrary structured event through to consumers.
type CustomEvent struct {
	EventType string         `json:"eventType"`
	Data      map[string]any `json:"data,omitempty"`
}

func (LogEvent) pluginEvent()          {}
func (NotificationEvent) pluginEvent() {}
func (StateChangeEvent) pluginEvent()  {}
func (CustomEvent) pluginEvent()       {}

// EventSink receives the orchestration events a plugin emits while it runs.
// *bus.Producer satisfies it.
type EventSink interface {
	Emit(events.Event)
}

// Plugin is the contract a capability implementation fulfills.
type Plugin interface {
	// Manifest returns the plugin's immutable manifest.
	Manifest() Manifest

	// Initialize is called once when the plugin is loaded.
	Initialize(ctx context.Context, pluginCtx Context) error

	// Execute runs the named intent with the extracted parameters. Events
	// emitted through the sink appear on the bus immediately; events
	// returned in the Result are relayed after execution.
	Execute(ctx context.Context, intent string, parameters map[string]any, sink EventSink) (Result, error)

	// Cleanup is called when the plugin is unloaded.
	Cleanup(ctx context.Context) error

	// ValidateConfig vets a configuration map before it is applied.
	ValidateConfig(config map[string]any) error
}
