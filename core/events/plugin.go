package events

const (
	// KindPluginStateChanged identifies a state change reported by a plugin.
	KindPluginStateChanged Kind = "plugin.state_changed"
	// KindPluginCustom identifies a custom structured event from a plugin.
	KindPluginCustom Kind = "plugin.custom"
)

// PluginStateChanged carries a key/value state change a plugin reported as
// part of its execution result.
type PluginStateChanged struct {
	Base
	Plugin string
	Key    string
	Value  any
}

// NewPluginStateChanged creates a plugin state change event.
func NewPluginStateChanged(plugin, key string, value any) PluginStateChanged {
	return PluginStateChanged{Base: NewBase(KindPluginStateChanged), Plugin: plugin, Key: key, Value: value}
}

// PluginCustom carries an arbitrary structured event a plugin reported as
// part of its execution result, passed through without interpretation.
type PluginCustom struct {
	Base
	Plugin    string
	EventType string
	Data      map[string]any
}

// NewPluginCustom creates a plugin custom event.
func NewPluginCustom(plugin, eventType string, data map[string]any) PluginCustom {
	return PluginCustom{Base: NewBase(KindPluginCustom), Plugin: plugin, EventType: eventType, Data: data}
}
