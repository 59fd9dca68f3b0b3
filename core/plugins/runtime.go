// Package plugins loads capability manifests, matches utterances against the
// intent patterns plugins declare, and executes the matching plugin behind a
// permission check.
package plugins

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/fridayvoice/friday-core/core/events"
)

// Runtime keeps the loaded plugins and their configurations. It is driven by
// a single orchestrator flow and is not safe for concurrent mutation.
type Runtime struct {
	plugins map[string]Plugin
	configs map[string]map[string]any

	// order keeps registration order so intent dispatch is deterministic.
	order []string

	dataDir         string
	securityEnabled bool
}

// RuntimeOption configures a runtime at construction time.
type RuntimeOption func(*Runtime)

// WithDataDir overrides the root directory handed to plugins for their data.
func WithDataDir(dir string) RuntimeOption {
	return func(r *Runtime) { r.dataDir = dir }
}

// WithSecurity toggles the permission check on execution.
func WithSecurity(enabled bool) RuntimeOption {
	return func(r *Runtime) { r.securityEnabled = enabled }
}

// NewRuntime creates an empty runtime.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		plugins:         map[string]Plugin{},
		configs:         map[string]map[string]any{},
		dataDir:         "plugins",
		securityEnabled: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadPlugin validates the plugin's manifest, initializes the plugin and
// stores it keyed by name. Re-registering an existing name replaces the
// previous plugin but keeps its dispatch position.
func (r *Runtime) LoadPlugin(ctx context.Context, plugin Plugin) error {
	manifest := plugin.Manifest()
	logger.InfoContext(ctx, "Loading plugin",
		"plugin", manifest.Name, "version", manifest.Version)

	if err := validateManifest(manifest); err != nil {
		return err
	}

	if err := plugin.Initialize(ctx, Context{
		PluginName:  manifest.Name,
		Config:      r.configs[manifest.Name],
		Permissions: manifest.Permissions,
		DataDir:     filepath.Join(r.dataDir, "data", manifest.Name),
	}); err != nil {
		return fmt.Errorf("failed to initialize plugin %q: %w", manifest.Name, err)
	}

	if _, replacing := r.plugins[manifest.Name]; !replacing {
		r.order = append(r.order, manifest.Name)
	}
	r.plugins[manifest.Name] = plugin
	return nil
}

func validateManifest(manifest Manifest) error {
	if manifest.Name == "" {
		return fmt.Errorf("%w: plugin name cannot be empty", ErrInvalidConfig)
	}
	if manifest.Version == "" {
		return fmt.Errorf("%w: plugin version cannot be empty", ErrInvalidConfig)
	}
	for _, pattern := range manifest.IntentPatterns {
		if len(pattern.Patterns) == 0 {
			return fmt.Errorf("%w: intent pattern %q has no patterns", ErrInvalidConfig, pattern.Name)
		}
	}
	return nil
}

// Match identifies the plugin intent an utterance resolved to.
type Match struct {
	PluginName string
	IntentName string
	Parameters map[string]any
}

// FindPluginForIntent walks the loaded plugins in registration order and
// returns the first plugin whose first matching pattern fires, or false if
// nothing claims the utterance. Given a fixed plugin set the result is the
// same on every call.
func (r *Runtime) FindPluginForIntent(text string) (Match, bool) {
	for _, name := range r.order {
		manifest := r.plugins[name].Manifest()
		for _, pattern := range manifest.IntentPatterns {
			if !matchesPattern(text, pattern) {
				continue
			}
			return Match{
				PluginName: name,
				IntentName: pattern.Name,
				Parameters: extractParameters(text, pattern),
			}, true
		}
	}
	return Match{}, false
}

// Execute runs the named intent on the named plugin, then relays the events
// the plugin's result carries: logs to the process log, notifications and
// structured events onto the bus.
func (r *Runtime) Execute(ctx context.Context, pluginName, intent string, parameters map[string]any, sink EventSink) (Result, error) {
	ctx, span := tracer.Start(ctx, "execute plugin")
	defer span.End()

	plugin, ok := r.plugins[pluginName]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, pluginName)
	}

	if r.securityEnabled {
		if err := r.checkPermissions(ctx, pluginName, intent); err != nil {
			return Result{}, err
		}
	}

	result, err := plugin.Execute(ctx, intent, parameters, sink)
	if err != nil {
		return Result{}, fmt.Errorf("%w: plugin %q: %v", ErrExecutionFailed, pluginName, err)
	}

	r.relayEvents(ctx, pluginName, result.Events, sink)
	logger.DebugContext(ctx, "Plugin execution completed",
		"plugin", pluginName, "success", result.Success)
	return result, nil
}

// checkPermissions is a placeholder: every loaded plugin currently passes.
func (r *Runtime) checkPermissions(ctx context.Context, pluginName, intent string) error {
	logger.DebugContext(ctx, "Permission check passed",
		"plugin", pluginName, "intent", intent)
	return nil
}

func (r *Runtime) relayEvents(ctx context.Context, pluginName string, pluginEvents []Event, sink EventSink) {
	for _, event := range pluginEvents {
		switch typedEvent := event.(type) {
		case LogEvent:
			switch typedEvent.Level {
			case "warn", "error":
				logger.WarnContext(ctx, typedEvent.Message, "plugin", pluginName)
			case "info":
				logger.InfoContext(ctx, typedEvent.Message, "plugin", pluginName)
			default:
				logger.DebugContext(ctx, typedEvent.Message, "plugin", pluginName)
			}
		case NotificationEvent:
			message := typedEvent.Body
			if typedEvent.Title != "" {
				message = typedEvent.Title + ": " + typedEvent.Body
			}
			sink.Emit(events.NewNotification(message))
		case StateChangeEvent:
			sink.Emit(events.NewPluginStateChanged(pluginName, typedEvent.Key, typedEvent.Value))
		case CustomEvent:
			sink.Emit(events.NewPluginCustom(pluginName, typedEvent.EventType, typedEvent.Data))
		}
	}
}

// ListPlugins returns every loaded manifest in registration order.
func (r *Runtime) ListPlugins() []Manifest {
	manifests := make([]Manifest, 0, len(r.order))
	for _, name := range r.order {
		manifests = append(manifests, r.plugins[name].Manifest())
	}
	return manifests
}

// UnloadPlugin removes a plugin and runs its cleanup. Unloading a name that
// was never loaded is a no-op.
func (r *Runtime) UnloadPlugin(ctx context.Context, pluginName string) error {
	plugin, ok := r.plugins[pluginName]
	if !ok {
		return nil
	}

	delete(r.plugins, pluginName)
	r.order = slices.DeleteFunc(r.order, func(name string) bool { return name == pluginName })

	if err := plugin.Cleanup(ctx); err != nil {
		return fmt.Errorf("failed to clean up plugin %q: %w", pluginName, err)
	}
	logger.InfoContext(ctx, "Plugin unloaded", "plugin", pluginName)
	return nil
}

// SetConfig validates and stores a plugin's configuration. The plugin sees
// the new configuration on its next load.
func (r *Runtime) SetConfig(pluginName string, config map[string]any) error {
	plugin, ok := r.plugins[pluginName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, pluginName)
	}
	if err := plugin.ValidateConfig(config); err != nil {
		return err
	}
	r.configs[pluginName] = config
	return nil
}

func matchesPattern(text string, pattern IntentPattern) bool {
	textLower := strings.ToLower(text)
	for _, patternString := range pattern.Patterns {
		if regex, err := regexp.Compile(strings.ToLower(patternString)); err == nil {
			if regex.MatchString(textLower) {
				return true
			}
		} else if strings.Contains(textLower, strings.ToLower(patternString)) {
			// Not a valid pattern, fall back to substring matching.
			return true
		}
	}
	return false
}

func extractParameters(text string, pattern IntentPattern) map[string]any {
	parameters := map[string]any{}
	for _, param := range pattern.Parameters {
		switch param.Type {
		case "number":
			if number, ok := extractNumber(text); ok {
				parameters[param.Name] = number
			}
		case "string":
			if value, ok := extractString(text); ok {
				parameters[param.Name] = value
			}
		}
	}
	return parameters
}

func extractNumber(text string) (int64, bool) {
	for _, word := range strings.Fields(text) {
		if number, err := strconv.ParseInt(word, 10, 64); err == nil {
			return number, true
		}
	}
	return 0, false
}

// extractString grabs the word following a common preposition.
func extractString(text string) (string, bool) {
	prepositions := map[string]bool{
		"for": true, "to": true, "in": true, "at": true, "on": true, "with": true,
	}
	words := strings.Fields(text)
	for i, word := range words {
		if prepositions[strings.ToLower(word)] && i+1 < len(words) {
			return words[i+1], true
		}
	}
	return "", false
}
