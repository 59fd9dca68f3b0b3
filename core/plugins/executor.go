package plugins

import (
	"context"

	"github.com/fridayvoice/friday-core/core/bus"
	"github.com/fridayvoice/friday-core/core/intents"
)

// FallbackExecutor is the non-plugin execution path used when no plugin
// claims an utterance or a plugin fails.
type FallbackExecutor interface {
	Execute(ctx context.Context, intent intents.Intent, sink *bus.Producer) (string, error)
}

// Executor routes unknown utterances through the plugin runtime and
// everything else, including plugin failures, to the fallback executor.
type Executor struct {
	runtime  *Runtime
	fallback FallbackExecutor
}

// NewExecutor wraps a runtime and its fallback.
func NewExecutor(runtime *Runtime, fallback FallbackExecutor) *Executor {
	return &Executor{runtime: runtime, fallback: fallback}
}

// LoadBuiltins registers the plugins that ship with the runtime.
func (e *Executor) LoadBuiltins(ctx context.Context) error {
	return e.runtime.LoadPlugin(ctx, NewWeatherPlugin())
}

// Runtime exposes the underlying plugin runtime for configuration.
func (e *Executor) Runtime() *Runtime {
	return e.runtime
}

// Execute implements the pipeline executor contract. Typed intents go
// straight to the fallback; only Unknown utterances are offered to plugins,
// since their raw text is what plugin patterns match against.
func (e *Executor) Execute(ctx context.Context, intent intents.Intent, sink *bus.Producer) (string, error) {
	unknown, ok := intent.(intents.Unknown)
	if !ok {
		return e.fallback.Execute(ctx, intent, sink)
	}

	if response, handled := e.tryPluginExecution(ctx, unknown.Text, sink); handled {
		return response, nil
	}

	logger.DebugContext(ctx, "No plugin claimed utterance, using fallback")
	return e.fallback.Execute(ctx, intent, sink)
}

// tryPluginExecution reports whether a plugin handled the utterance. Plugin
// errors and unsuccessful results are swallowed here so the fallback gets its
// turn; only fallback errors abort the turn.
func (e *Executor) tryPluginExecution(ctx context.Context, text string, sink *bus.Producer) (string, bool) {
	match, ok := e.runtime.FindPluginForIntent(text)
	if !ok {
		return "", false
	}

	logger.InfoContext(ctx, "Found plugin for utterance",
		"plugin", match.PluginName, "intent", match.IntentName)

	result, err := e.runtime.Execute(ctx, match.PluginName, match.IntentName, match.Parameters, sink)
	if err != nil {
		logger.WarnContext(ctx, "Plugin execution error", "plugin", match.PluginName, "error", err)
		return "", false
	}
	if !result.Success {
		logger.WarnContext(ctx, "Plugin execution failed", "plugin", match.PluginName, "message", result.Message)
		return "", false
	}

	return result.Message, true
}
