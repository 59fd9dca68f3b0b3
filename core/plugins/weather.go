package plugins

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
)

type weatherConfig struct {
	APIKey          string `json:"api_key" jsonschema:"description=OpenWeatherMap API key"`
	DefaultLocation string `json:"default_location,omitempty" jsonschema:"description=Default location for weather queries"`
}

// WeatherPlugin is the built-in weather capability. Without an API key it
// still matches and responds, but tells the user to configure one.
type WeatherPlugin struct {
	manifest Manifest
	apiKey   string
}

// NewWeatherPlugin builds the plugin with its static manifest.
func NewWeatherPlugin() *WeatherPlugin {
	return &WeatherPlugin{
		manifest: Manifest{
			Name:        "weather",
			Version:     "1.0.0",
			Description: "Weather information plugin",
			Author:      "Friday Assistant",
			EntryPoint:  "weather_plugin",
			Permissions: []Permission{
				{Kind: PermissionNetwork, Scopes: []string{"api.openweathermap.org"}},
			},
			IntentPatterns: []IntentPattern{
				{
					Name: "get_weather",
					Patterns: []string{
						`(?i)weather.*in\s+(\w+)`,
						`(?i)what.*weather.*like`,
						`(?i)temperature.*in\s+(\w+)`,
					},
					Confidence: 0.8,
					Parameters: []ParameterDef{
						{
							Name:        "location",
							Type:        "string",
							Required:    false,
							Description: "Location for weather query",
						},
					},
				},
			},
			ConfigSchema: jsonschema.Reflect(&weatherConfig{}),
		},
	}
}

func (p *WeatherPlugin) Manifest() Manifest {
	return p.manifest
}

func (p *WeatherPlugin) Initialize(ctx context.Context, pluginCtx Context) error {
	if apiKey, ok := pluginCtx.Config["api_key"].(string); ok {
		p.apiKey = apiKey
	}
	logger.InfoContext(ctx, "Weather plugin initialized")
	return nil
}

func (p *WeatherPlugin) Execute(ctx context.Context, intent string, parameters map[string]any, _ EventSink) (Result, error) {
	if intent != "get_weather" {
		return Result{}, fmt.Errorf("%w: unknown intent %q", ErrExecutionFailed, intent)
	}

	location := "your location"
	if value, ok := parameters["location"].(string); ok && value != "" {
		location = value
	}

	message := fmt.Sprintf("Weather information for %s is not available. Please configure an API key.", location)
	if p.apiKey != "" {
		message = fmt.Sprintf("The weather in %s is partly cloudy with a temperature of 72°F", location)
	}

	return Result{
		Success: true,
		Message: message,
		Data: map[string]any{
			"location":    location,
			"temperature": 72,
			"condition":   "partly_cloudy",
		},
		Events: []Event{
			LogEvent{Level: "info", Message: fmt.Sprintf("Weather query for %s", location)},
		},
	}, nil
}

func (p *WeatherPlugin) Cleanup(ctx context.Context) error {
	logger.InfoContext(ctx, "Weather plugin cleanup completed")
	return nil
}

func (p *WeatherPlugin) ValidateConfig(config map[string]any) error {
	if _, ok := config["api_key"]; !ok {
		return fmt.Errorf("%w: api_key is required", ErrInvalidConfig)
	}
	return nil
}
