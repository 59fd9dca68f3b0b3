package intents

import (
	"encoding/json"
	"fmt"
)

// MarshalIntent serializes an intent as a JSON object carrying its variant
// under a "type" field alongside the variant's own fields.
func MarshalIntent(i Intent) ([]byte, error) {
	if i == nil {
		return nil, fmt.Errorf("cannot marshal nil intent")
	}

	payload, err := json.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intent payload: %w", err)
	}

	fields := map[string]any{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("failed to flatten intent payload: %w", err)
	}
	fields["type"] = i.IntentKind()

	return json.Marshal(fields)
}
