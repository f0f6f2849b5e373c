package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseMetaFlags parses key=value pairs and a --data JSON object into a
// single mapping. JSON is parsed first, then key=value pairs overlay on
// top. Pair values that parse as JSON keep their parsed type; anything
// else stays a string.
func parseMetaFlags(kvPairs []string, rawJSON string) (map[string]any, error) {
	m := make(map[string]any)

	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &m); err != nil {
			return nil, fmt.Errorf("invalid --data: %w", err)
		}
	}

	for _, pair := range kvPairs {
		idx := strings.IndexByte(pair, '=')
		if idx <= 0 {
			return nil, fmt.Errorf("invalid pair %q, expected key=value", pair)
		}
		m[pair[:idx]] = parseMetaValue(pair[idx+1:])
	}

	return m, nil
}

func parseMetaValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}
