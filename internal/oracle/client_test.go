package oracle

import (
	"errors"
	"testing"
)

// TestConfigValidate verifies required oracle configuration
func TestConfigValidate(t *testing.T) {
	cfg := Config{BaseURL: "http://localhost:8080/v1", Model: "gpt-4o"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	if err := (Config{Model: "gpt-4o"}).Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for missing base URL, got %v", err)
	}
	if err := (Config{BaseURL: "http://localhost:8080/v1"}).Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for missing model, got %v", err)
	}
}

// TestDecodeJSON verifies fence-tolerant response decoding
func TestDecodeJSON(t *testing.T) {
	type out struct {
		Name string `json:"name"`
	}

	cases := []struct {
		name string
		raw  string
	}{
		{"bare", `{"name": "Kitchen"}`},
		{"fenced", "```json\n{\"name\": \"Kitchen\"}\n```"},
		{"fenced no lang", "```\n{\"name\": \"Kitchen\"}\n```"},
		{"leading whitespace", "  \n{\"name\": \"Kitchen\"}\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var v out
			if err := decodeJSON(c.raw, &v); err != nil {
				t.Fatalf("decodeJSON failed: %v", err)
			}
			if v.Name != "Kitchen" {
				t.Errorf("Expected Kitchen, got %q", v.Name)
			}
		})
	}

	var v out
	if err := decodeJSON("I cannot produce JSON for that.", &v); err == nil {
		t.Error("Expected error for non-JSON response")
	}
}
