package llm

import (
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	cfg := Config{
		BaseURL:     "http://localhost:1234/v1",
		Model:       "gpt-4o-mini",
		APIKey:      "test-key",
		MaxTokens:   512,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}

	client := NewClient(cfg)
	if client == nil {
		t.Fatal("NewClient returned nil")
	}

	if client.client == nil {
		t.Error("Underlying openai client is nil")
	}
	if client.model != "gpt-4o-mini" {
		t.Errorf("model = %q, want %q", client.model, "gpt-4o-mini")
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key", Model: "gpt-4o-mini"})
	if client == nil {
		t.Fatal("NewClient returned nil")
	}
}
