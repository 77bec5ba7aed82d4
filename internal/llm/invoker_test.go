package llm

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubProvider struct {
	text string
	err  error
	last ChatRequest
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-1" }
func (s *stubProvider) IsAvailable(context.Context) bool {
	return s.err == nil
}
func (s *stubProvider) Complete(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &ChatResponse{Text: s.text, Model: "stub-1"}, nil
}

func TestInvoker_Invoke(t *testing.T) {
	stub := &stubProvider{text: `{"ok": true}`}
	inv := NewInvoker(stub, nil)

	text, ok := inv.Invoke(context.Background(), "system", "user")
	if !ok || text != `{"ok": true}` {
		t.Fatalf("Invoke = (%q, %v)", text, ok)
	}
	if stub.last.System != "system" || stub.last.User != "user" {
		t.Errorf("Unexpected request: %+v", stub.last)
	}
	if stub.last.Temperature != ConfigTemperature {
		t.Errorf("Expected config temperature, got %v", stub.last.Temperature)
	}
	if inv.Model() != "stub/stub-1" {
		t.Errorf("Unexpected model name %q", inv.Model())
	}
}

func TestInvoker_FailureIsNoOutput(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	inv := NewInvoker(&stubProvider{err: errors.New("connection refused")}, zap.New(core))

	text, ok := inv.Invoke(context.Background(), "s", "u")
	if ok || text != "" {
		t.Fatalf("Expected no output, got (%q, %v)", text, ok)
	}
	if logs.FilterMessage("model call failed").Len() != 1 {
		t.Errorf("Expected one failure log, got %d", logs.Len())
	}
}

func TestInvoker_EmptyTextIsNoOutput(t *testing.T) {
	inv := NewInvoker(&stubProvider{text: ""}, nil)
	if _, ok := inv.Invoke(context.Background(), "s", "u"); ok {
		t.Fatal("Expected empty output to be reported as no output")
	}
}

func TestInvoker_NilProvider(t *testing.T) {
	inv := NewInvoker(nil, nil)
	if _, ok := inv.Invoke(context.Background(), "s", "u"); ok {
		t.Fatal("Expected nil provider to yield no output")
	}
	if inv.Model() != "" {
		t.Errorf("Expected empty model name, got %q", inv.Model())
	}

	var nilInvoker *Invoker
	if _, ok := nilInvoker.Invoke(context.Background(), "s", "u"); ok {
		t.Fatal("Expected nil invoker to yield no output")
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  bool
	}{
		{"disabled", Config{Provider: ""}, "", false},
		{"none", Config{Provider: "none"}, "", false},
		{"ollama needs no key", Config{Provider: "ollama"}, "ollama", false},
		{"openai", Config{Provider: "OpenAI", APIKey: "k"}, "openai", false},
		{"claude alias", Config{Provider: "claude", APIKey: "k"}, "anthropic", false},
		{"openai without key", Config{Provider: "openai"}, "", true},
		{"gemini without key", Config{Provider: "gemini"}, "", true},
		{"unknown", Config{Provider: "watson"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.config, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantName == "" {
				if p != nil {
					t.Errorf("Expected nil provider, got %s", p.Name())
				}
				return
			}
			if p == nil || p.Name() != tt.wantName {
				t.Errorf("Expected provider %s, got %v", tt.wantName, p)
			}
		})
	}
}
