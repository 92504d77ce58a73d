package models

import "testing"

func TestValidateModel(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		want     bool
	}{
		{"exact openai match", "openai", "gpt-4o", true},
		{"openai family prefix", "openai", "gpt-6-preview", true},
		{"anthropic family prefix", "anthropic", "claude-sonnet-9", true},
		{"case insensitive", "anthropic", "Claude-Sonnet-4-5", true},
		{"unknown model", "openai", "llama3", false},
		{"unknown provider", "acme", "gpt-4o", false},
		{"bedrock vendor prefix", "bedrock", "anthropic.claude-3-5-haiku-20241022-v1:0", true},
	}

	r := GetRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ValidateModel(tt.provider, tt.model); got != tt.want {
				t.Errorf("ValidateModel(%s, %s) = %v, want %v", tt.provider, tt.model, got, tt.want)
			}
		})
	}
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gpt-4o", "openai"},
		{"claude-3-5-haiku-latest", "anthropic"},
		{"gemini-2.5-flash", "google"},
		{"amazon.nova-lite-v1:0", "bedrock"},
		{"llama3.2", "ollama"},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p := DetectProvider(tt.model)
			if p == nil {
				t.Fatalf("DetectProvider(%s) = nil", tt.model)
			}
			if p.Name() != tt.want {
				t.Errorf("DetectProvider(%s) = %s, want %s", tt.model, p.Name(), tt.want)
			}
		})
	}

	if p := DetectProvider("totally-unknown-model"); p != nil {
		t.Errorf("DetectProvider(unknown) = %s, want nil", p.Name())
	}
	if ValidLLMKey("") {
		t.Error("empty llm_key must not validate")
	}
}

func TestProvidersCoverEveryBackend(t *testing.T) {
	want := []string{"openai", "anthropic", "google", "bedrock", "ollama"}
	got := Providers()
	if len(got) != len(want) {
		t.Fatalf("Providers() returned %d providers, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Name() != want[i] {
			t.Errorf("provider %d = %s, want %s", i, p.Name(), want[i])
		}
	}
}

func TestRegisterModels(t *testing.T) {
	r := NewRegistry()
	r.RegisterModels("acme", []string{"acme-large"})
	if !r.ValidateModel("acme", "acme-large") {
		t.Error("registered model should validate")
	}
	if got := r.GetModels("acme"); len(got) != 1 || got[0] != "acme-large" {
		t.Errorf("GetModels(acme) = %v", got)
	}
}
