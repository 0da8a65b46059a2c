package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/pavelanni/eduimpact/internal/model"
)

const testKey = "gsk_abcdefghijklmnopqrstuvwxyz0123"

func readKey(t *testing.T, path string) string {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}
	return v.GetString("llm-key")
}

func TestSetupKeyWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eduimpact.yaml")
	in := strings.NewReader("\nshort\n" + testKey + "\nn\n" + testKey + "\ny\n")
	var out bytes.Buffer

	if err := setupKey(in, &out, path); err != nil {
		t.Fatalf("setupKey: %v", err)
	}
	if got := readKey(t, path); got != testKey {
		t.Errorf("llm-key = %q, want %q", got, testKey)
	}

	log := out.String()
	for _, want := range []string{"Please enter a valid API key.", "seems too short", "Let's try again...", "API key saved"} {
		if !strings.Contains(log, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(log, testKey) {
		t.Error("full key should not be echoed")
	}
}

func TestSetupKeyKeepsOtherSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eduimpact.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9090\"\nllm-key: your_groq_api_key_here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := setupKey(strings.NewReader(testKey+"\ny\n"), &bytes.Buffer{}, path); err != nil {
		t.Fatalf("setupKey: %v", err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	if v.GetString("addr") != ":9090" || v.GetString("llm-key") != testKey {
		t.Errorf("unexpected config: addr=%q key=%q", v.GetString("addr"), v.GetString("llm-key"))
	}
}

func TestSetupKeyDeclineUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eduimpact.yaml")
	if err := os.WriteFile(path, []byte("llm-key: "+testKey+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := setupKey(strings.NewReader("N\n"), &out, path); err != nil {
		t.Fatalf("setupKey: %v", err)
	}
	if !strings.Contains(out.String(), "Setup cancelled.") {
		t.Errorf("expected cancellation, got %q", out.String())
	}
	if got := readKey(t, path); got != testKey {
		t.Errorf("key changed to %q", got)
	}
}

func TestSetupKeyEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eduimpact.yaml")
	if err := setupKey(strings.NewReader("short\n"), &bytes.Buffer{}, path); err == nil {
		t.Error("expected error when input ends before a key is confirmed")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("config should not be written")
	}
}

func TestAppConfig(t *testing.T) {
	v := viper.New()
	v.Set("model", "m.json")
	v.Set("chat-mode", " STRICT ")
	v.Set("fallback", "bogus")
	v.Set("max-attempts", 3)

	cfg := appConfig(v)
	if cfg.ChatMode != model.ChatStrict {
		t.Errorf("ChatMode = %q, want strict", cfg.ChatMode)
	}
	if cfg.FallbackPolicy != model.FallbackRules {
		t.Errorf("FallbackPolicy = %q, want rules", cfg.FallbackPolicy)
	}
	if cfg.ModelPath != "m.json" || cfg.MaxAttempts != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}

	v.Set("chat-mode", "")
	if got := appConfig(v).ChatMode; got != model.ChatLenient {
		t.Errorf("empty chat-mode = %q, want lenient", got)
	}
}
