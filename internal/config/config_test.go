package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Groq.BaseURL != DefaultBaseURL {
		t.Fatalf("unexpected base url %q", cfg.Groq.BaseURL)
	}
	if cfg.Groq.TranscribeModel != "whisper-large-v3-turbo" || cfg.Groq.ChatModel != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected models %q %q", cfg.Groq.TranscribeModel, cfg.Groq.ChatModel)
	}
	if cfg.RecordDuration() != 5*time.Second || cfg.MaxRecordDuration() != time.Minute || cfg.Recorder.SampleRate != 16000 {
		t.Fatalf("unexpected recorder defaults %+v", cfg.Recorder)
	}
	if cfg.Timeout() != 0 {
		t.Fatalf("expected no timeout by default, got %v", cfg.Timeout())
	}
	if len(cfg.Warnings()) != 1 {
		t.Fatalf("expected missing key warning, got %v", cfg.Warnings())
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: "9090"
groq:
  api_key: from-file
  chat_model: some-model
  timeout_sec: 30
recorder:
  seconds: 3
pipeline:
  pass_through_errors: true
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GROQ_API_KEY", "from-env")
	t.Setenv("RECORD_SECONDS", "7")
	t.Setenv("PASS_THROUGH_ERRORS", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Groq.APIKey != "from-env" {
		t.Fatalf("env should override file, got %q", cfg.Groq.APIKey)
	}
	if cfg.Groq.ChatModel != "some-model" || cfg.Server.Port != "9090" {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.Recorder.Seconds != 7 {
		t.Fatalf("expected 7 seconds, got %d", cfg.Recorder.Seconds)
	}
	if !cfg.Pipeline.PassThroughErrors {
		t.Fatal("expected pass-through from file")
	}
	if cfg.Timeout() != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Timeout())
	}
	if len(cfg.Warnings()) != 0 {
		t.Fatalf("unexpected warnings %v", cfg.Warnings())
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("RECORD_SECONDS", "five")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric RECORD_SECONDS")
	}
}
