package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL         = "https://api.groq.com/openai/v1"
	DefaultTranscribeModel = "whisper-large-v3-turbo"
	DefaultChatModel       = "llama-3.3-70b-versatile"
	DefaultPath            = "config.yaml"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port"`
		MaxUploadMB int    `yaml:"max_upload_mb"`
	} `yaml:"server"`

	Groq struct {
		APIKey          string `yaml:"api_key"`
		BaseURL         string `yaml:"base_url"`
		TranscribeModel string `yaml:"transcribe_model"`
		ChatModel       string `yaml:"chat_model"`
		TimeoutSec      int    `yaml:"timeout_sec"`
	} `yaml:"groq"`

	Recorder struct {
		Seconds    int    `yaml:"seconds"`
		MaxSeconds int    `yaml:"max_seconds"`
		SampleRate int    `yaml:"sample_rate"`
		Command    string `yaml:"command"`
		TempDir    string `yaml:"temp_dir"`
	} `yaml:"recorder"`

	Pipeline struct {
		PassThroughErrors bool `yaml:"pass_through_errors"`
	} `yaml:"pipeline"`
}

func Default() Config {
	var c Config
	c.Server.Port = "8080"
	c.Groq.BaseURL = DefaultBaseURL
	c.Groq.TranscribeModel = DefaultTranscribeModel
	c.Groq.ChatModel = DefaultChatModel
	c.Recorder.Seconds = 5
	c.Recorder.MaxSeconds = 60
	c.Recorder.SampleRate = 16000
	c.Recorder.Command = "arecord"
	return c
}

// Load reads the optional YAML file at path, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Groq.APIKey, "GROQ_API_KEY")
	setString(&c.Groq.BaseURL, "GROQ_BASE_URL")
	setString(&c.Groq.TranscribeModel, "TRANSCRIBE_MODEL")
	setString(&c.Groq.ChatModel, "CHAT_MODEL")
	setString(&c.Server.Port, "PORT")
	setString(&c.Recorder.Command, "RECORD_COMMAND")
	setString(&c.Recorder.TempDir, "TEMP_DIR")

	for key, dst := range map[string]*int{
		"RECORD_SECONDS":     &c.Recorder.Seconds,
		"RECORD_MAX_SECONDS": &c.Recorder.MaxSeconds,
		"RECORD_SAMPLE_RATE": &c.Recorder.SampleRate,
		"HTTP_TIMEOUT_SEC":   &c.Groq.TimeoutSec,
		"MAX_UPLOAD_MB":      &c.Server.MaxUploadMB,
	} {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v := strings.TrimSpace(os.Getenv("PASS_THROUGH_ERRORS")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PASS_THROUGH_ERRORS: %w", err)
		}
		c.Pipeline.PassThroughErrors = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Timeout is zero (no timeout) unless timeout_sec is set.
func (c Config) Timeout() time.Duration {
	if c.Groq.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.Groq.TimeoutSec) * time.Second
}

func (c Config) RecordDuration() time.Duration {
	return time.Duration(c.Recorder.Seconds) * time.Second
}

// MaxRecordDuration bounds the per-request duration of /record.
func (c Config) MaxRecordDuration() time.Duration {
	return time.Duration(c.Recorder.MaxSeconds) * time.Second
}

func (c Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) * 1024 * 1024
}

// Warnings lists settings that will make remote calls fail. The credential
// is not required at load time; the first call reports the failure.
func (c Config) Warnings() []string {
	var out []string
	if c.Groq.APIKey == "" {
		out = append(out, "GROQ_API_KEY is not set; remote calls will be rejected")
	}
	if c.Recorder.Seconds <= 0 {
		out = append(out, "recorder.seconds is not positive; recordings will be empty")
	}
	return out
}
