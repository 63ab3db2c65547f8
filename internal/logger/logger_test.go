package logger

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"WARN":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"":      logrus.InfoLevel,
		"loud":  logrus.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestFieldsAndJSON(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "info")
	var buf bytes.Buffer
	l := NewWithOutput(&buf)

	r := httptest.NewRequest("POST", "/upload", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	l.WithRequest(r).Info("hello")

	out := buf.String()
	for _, want := range []string{`"req_id":"abc-123"`, `"path":"/upload"`, `"msg":"hello"`, `"service":"voice-sentiment-go"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %q missing %q", out, want)
		}
	}
}

func TestRequestIDGenerated(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if id := RequestID(r); len(id) != 36 {
		t.Fatalf("expected uuid, got %q", id)
	}
}
