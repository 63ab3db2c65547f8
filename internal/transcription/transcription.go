package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"voice-sentiment-go/internal/logger"
	"voice-sentiment-go/internal/types"
)

// ErrNoText is returned when the endpoint answers 200 without a text field.
var ErrNoText = errors.New("Transcription failed")

// APIError carries a non-200 reply verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "Error during transcription: " + e.Body
}

type Client struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	log        *logrus.Entry
}

// New builds a client. timeout 0 means the request may block indefinitely.
func New(apiKey, baseURL, model string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.New()
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Model:      model,
		HTTPClient: &http.Client{Timeout: timeout},
		log:        log.Component("transcription"),
	}
}

// response keeps text raw so an absent field and an explicit null differ.
type response struct {
	Text json.RawMessage `json:"text"`
}

// Transcribe sends one payload to /audio/transcriptions and returns the text.
func (c *Client) Transcribe(ctx context.Context, p types.AudioPayload) (string, error) {
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/audio/transcriptions"
	body, contentType, err := buildForm(c.Model, p)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", contentType)

	log := c.log.WithFields(logrus.Fields{
		"model":       c.Model,
		"filename":    p.Filename,
		"audio_bytes": p.Size(),
	})
	start := time.Now()
	log.Info("sending audio for transcription")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("transcription request failed")
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}
	log = log.WithFields(logrus.Fields{
		"http_status": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	log.Debug("transcription raw: " + string(raw))

	if resp.StatusCode != http.StatusOK {
		log.Warn("transcription endpoint returned error")
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	if out.Text == nil {
		log.Warn("transcription response has no text field")
		return "", ErrNoText
	}
	var text string
	if string(out.Text) != "null" {
		if err := json.Unmarshal(out.Text, &text); err != nil {
			return "", fmt.Errorf("decode transcription text: %w", err)
		}
	}
	log.WithField("chars", len(text)).Info("transcription done")
	return text, nil
}

func buildForm(model string, p types.AudioPayload) (*bytes.Buffer, string, error) {
	filename := p.Filename
	if filename == "" {
		filename = "audio." + types.FormatWAV
	}

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	if err := w.WriteField("model", model); err != nil {
		return nil, "", fmt.Errorf("write model field: %w", err)
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create file field: %w", err)
	}
	if _, err := part.Write(p.Data); err != nil {
		return nil, "", fmt.Errorf("write audio data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &b, w.FormDataContentType(), nil
}
