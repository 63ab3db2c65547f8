package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"voice-sentiment-go/internal/types"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format: only .wav is accepted")
	ErrTooLarge          = errors.New("audio file too large")
)

// ValidateExtension is the only check applied to uploads.
func ValidateExtension(filename string) error {
	if strings.ToLower(filepath.Ext(filename)) != "."+types.FormatWAV {
		return ErrUnsupportedFormat
	}
	return nil
}

// FromUpload reads an uploaded file into a payload. maxBytes <= 0 disables
// the size limit.
func FromUpload(filename string, r io.Reader, maxBytes int64) (types.AudioPayload, error) {
	if err := ValidateExtension(filename); err != nil {
		return types.AudioPayload{}, err
	}
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return types.AudioPayload{}, fmt.Errorf("read upload: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return types.AudioPayload{}, ErrTooLarge
	}
	return types.AudioPayload{
		Data:     data,
		Filename: filepath.Base(filename),
		Format:   types.FormatWAV,
		Source:   types.SourceUpload,
	}, nil
}

// FromFile loads a WAV file from disk.
func FromFile(path string) (types.AudioPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.AudioPayload{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()
	p, err := FromUpload(path, f, 0)
	if err != nil {
		return p, err
	}
	p.Source = types.SourceFile
	return p, nil
}

// TempFile creates an empty scoped .wav file in dir ("" = os.TempDir) and
// returns its path with a cleanup func.
func TempFile(dir string) (string, func(), error) {
	f, err := os.CreateTemp(dir, "clip-*.wav")
	if err != nil {
		return "", func() {}, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", func() {}, fmt.Errorf("close temp file: %w", err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}
