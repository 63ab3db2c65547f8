package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"voice-sentiment-go/internal/logger"
	"voice-sentiment-go/internal/types"
)

// Recorder captures a clip from a local input device.
type Recorder interface {
	Record(ctx context.Context, d time.Duration) (types.AudioPayload, error)
}

// Runner executes a capture command; it is exec.CommandContext(...).CombinedOutput by default.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// CommandRecorder records mono 16-bit WAV through an ALSA-style CLI
// (arecord by default) into a scoped temp file.
type CommandRecorder struct {
	Command    string
	SampleRate int
	TempDir    string
	run        Runner
	log        *logrus.Entry
	mu         sync.Mutex // the input device is exclusive
}

func NewCommandRecorder(command string, sampleRate int, tempDir string, log *logger.Logger) *CommandRecorder {
	if log == nil {
		log = logger.New()
	}
	if command == "" {
		command = "arecord"
	}
	if sampleRate <= 0 {
		sampleRate = types.DefaultSampleRate
	}
	return &CommandRecorder{
		Command:    command,
		SampleRate: sampleRate,
		TempDir:    tempDir,
		run:        execRunner,
		log:        log.Component("recorder"),
	}
}

// WithRunner swaps the command runner.
func (r *CommandRecorder) WithRunner(run Runner) *CommandRecorder {
	r.run = run
	return r
}

func (r *CommandRecorder) args(path string, d time.Duration) []string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return []string{
		"-q",
		"-f", "S16_LE",
		"-c", strconv.Itoa(types.DefaultChannels),
		"-r", strconv.Itoa(r.SampleRate),
		"-d", strconv.Itoa(secs),
		"-t", types.FormatWAV,
		path,
	}
}

// Record blocks for d and returns the captured clip. Any device failure is
// returned as-is; callers treat it as fatal for the invocation.
func (r *CommandRecorder) Record(ctx context.Context, d time.Duration) (types.AudioPayload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, cleanup, err := TempFile(r.TempDir)
	if err != nil {
		return types.AudioPayload{}, err
	}
	defer cleanup()

	log := r.log.WithFields(logrus.Fields{
		"command":     r.Command,
		"seconds":     d.Seconds(),
		"sample_rate": r.SampleRate,
	})
	log.Info("recording audio")
	if out, err := r.run(ctx, r.Command, r.args(path, d)...); err != nil {
		log.WithField("output", string(out)).WithField("error", err.Error()).Error("recording failed")
		return types.AudioPayload{}, fmt.Errorf("record with %s: %w", r.Command, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.AudioPayload{}, fmt.Errorf("read recording: %w", err)
	}
	log.WithField("audio_bytes", len(data)).Info("recording complete")
	return types.AudioPayload{
		Data:       data,
		Filename:   fmt.Sprintf("recording-%s.wav", uuid.New().String()),
		Format:     types.FormatWAV,
		SampleRate: r.SampleRate,
		Channels:   types.DefaultChannels,
		Source:     types.SourceRecording,
	}, nil
}
