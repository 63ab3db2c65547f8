package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"voice-sentiment-go/internal/logger"
	"voice-sentiment-go/internal/types"
)

type Transcriber interface {
	Transcribe(ctx context.Context, p types.AudioPayload) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Classifier interface {
	Sentiment(ctx context.Context, text string) (types.Label, error)
}

// StageError records which stage stopped the run.
type StageError struct {
	Stage types.StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline runs transcription, summarization and sentiment one after another.
type Pipeline struct {
	Transcriber Transcriber
	Summarizer  Summarizer
	Classifier  Classifier

	// PassThroughErrors feeds a failed stage's error message to the next
	// stage as if it were real output. Off by default.
	PassThroughErrors bool

	log *logger.Logger
}

func New(t Transcriber, s Summarizer, c Classifier, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.New()
	}
	return &Pipeline{Transcriber: t, Summarizer: s, Classifier: c, log: log}
}

// Run blocks until every stage that should run has returned. Failures are
// reported on the Result, never as a panic.
func (p *Pipeline) Run(ctx context.Context, payload types.AudioPayload) (res Result) {
	base := p.log
	if base == nil {
		base = logger.New()
	}
	start := time.Now()
	res = Result{RunID: uuid.New().String(), Source: payload.Source, Filename: payload.Filename}
	log := base.Component("processor").WithFields(logrus.Fields{
		"run_id": res.RunID,
		"source": payload.Source,
	})
	defer func() {
		res.DurationMs = time.Since(start).Milliseconds()
		log.WithFields(logrus.Fields{
			"duration_ms": res.DurationMs,
			"failed":      res.Failed,
			"skipped":     res.Skipped,
		}).Info("pipeline finished")
	}()

	transcript, err := p.Transcriber.Transcribe(ctx, payload)
	if !p.advance(&res, types.StageTranscription, &transcript, err, log) {
		return res
	}
	res.Transcript = transcript
	res.Completed = append(res.Completed, types.StageTranscription)
	if transcript == "" {
		log.Info("empty transcript, skipping analysis")
		res.Skipped = true
		return res
	}

	analysis, err := p.Summarizer.Summarize(ctx, transcript)
	if !p.advance(&res, types.StageSummarization, &analysis, err, log) {
		return res
	}
	res.Analysis = analysis
	res.Completed = append(res.Completed, types.StageSummarization)

	label, err := p.Classifier.Sentiment(ctx, analysis)
	text := string(label)
	if !p.advance(&res, types.StageSentiment, &text, err, log) {
		return res
	}
	res.Sentiment = types.Label(text)
	res.Completed = append(res.Completed, types.StageSentiment)
	return res
}

// advance records err on res and reports whether the next stage may run.
// res.Err keeps the first failure; every failing stage lands in Failures.
// In pass-through mode the error message replaces out.
func (p *Pipeline) advance(res *Result, stage types.StageName, out *string, err error, log *logrus.Entry) bool {
	if err == nil {
		return true
	}
	log.WithField("stage", stage).WithField("error", err.Error()).Warn("stage failed")
	stageErr := &StageError{Stage: stage, Err: err}
	if res.Err == nil {
		res.Failed = stage
		res.Err = stageErr
	}
	if res.Failures == nil {
		res.Failures = map[types.StageName]*StageError{}
	}
	res.Failures[stage] = stageErr
	if p.PassThroughErrors {
		*out = err.Error()
		return true
	}
	return false
}
