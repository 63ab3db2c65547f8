package extractor

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"voice-sentiment-go/internal/logger"
	"voice-sentiment-go/internal/types"
)

var errEmptyCompletion = errors.New("empty completion")

// StageError is a failed chat completion for one stage.
type StageError struct {
	Stage  types.StageName
	prefix string
	Err    error
}

func (e *StageError) Error() string { return e.prefix + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// Analyzer runs the summarization and sentiment stages against one chat model.
type Analyzer struct {
	chat  ChatCompleter
	model string
	log   *logrus.Entry
}

func New(chat ChatCompleter, model string, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.New()
	}
	return &Analyzer{chat: chat, model: model, log: log.Component("extractor")}
}

// Summarize returns a short free-text analysis of text.
func (a *Analyzer) Summarize(ctx context.Context, text string) (string, error) {
	return a.complete(ctx, summaryPrompt, text)
}

// Sentiment returns the model's label verbatim. The answer is not checked
// against Positive/Negative/Neutral.
func (a *Analyzer) Sentiment(ctx context.Context, text string) (types.Label, error) {
	out, err := a.complete(ctx, sentimentPrompt, text)
	return types.Label(out), err
}

func (a *Analyzer) complete(ctx context.Context, p prompt, text string) (string, error) {
	log := a.log.WithFields(logrus.Fields{
		"stage":      p.stage,
		"model":      a.model,
		"input_len":  len(text),
		"max_tokens": p.maxTokens,
	})
	start := time.Now()
	log.Info("chat completion started")

	resp, err := a.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.system},
			{Role: openai.ChatMessageRoleUser, Content: p.userPrefix + text},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	log = log.WithField("duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		log.WithField("error", err.Error()).Warn("chat completion failed")
		return "", &StageError{Stage: p.stage, prefix: p.failPrefix, Err: err}
	}
	if len(resp.Choices) == 0 {
		log.Warn("chat completion returned no choices")
		return "", &StageError{Stage: p.stage, prefix: p.failPrefix, Err: errEmptyCompletion}
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.WithField("output_len", len(out)).Info("chat completion done")
	return out, nil
}
