package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"voice-sentiment-go/internal/logger"
	"voice-sentiment-go/internal/types"
)

type fakeChat struct {
	reqs    []openai.ChatCompletionRequest
	content string
	choices int
	err     error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	var resp openai.ChatCompletionResponse
	for i := 0; i < f.choices; i++ {
		resp.Choices = append(resp.Choices, openai.ChatCompletionChoice{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content},
		})
	}
	return resp, nil
}

func TestSummarizeRequestShape(t *testing.T) {
	chat := &fakeChat{content: "  The speaker is upbeat.\n", choices: 1}
	a := New(chat, "llama-3.3-70b-versatile", logger.Discard())

	got, err := a.Summarize(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "The speaker is upbeat." {
		t.Fatalf("expected trimmed content, got %q", got)
	}
	if len(chat.reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(chat.reqs))
	}
	req := chat.reqs[0]
	if req.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected model %q", req.Model)
	}
	if req.Temperature != 0.7 || req.MaxTokens != 150 {
		t.Fatalf("unexpected sampling params %v %d", req.Temperature, req.MaxTokens)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("unexpected messages %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[0].Content, "Provide a brief analysis") {
		t.Fatalf("unexpected system prompt %q", req.Messages[0].Content)
	}
	if req.Messages[1].Content != "Analyze this text: hello world" {
		t.Fatalf("unexpected user message %q", req.Messages[1].Content)
	}
}

func TestSummarizeFailureMessage(t *testing.T) {
	cause := errors.New("connection refused")
	a := New(&fakeChat{err: cause}, "m", logger.Discard())

	got, err := a.Summarize(context.Background(), "hello")
	if got != "" {
		t.Fatalf("expected no output, got %q", got)
	}
	if err == nil || !strings.HasPrefix(err.Error(), "Error processing with Llama:") {
		t.Fatalf("unexpected error %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should be unwrappable")
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != types.StageSummarization {
		t.Fatalf("expected summarization StageError, got %#v", err)
	}
}

func TestSummarizeNoChoices(t *testing.T) {
	a := New(&fakeChat{choices: 0}, "m", logger.Discard())
	if _, err := a.Summarize(context.Background(), "hello"); !errors.Is(err, errEmptyCompletion) {
		t.Fatalf("expected empty completion error, got %v", err)
	}
}

func TestSentimentForwardsArbitraryText(t *testing.T) {
	chat := &fakeChat{content: " Mostly cheerful, I think \n", choices: 1}
	a := New(chat, "m", logger.Discard())

	got, err := a.Sentiment(context.Background(), "analysis")
	if err != nil {
		t.Fatalf("sentiment: %v", err)
	}
	if got != types.Label("Mostly cheerful, I think") {
		t.Fatalf("label should be forwarded trimmed but unchanged, got %q", got)
	}
	if got.Known() {
		t.Fatal("free text must not be reported as a known label")
	}
	req := chat.reqs[0]
	if req.Temperature != 0.2 || req.MaxTokens != 20 {
		t.Fatalf("unexpected sampling params %v %d", req.Temperature, req.MaxTokens)
	}
	if !strings.Contains(req.Messages[0].Content, "Positive, Negative, or Neutral") {
		t.Fatalf("unexpected system prompt %q", req.Messages[0].Content)
	}
	if req.Messages[1].Content != "Analyze this message: analysis" {
		t.Fatalf("unexpected user message %q", req.Messages[1].Content)
	}
}

func TestSentimentFailureMessage(t *testing.T) {
	a := New(&fakeChat{err: errors.New("boom")}, "m", logger.Discard())
	_, err := a.Sentiment(context.Background(), "x")
	if err == nil || err.Error() != "Error analyzing sentiment: boom" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGroqClientOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["max_tokens"] != float64(20) {
			t.Fatalf("unexpected max_tokens %v", body["max_tokens"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "llama-3.3-70b-versatile",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": " Positive\n"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	a := New(NewGroqClient("test-key", server.URL, 0), "llama-3.3-70b-versatile", logger.Discard())
	got, err := a.Sentiment(context.Background(), "great day")
	if err != nil {
		t.Fatalf("sentiment: %v", err)
	}
	if got != types.Positive {
		t.Fatalf("expected Positive, got %q", got)
	}
}

func TestGroqClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API Key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	a := New(NewGroqClient("", server.URL, 0), "m", logger.Discard())
	_, err := a.Summarize(context.Background(), "hello")
	if err == nil || !strings.HasPrefix(err.Error(), "Error processing with Llama:") {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid API Key") {
		t.Fatalf("error should carry api message, got %q", err.Error())
	}
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) || apiErr.HTTPStatusCode != http.StatusUnauthorized {
		t.Fatalf("expected wrapped *openai.APIError, got %#v", err)
	}
}
