package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"voice-sentiment-go/internal/audio"
	"voice-sentiment-go/internal/logger"
	"voice-sentiment-go/internal/processor"
	"voice-sentiment-go/internal/types"
)

// Runner is the pipeline as seen by the handlers.
type Runner interface {
	Run(ctx context.Context, p types.AudioPayload) processor.Result
}

// DefaultMaxRecord caps the seconds a /record caller may ask for.
const DefaultMaxRecord = time.Minute

type Handler struct {
	pipeline       Runner
	recorder       audio.Recorder
	recordDuration time.Duration
	maxRecord      time.Duration
	maxUploadBytes int64
	log            *logger.Logger
}

func NewHandler(p Runner, rec audio.Recorder, recordDuration time.Duration, maxUploadBytes int64, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.New()
	}
	return &Handler{
		pipeline:       p,
		recorder:       rec,
		recordDuration: recordDuration,
		maxRecord:      DefaultMaxRecord,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// WithMaxRecord overrides DefaultMaxRecord. Non-positive values are ignored.
func (h *Handler) WithMaxRecord(d time.Duration) *Handler {
	if d > 0 {
		h.maxRecord = d
	}
	return h
}

// Routes wires the two triggers plus health and the index page.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Get("/", h.Index)
	r.Get("/healthz", h.Health)
	r.Post("/record", h.Record)
	r.Post("/upload", h.Upload)
	return r
}
