package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"voice-sentiment-go/internal/audio"
	"voice-sentiment-go/internal/config"
	"voice-sentiment-go/internal/extractor"
	"voice-sentiment-go/internal/logger"
	"voice-sentiment-go/internal/processor"
	"voice-sentiment-go/internal/server"
	"voice-sentiment-go/internal/transcription"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.Info("starting service")

	cfg, err := config.Load(envOr("CONFIG_PATH", config.DefaultPath))
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	transcriber := transcription.New(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.TranscribeModel, cfg.Timeout(), log)
	chat := extractor.NewGroqClient(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Timeout())
	analyzer := extractor.New(chat, cfg.Groq.ChatModel, log)

	pipeline := processor.New(transcriber, analyzer, analyzer, log)
	pipeline.PassThroughErrors = cfg.Pipeline.PassThroughErrors

	recorder := audio.NewCommandRecorder(cfg.Recorder.Command, cfg.Recorder.SampleRate, cfg.Recorder.TempDir, log)
	h := server.NewHandler(pipeline, recorder, cfg.RecordDuration(), cfg.MaxUploadBytes(), log).
		WithMaxRecord(cfg.MaxRecordDuration())

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     h.Routes(),
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	log.WithField("addr", addr).
		WithField("chat_model", cfg.Groq.ChatModel).
		WithField("transcribe_model", cfg.Groq.TranscribeModel).
		WithField("pass_through_errors", cfg.Pipeline.PassThroughErrors).
		Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
