package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"voice-sentiment-go/internal/audio"
	"voice-sentiment-go/internal/config"
	"voice-sentiment-go/internal/dataset"
	"voice-sentiment-go/internal/extractor"
	"voice-sentiment-go/internal/logger"
	"voice-sentiment-go/internal/processor"
	"voice-sentiment-go/internal/report"
	"voice-sentiment-go/internal/transcription"
	"voice-sentiment-go/internal/types"
)

func main() {
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", envOr("CONFIG_PATH", config.DefaultPath), "YAML config file")
		record     = flag.Bool("record", false, "record a clip from the microphone")
		seconds    = flag.Int("seconds", 0, "recording length in seconds (default from config)")
		manifest   = flag.String("manifest", "", "XLSX manifest listing WAV files to analyze")
		xlsxOut    = flag.String("xlsx", "", "write results to this XLSX file")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-record [-seconds N]] [-manifest list.xlsx] [-xlsx out.xlsx] [file.wav ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.NewWithOutput(os.Stderr)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	transcriber := transcription.New(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.TranscribeModel, cfg.Timeout(), log)
	analyzer := extractor.New(extractor.NewGroqClient(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Timeout()), cfg.Groq.ChatModel, log)
	pipeline := processor.New(transcriber, analyzer, analyzer, log)
	pipeline.PassThroughErrors = cfg.Pipeline.PassThroughErrors

	files := flag.Args()
	if *manifest != "" {
		entries, err := dataset.Load(*manifest)
		if err != nil {
			log.WithError(err).Fatal("failed to load manifest")
		}
		for _, e := range entries {
			files = append(files, e.AudioPath)
		}
	}
	if !*record && len(files) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var results []processor.Result
	if *record {
		d := cfg.RecordDuration()
		if *seconds > 0 {
			d = time.Duration(*seconds) * time.Second
		}
		rec := audio.NewCommandRecorder(cfg.Recorder.Command, cfg.Recorder.SampleRate, cfg.Recorder.TempDir, log)
		fmt.Fprintf(os.Stdout, "Recording audio (%s)...\n", d)
		payload, err := rec.Record(ctx, d)
		if err != nil {
			log.WithError(err).Fatal("recording failed")
		}
		fmt.Fprintln(os.Stdout, "Recording complete!")
		results = append(results, runOne(ctx, os.Stdout, pipeline, payload))
	}

	// one file at a time; the pipeline is never run concurrently
	for _, path := range files {
		payload, err := audio.FromFile(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Error("skipping file")
			continue
		}
		fmt.Fprintf(os.Stdout, "\n== %s\n", path)
		results = append(results, runOne(ctx, os.Stdout, pipeline, payload))
	}

	if *xlsxOut != "" {
		if err := writeReport(*xlsxOut, results); err != nil {
			log.WithError(err).Fatal("failed to write report")
		}
		log.WithField("path", *xlsxOut).Info("report written")
	}

	for _, r := range results {
		if !r.OK() {
			os.Exit(1)
		}
	}
}

func runOne(ctx context.Context, w io.Writer, p *processor.Pipeline, payload types.AudioPayload) processor.Result {
	res := p.Run(ctx, payload)
	printBlocks(w, res)
	return res
}

func printBlocks(w io.Writer, res processor.Result) {
	for _, b := range res.Blocks() {
		switch b.Status {
		case types.StatusSkipped:
			continue
		case types.StatusError:
			fmt.Fprintf(w, "%s: [error] %s\n", b.Title, b.Content)
		default:
			fmt.Fprintf(w, "%s:\n  %s\n", b.Title, b.Content)
		}
	}
	if res.Ran(types.StageSentiment) && !res.Sentiment.Known() {
		fmt.Fprintln(w, "  (label is not one of Positive, Negative, Neutral)")
	}
}

func writeReport(path string, results []processor.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
