package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"voice-sentiment-go/internal/audio"
	"voice-sentiment-go/internal/processor"
	"voice-sentiment-go/internal/report"
	"voice-sentiment-go/internal/types"
)

type response struct {
	RunID          string        `json:"run_id"`
	Source         types.Source  `json:"source"`
	Blocks         []types.Block `json:"blocks"`
	SentimentKnown bool          `json:"sentiment_known"`
	Error          string        `json:"error,omitempty"`
	DurationMs     int64         `json:"duration_ms"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

// Record captures a clip from the server's input device and runs the pipeline.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	reqLog := h.log.WithRequest(r).WithField("handler", "record")

	d := h.recordDuration
	if s := r.FormValue("seconds"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "seconds must be a positive integer")
			return
		}
		if limit := int(h.maxRecord / time.Second); n > limit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("seconds must not exceed %d", limit))
			return
		}
		d = time.Duration(n) * time.Second
	}
	reqLog = reqLog.WithField("seconds", d.Seconds())
	reqLog.Info("recording audio")

	payload, err := h.recorder.Record(r.Context(), d)
	if err != nil {
		reqLog.WithField("error", err.Error()).Error("recording failed")
		writeError(w, http.StatusInternalServerError, "recording failed: "+err.Error())
		return
	}
	reqLog.Info("recording complete")
	h.run(w, r, reqLog, payload)
}

// Upload accepts a multipart "file" field holding a .wav clip.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	reqLog := h.log.WithRequest(r).WithField("handler", "upload")

	file, header, err := r.FormFile("file")
	if err != nil {
		reqLog.WithField("error", err.Error()).Warn("missing file")
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	payload, err := audio.FromUpload(header.Filename, file, h.maxUploadBytes)
	switch {
	case errors.Is(err, audio.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	case errors.Is(err, audio.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case err != nil:
		reqLog.WithField("error", err.Error()).Error("read upload failed")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reqLog.WithField("filename", payload.Filename).WithField("audio_bytes", payload.Size()).Info("audio file uploaded")
	h.run(w, r, reqLog, payload)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, reqLog *logrus.Entry, payload types.AudioPayload) {
	res := h.pipeline.Run(r.Context(), payload)
	reqLog = reqLog.WithField("run_id", res.RunID).WithField("duration_ms", res.DurationMs)
	if !res.OK() {
		reqLog.WithField("error", res.ErrorMessage()).Warn("pipeline stage failed")
	} else {
		reqLog.Info("pipeline finished")
	}

	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", report.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "analysis-"+res.RunID+".xlsx"))
		if err := report.Write(w, []processor.Result{res}); err != nil {
			reqLog.WithField("error", err.Error()).Error("failed to write report")
		}
		return
	}

	status := http.StatusOK
	if !res.OK() {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, response{
		RunID:          res.RunID,
		Source:         res.Source,
		Blocks:         res.Blocks(),
		SentimentKnown: res.Sentiment.Known(),
		Error:          res.ErrorMessage(),
		DurationMs:     res.DurationMs,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
