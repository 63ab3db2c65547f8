package processor

import (
	"voice-sentiment-go/internal/types"
)

// Result is everything one invocation produced.
type Result struct {
	RunID      string          `json:"run_id"`
	Source     types.Source    `json:"source"`
	Filename   string          `json:"filename,omitempty"`
	Transcript string          `json:"transcript"`
	Analysis   string          `json:"analysis"`
	Sentiment  types.Label     `json:"sentiment"`
	Failed     types.StageName `json:"failed_stage,omitempty"`
	Err        error           `json:"-"`
	Skipped    bool            `json:"skipped,omitempty"`
	DurationMs int64           `json:"duration_ms"`

	// Failures holds every stage that returned an error. Only pass-through
	// runs can have more than one.
	Failures map[types.StageName]*StageError `json:"-"`

	// Completed lists the stages whose output was used, in order.
	Completed []types.StageName `json:"completed_stages"`
}

func (r Result) OK() bool { return r.Err == nil }

// ErrorMessage is the failure text, empty on success.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Ran reports whether stage produced output that was used.
func (r Result) Ran(stage types.StageName) bool {
	for _, s := range r.Completed {
		if s == stage {
			return true
		}
	}
	return false
}

var titles = map[types.StageName]string{
	types.StageTranscription: "Transcribed Text",
	types.StageSummarization: "Llama Model Output",
	types.StageSentiment:     "Sentiment",
}

// Blocks renders the three output sections. A failed stage is marked as an
// error and shows the failure message; stages after a stop are skipped.
func (r Result) Blocks() []types.Block {
	stages := []struct {
		name    types.StageName
		content string
	}{
		{types.StageTranscription, r.Transcript},
		{types.StageSummarization, r.Analysis},
		{types.StageSentiment, string(r.Sentiment)},
	}

	var out []types.Block
	for _, s := range stages {
		b := types.Block{Stage: s.name, Title: titles[s.name], Content: s.content}
		switch fe := r.failure(s.name); {
		case fe != nil:
			b.Status = types.StatusError
			b.Content = unwrapMessage(fe)
		case r.Ran(s.name):
			b.Status = types.StatusSuccess
		default:
			b.Status = types.StatusSkipped
		}
		out = append(out, b)
	}
	return out
}

// failure returns the error recorded for stage, if any.
func (r Result) failure(stage types.StageName) error {
	if se, ok := r.Failures[stage]; ok {
		return se
	}
	if stage != "" && stage == r.Failed {
		return r.Err
	}
	return nil
}

func unwrapMessage(err error) string {
	if se, ok := err.(*StageError); ok {
		return se.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
