package types

import "strings"

const (
	DefaultSampleRate = 16000
	DefaultChannels   = 1
	FormatWAV         = "wav"
)

// Source tells which trigger produced a payload.
type Source string

const (
	SourceRecording Source = "recording"
	SourceUpload    Source = "upload"
	SourceFile      Source = "file"
)

// AudioPayload is one clip handed to the transcription stage. It is owned by
// the invocation that created it.
type AudioPayload struct {
	Data       []byte `json:"-"`
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	Source     Source `json:"source"`
}

func (p AudioPayload) Size() int { return len(p.Data) }

// Label is the free-text answer of the sentiment stage.
type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
	Neutral  Label = "Neutral"
)

// Known reports whether the label is one of Positive, Negative or Neutral.
// It never rejects anything; callers forward the label as-is.
func (l Label) Known() bool {
	switch Label(strings.TrimSpace(string(l))) {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

type StageName string

const (
	StageTranscription StageName = "transcription"
	StageSummarization StageName = "summarization"
	StageSentiment     StageName = "sentiment"
)

type BlockStatus string

const (
	StatusSuccess BlockStatus = "success"
	StatusError   BlockStatus = "error"
	StatusSkipped BlockStatus = "skipped"
)

// Block is one rendered output section (transcript, analysis, sentiment).
type Block struct {
	Stage   StageName   `json:"stage"`
	Title   string      `json:"title"`
	Status  BlockStatus `json:"status"`
	Content string      `json:"content"`
}
