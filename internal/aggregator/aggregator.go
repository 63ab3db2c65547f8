package aggregator

import (
	"sort"
	"strings"

	"voice-sentiment-go/internal/processor"
	"voice-sentiment-go/internal/types"
)

// Summary counts the outcomes of one invocation's runs.
type Summary struct {
	Total   int            `json:"total"`
	Failed  int            `json:"failed"`
	Skipped int            `json:"skipped"`
	ByLabel map[string]int `json:"by_label"`
	ByStage map[string]int `json:"failed_by_stage"`
	Unknown int            `json:"unknown_labels"`
	AvgMs   int64          `json:"avg_duration_ms"`
}

func Tally(results []processor.Result) Summary {
	s := Summary{ByLabel: map[string]int{}, ByStage: map[string]int{}}
	var totalMs int64
	for _, r := range results {
		s.Total++
		totalMs += r.DurationMs
		if r.Skipped {
			s.Skipped++
		}
		if !r.OK() {
			s.Failed++
			s.ByStage[string(r.Failed)]++
		}
		if !r.Ran(types.StageSentiment) {
			continue
		}
		label := strings.TrimSpace(string(r.Sentiment))
		s.ByLabel[label]++
		if !r.Sentiment.Known() {
			s.Unknown++
		}
	}
	if s.Total > 0 {
		s.AvgMs = totalMs / int64(s.Total)
	}
	return s
}

// Labels returns the tallied labels, most frequent first.
func (s Summary) Labels() []string {
	out := make([]string, 0, len(s.ByLabel))
	for l := range s.ByLabel {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if s.ByLabel[out[i]] != s.ByLabel[out[j]] {
			return s.ByLabel[out[i]] > s.ByLabel[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
