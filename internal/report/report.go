package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"voice-sentiment-go/internal/aggregator"
	"voice-sentiment-go/internal/processor"
)

const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"
	ContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var resultHeader = []interface{}{
	"Run ID", "Source", "File", "Transcript", "Analysis", "Sentiment", "Status", "Failed Stage", "Error", "Duration (ms)",
}

// Write renders results as an XLSX workbook onto w. Nothing is kept on disk.
func Write(w io.Writer, results []processor.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeResults(f, results); err != nil {
		return err
	}
	if err := writeSummary(f, aggregator.Tally(results)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeResults(f *excelize.File, results []processor.Result) error {
	if err := f.SetSheetRow(ResultsSheet, "A1", &resultHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range results {
		status := "ok"
		switch {
		case !r.OK():
			status = "error"
		case r.Skipped:
			status = "skipped"
		}
		row := []interface{}{
			r.RunID, string(r.Source), r.Filename, r.Transcript, r.Analysis, string(r.Sentiment),
			status, string(r.Failed), r.ErrorMessage(), r.DurationMs,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, s aggregator.Summary) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	rows := [][]interface{}{
		{"Total runs", s.Total},
		{"Failed", s.Failed},
		{"Skipped (empty transcript)", s.Skipped},
		{"Unrecognized labels", s.Unknown},
		{"Average duration (ms)", s.AvgMs},
		{},
		{"Sentiment", "Count"},
	}
	for _, l := range s.Labels() {
		rows = append(rows, []interface{}{l, s.ByLabel[l]})
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	return nil
}
