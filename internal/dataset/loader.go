package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is one clip listed in a manifest workbook.
type Entry struct {
	ID        string
	AudioPath string
}

// Load reads the first sheet of an XLSX manifest. The audio column is found
// by header ("audio", "file", "path" or "wav"); the id column by "id" or
// "name". Relative audio paths are resolved against the manifest's folder.
// Rows whose audio cell is empty are skipped.
func Load(path string) ([]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	audioIdx, idIdx := -1, -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "audio") || strings.Contains(l, "file") || strings.Contains(l, "path") || strings.Contains(l, "wav"):
			if audioIdx == -1 {
				audioIdx = i
			}
		case l == "id" || strings.Contains(l, "name"):
			if idIdx == -1 {
				idIdx = i
			}
		}
	}
	// fallback: single-column manifests
	if audioIdx == -1 {
		audioIdx = 0
	}

	base := filepath.Dir(path)
	var out []Entry
	for i, r := range rows[1:] {
		if audioIdx >= len(r) || strings.TrimSpace(r[audioIdx]) == "" {
			continue
		}
		e := Entry{ID: fmt.Sprintf("row-%d", i+2), AudioPath: strings.TrimSpace(r[audioIdx])}
		if idIdx >= 0 && idIdx < len(r) && strings.TrimSpace(r[idIdx]) != "" {
			e.ID = strings.TrimSpace(r[idIdx])
		}
		if !filepath.IsAbs(e.AudioPath) {
			e.AudioPath = filepath.Join(base, e.AudioPath)
		}
		out = append(out, e)
	}
	return out, nil
}
