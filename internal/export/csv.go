// Package export serializes call logs and token summaries for files and the
// clipboard.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/logrecord"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

// BOM marks the file as UTF-8 for spreadsheet applications.
const BOM = "\uFEFF"

// Header is the fixed column set of an export.
var Header = []string{"Time", "Model", "Time Consumed", "Prompt", "Completion", "Cost", "Details"}

// Serialize renders records as CSV. Columns that do not apply to a record
// are left empty.
func Serialize(records []models.LogRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(BOM)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w: %w", models.ErrExportFailure, err)
	}
	for _, r := range records {
		if err := w.Write(row(r)); err != nil {
			return nil, fmt.Errorf("failed to write row: %w: %w", models.ErrExportFailure, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w: %w", models.ErrExportFailure, err)
	}
	return buf.Bytes(), nil
}

func row(r models.LogRecord) []string {
	var model, useTime, prompt, completion, cost string

	billable := r.Billable()
	reserved := r.Reserved()

	if billable {
		model = r.ModelName
		cost = strconv.FormatInt(r.Quota, 10)
	}
	if !reserved {
		useTime = strconv.FormatInt(r.UseTime, 10)
		if billable {
			prompt = strconv.FormatInt(r.PromptTokens, 10)
			completion = strconv.FormatInt(r.CompletionTokens, 10)
		}
	}

	return []string{
		r.CreatedAt.Local().Format(logrecord.TimeLayout),
		model,
		useTime,
		prompt,
		completion,
		cost,
		r.Detail,
	}
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileName returns the export file name for an endpoint.
func FileName(endpointKey string, now time.Time) string {
	key := unsafeFileChars.ReplaceAllString(endpointKey, "_")
	if key == "" {
		key = "endpoint"
	}
	return fmt.Sprintf("logs-%s-%s.csv", key, now.Format("20060102-150405"))
}

// WriteFile serializes records into dir and returns the written path.
func WriteFile(dir, endpointKey string, records []models.LogRecord, now time.Time) (string, error) {
	data, err := Serialize(records)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w: %w", models.ErrExportFailure, err)
	}

	path := filepath.Join(dir, FileName(endpointKey, now))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write export: %w: %w", models.ErrExportFailure, err)
	}
	return path, nil
}
