// Package export writes RSVP responses to an Excel workbook for the couple.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"wedding-rsvp/internal/models"
)

const (
	ResponsesSheet = "Antwoorden"
	CountsSheet    = "Per onderdeel"
)

var responseHeaders = []string{"Naam", "Aanwezig", "Onderdeel", "Dieetwensen", "Liedjes", "Code", "Verstuurd op"}

// WriteWorkbook renders the responses and per-event head counts as xlsx to w
func WriteWorkbook(w io.Writer, records []models.SubmissionRecord, counts map[string]int) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", ResponsesSheet)
	for i, h := range responseHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(ResponsesSheet, cell, h)
	}

	for i, rec := range records {
		row := i + 2
		values := []any{
			rec.Name,
			rec.Attendance,
			rec.Event,
			rec.Dietary,
			strings.Join(rec.Songs, "\n"),
			rec.Tier,
			rec.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			f.SetCellValue(ResponsesSheet, cell, v)
		}
	}

	if _, err := f.NewSheet(CountsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	f.SetCellValue(CountsSheet, "A1", "Onderdeel")
	f.SetCellValue(CountsSheet, "B1", "Gasten")

	events := make([]string, 0, len(counts))
	for event := range counts {
		events = append(events, event)
	}
	sort.Strings(events)
	for i, event := range events {
		f.SetCellValue(CountsSheet, fmt.Sprintf("A%d", i+2), event)
		f.SetCellValue(CountsSheet, fmt.Sprintf("B%d", i+2), counts[event])
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook into dir under a timestamped name and returns its path
func WriteFile(dir string, records []models.SubmissionRecord, counts map[string]int, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("rsvp-%s.xlsx", now.Format("20060102-150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := WriteWorkbook(file, records, counts); err != nil {
		return "", err
	}
	return path, nil
}
