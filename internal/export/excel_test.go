package export

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wedding-rsvp/internal/models"
)

func sampleRecords() []models.SubmissionRecord {
	at := time.Date(2026, 5, 2, 10, 30, 0, 0, time.UTC)
	return []models.SubmissionRecord{
		{Name: "Anna", Attendance: models.AttendanceYes, Event: "Diner", Dietary: "vegan",
			Songs: []string{"Perfect - Ed Sheeran", "Shallow - Lady Gaga"}, Tier: "full", SubmittedAt: at},
		{Name: "Bert", Attendance: models.AttendanceNo, Dietary: models.NoDietary,
			Songs: []string{}, Tier: "full", SubmittedAt: at},
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleRecords(), map[string]int{"Feest": 3, "Diner": 1}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ResponsesSheet, CountsSheet}, f.GetSheetList())

	rows, err := f.GetRows(ResponsesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, responseHeaders, rows[0])
	assert.Equal(t, []string{"Anna", "Ja", "Diner", "vegan", "Perfect - Ed Sheeran\nShallow - Lady Gaga", "full", "2026-05-02 10:30:00"}, rows[1])
	assert.Equal(t, "Nee", rows[2][1])

	counts, err := f.GetRows(CountsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Onderdeel", "Gasten"}, {"Diner", "1"}, {"Feest", "3"}}, counts)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC)

	path, err := WriteFile(dir+"/out", sampleRecords(), nil, now)
	require.NoError(t, err)
	assert.Contains(t, path, "rsvp-20260503-090000.xlsx")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
