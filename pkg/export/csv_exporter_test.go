package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	data := Dataset{
		Headers: []string{"Date", "Start", "End"},
		Rows: [][]string{
			{"2024-01-08", "09:00", "10:00"},
			{"2024-01-15", "09:00"}, // short row pads to header width
		},
		Summary: []SummaryLine{
			{Label: "Instructor", Value: "Jane Doe"},
			{Label: "Classes", Value: "2"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(out)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 6)
	assert.Equal(t, []string{"Date", "Start", "End"}, records[0])
	assert.Equal(t, []string{"2024-01-15", "09:00", ""}, records[2])
	// The separator must be a full-width empty record, not a blank
	// line, so it is still present after a read back.
	assert.Equal(t, []string{"", "", ""}, records[3])
	assert.Equal(t, []string{"Instructor", "Jane Doe"}, records[4])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{Rows: [][]string{{"x"}}})
	require.Error(t, err)
}
