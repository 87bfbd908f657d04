package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordDateFormats(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{name: "zoneless with microseconds", date: `"2025-02-01T10:11:12.345678"`, want: time.Date(2025, 2, 1, 10, 11, 12, 345678000, time.UTC)},
		{name: "zoneless seconds", date: `"2025-02-01T10:11:12"`, want: time.Date(2025, 2, 1, 10, 11, 12, 0, time.UTC)},
		{name: "space separator", date: `"2025-02-01 10:11:12"`, want: time.Date(2025, 2, 1, 10, 11, 12, 0, time.UTC)},
		{name: "utc", date: `"2025-02-01T10:11:12Z"`, want: time.Date(2025, 2, 1, 10, 11, 12, 0, time.UTC)},
		{name: "offset", date: `"2025-02-01T12:11:12+02:00"`, want: time.Date(2025, 2, 1, 10, 11, 12, 0, time.UTC)},
		{name: "date only", date: `"2025-02-01"`, want: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{name: "null", date: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := `{"tournament_id":4,"finale":{"country1":"Chad","country2":"Cuba"},"winner":"Cuba","date":` + tt.date + `}`

			var rec HistoryRecord
			require.NoError(t, json.Unmarshal([]byte(data), &rec))
			assert.Equal(t, 4, rec.TournamentID)
			assert.Equal(t, FinalPairing{Country1: "Chad", Country2: "Cuba"}, rec.Final)
			assert.Equal(t, "Cuba", rec.Winner)
			assert.True(t, rec.Date.Equal(tt.want), "got %s", rec.Date)
		})
	}
}

func TestHistoryRecordRejectsInvalidDate(t *testing.T) {
	var rec HistoryRecord
	err := json.Unmarshal([]byte(`{"tournament_id":1,"date":"yesterday"}`), &rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yesterday")
}

func TestHistoryRecordRoundTripsWrittenDate(t *testing.T) {
	in := HistoryRecord{TournamentID: 2, Winner: "Chad", Date: time.Date(2026, 3, 14, 15, 9, 26, 500, time.UTC)}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out HistoryRecord
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Date.Equal(in.Date))
	assert.Equal(t, in.Winner, out.Winner)
}
