package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// HistoryRecord is one finished tournament in the append-only history log.
type HistoryRecord struct {
	TournamentID int          `json:"tournament_id"`
	Final        FinalPairing `json:"finale"`
	Winner       string       `json:"winner"`
	Date         time.Time    `json:"date"`
}

// FinalPairing names the two finalists.
type FinalPairing struct {
	Country1 string `json:"country1"`
	Country2 string `json:"country2"`
}

// historyDateLayouts are the ISO-8601 forms found in history logs. Timestamps
// without a zone are read as UTC.
var historyDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseHistoryDate parses an ISO-8601 date with or without a zone offset.
func ParseHistoryDate(s string) (time.Time, error) {
	for _, layout := range historyDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid history date %q", s)
}

func (r *HistoryRecord) UnmarshalJSON(data []byte) error {
	type plain HistoryRecord
	aux := struct {
		*plain
		Date *string `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Date = time.Time{}
	if aux.Date == nil || *aux.Date == "" {
		return nil
	}
	date, err := ParseHistoryDate(*aux.Date)
	if err != nil {
		return err
	}
	r.Date = date
	return nil
}
