package models

// TournamentState is the persisted bracket progress. It is the only source of truth
// between runs and is always written back as a whole.
type TournamentState struct {
	Round         int        `json:"round"`
	Remaining     []Country  `json:"remaining"`
	Processed     []Country  `json:"processed_countries"`
	TotalEntities int        `json:"total_countries"`
	Finalists     *Finalists `json:"finalists,omitempty"`
}

// Finalists holds the pairing of the championship match.
type Finalists struct {
	First  Country `json:"first"`
	Second Country `json:"second"`
}

// NewTournamentState builds round one of a fresh tournament from the catalog roster.
func NewTournamentState(countries []Country) TournamentState {
	remaining := make([]Country, len(countries))
	copy(remaining, countries)
	return TournamentState{
		Round:         1,
		Remaining:     remaining,
		Processed:     []Country{},
		TotalEntities: len(countries),
	}
}

// Clone returns a deep copy so callers can mutate the result freely.
func (s TournamentState) Clone() TournamentState {
	out := s
	out.Remaining = append([]Country{}, s.Remaining...)
	out.Processed = append([]Country{}, s.Processed...)
	if s.Finalists != nil {
		f := *s.Finalists
		out.Finalists = &f
	}
	return out
}

// InBracket counts entities still contending this round.
func (s TournamentState) InBracket() int {
	return len(s.Remaining) + len(s.Processed)
}

// IsComplete reports whether a single entity is left with nothing awaiting rollover.
func (s TournamentState) IsComplete() bool {
	return len(s.Remaining) == 1 && len(s.Processed) == 0
}
