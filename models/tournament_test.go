package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTournamentStateCopiesRoster(t *testing.T) {
	roster := []Country{{Name: "Chad"}, {Name: "Cuba"}}
	s := NewTournamentState(roster)
	roster[0].Name = "Changed"

	assert.Equal(t, 1, s.Round)
	assert.Equal(t, "Chad", s.Remaining[0].Name)
	assert.NotNil(t, s.Processed)
	assert.Empty(t, s.Processed)
	assert.Equal(t, 2, s.TotalEntities)
	assert.Nil(t, s.Finalists)
}

func TestCloneIsDeep(t *testing.T) {
	s := TournamentState{
		Round:         2,
		Remaining:     []Country{{Name: "Chad"}},
		Processed:     []Country{{Name: "Cuba"}},
		TotalEntities: 4,
		Finalists:     &Finalists{First: Country{Name: "Chad"}, Second: Country{Name: "Cuba"}},
	}
	c := s.Clone()
	c.Remaining[0].Name = "x"
	c.Processed = append(c.Processed, Country{Name: "y"})
	c.Finalists.First.Name = "z"

	assert.Equal(t, "Chad", s.Remaining[0].Name)
	assert.Len(t, s.Processed, 1)
	assert.Equal(t, "Chad", s.Finalists.First.Name)
}

func TestIsComplete(t *testing.T) {
	one := []Country{{Name: "Chad"}}
	assert.True(t, TournamentState{Remaining: one, Processed: []Country{}}.IsComplete())
	assert.False(t, TournamentState{Remaining: one, Processed: one}.IsComplete())
	assert.False(t, TournamentState{Remaining: []Country{}, Processed: one}.IsComplete())
	assert.Equal(t, 2, TournamentState{Remaining: one, Processed: one}.InBracket())
}

func TestMatchResultWinner(t *testing.T) {
	m := MatchResult{A: Country{Name: "Chad"}, B: Country{Name: "Cuba"}}

	m.Outcome = OutcomeWinsA
	assert.Equal(t, "Chad", m.Winner().Name)
	m.Outcome = OutcomeWinsB
	assert.Equal(t, "Cuba", m.Winner().Name)
	m.Outcome = OutcomeDraw
	assert.Nil(t, m.Winner())
}

func TestNormalizeFlagPath(t *testing.T) {
	assert.Equal(t, "assets/flags/chad.png", NormalizeFlagPath(`assets\flags\chad.png`))
}
