package brackets

import (
	"testing"

	"github.com/Dosada05/rps-country-cup/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster(names ...string) []models.Country {
	out := make([]models.Country, len(names))
	for i, n := range names {
		out[i] = models.Country{Name: n, Emblem: "🏳", Flag: "assets/flags/" + n + ".png"}
	}
	return out
}

func names(cs []models.Country) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestStackSelectorPopsLastTwo(t *testing.T) {
	a, b, rest := StackSelector{}.SelectPair(roster("France", "Japan", "Peru", "Chad"))

	assert.Equal(t, "Chad", a.Name)
	assert.Equal(t, "Peru", b.Name)
	assert.Equal(t, []string{"France", "Japan"}, names(rest))
}

func TestRandomSelectorIsDeterministicForSeed(t *testing.T) {
	remaining := roster("A", "B", "C", "D", "E", "F", "G")

	first := NewRandomSelector(NewRand(42))
	second := NewRandomSelector(NewRand(42))
	for i := 0; i < 20; i++ {
		a1, b1, rest1 := first.SelectPair(remaining)
		a2, b2, rest2 := second.SelectPair(remaining)
		require.Equal(t, a1, a2)
		require.Equal(t, b1, b2)
		if diff := cmp.Diff(rest1, rest2); diff != "" {
			t.Fatalf("rest mismatch (-first +second):\n%s", diff)
		}
	}
}

func TestRandomSelectorPicksDistinctAndKeepsOrder(t *testing.T) {
	remaining := roster("A", "B", "C", "D", "E")
	sel := NewRandomSelector(NewRand(7))

	for i := 0; i < 200; i++ {
		a, b, rest := sel.SelectPair(remaining)
		require.NotEqual(t, a.Name, b.Name)
		require.Len(t, rest, len(remaining)-2)

		var want []string
		for _, c := range remaining {
			if c.Name != a.Name && c.Name != b.Name {
				want = append(want, c.Name)
			}
		}
		require.Equal(t, want, names(rest))
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names(remaining), "input must not be reordered")
}

func TestRandomSelectorCoversEveryPair(t *testing.T) {
	remaining := roster("A", "B", "C")
	sel := NewRandomSelector(NewRand(1))

	seen := map[[2]string]bool{}
	for i := 0; i < 500; i++ {
		a, b, _ := sel.SelectPair(remaining)
		seen[[2]string{a.Name, b.Name}] = true
	}
	assert.Len(t, seen, 6)
}

func TestNewPairSelector(t *testing.T) {
	tests := []struct {
		strategy string
		want     string
		wantErr  error
	}{
		{strategy: "", want: StrategyOrdered},
		{strategy: StrategyOrdered, want: StrategyOrdered},
		{strategy: StrategyRandom, want: StrategyRandom},
		{strategy: "swiss", wantErr: ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			sel, err := NewPairSelector(tt.strategy, NewRand(1))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.GetName())
		})
	}
}
