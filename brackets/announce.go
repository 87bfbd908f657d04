package brackets

import (
	"fmt"
	"strings"

	"github.com/Dosada05/rps-country-cup/models"
)

var moveEmoji = map[models.Move]string{
	models.MoveRock:     "✊",
	models.MovePaper:    "📜",
	models.MoveScissors: "✂️",
}

var hashtagReplacer = strings.NewReplacer(" ", "", ",", "", "-", "")

// Hashtag turns a country name into a hashtag.
func Hashtag(name string) string {
	return "#" + hashtagReplacer.Replace(name)
}

// FormatMatchPost renders the social post text for a played match.
func FormatMatchPost(m models.MatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\U0001F6E1️ Round %d | Remaining countries: %d\n\n", m.Round, m.RemainingCount)
	fmt.Fprintf(&b, "⚔️ %s %s %s vs %s %s %s ⚔️\n\n",
		m.A.Emblem, m.A.Name, Hashtag(m.A.Name),
		m.B.Emblem, m.B.Name, Hashtag(m.B.Name))
	fmt.Fprintf(&b, "%s %s: %s\n\n", moveEmoji[m.MoveA], m.A.Name, m.MoveA)
	fmt.Fprintf(&b, "%s %s: %s\n\n", moveEmoji[m.MoveB], m.B.Name, m.MoveB)

	if w := m.Winner(); w != nil {
		fmt.Fprintf(&b, "🏆 Winner: %s %s", w.Emblem, w.Name)
	} else {
		b.WriteString("🏆 Result: Both advance")
	}
	return b.String()
}
