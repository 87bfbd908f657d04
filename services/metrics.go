package services

import (
	"github.com/Dosada05/rps-country-cup/brackets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	postResultPublished   = "published"
	postResultRateLimited = "rate_limited"
	postResultFailed      = "failed"
)

// Metrics counts tournament progress. A nil *Metrics records nothing.
type Metrics struct {
	matches     *prometheus.CounterVec
	byes        prometheus.Counter
	rollovers   prometheus.Counter
	completions prometheus.Counter
	posts       *prometheus.CounterVec
	round       prometheus.Gauge
	inBracket   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		matches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rpscup_matches_total",
			Help: "Matches played, by outcome.",
		}, []string{"outcome"}),
		byes: f.NewCounter(prometheus.CounterOpts{
			Name: "rpscup_byes_total",
			Help: "Countries advanced without playing.",
		}),
		rollovers: f.NewCounter(prometheus.CounterOpts{
			Name: "rpscup_rollovers_total",
			Help: "Rounds finished.",
		}),
		completions: f.NewCounter(prometheus.CounterOpts{
			Name: "rpscup_tournaments_completed_total",
			Help: "Tournaments that produced a champion.",
		}),
		posts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rpscup_posts_total",
			Help: "Social post attempts, by result.",
		}, []string{"result"}),
		round: f.NewGauge(prometheus.GaugeOpts{
			Name: "rpscup_round",
			Help: "Current round number.",
		}),
		inBracket: f.NewGauge(prometheus.GaugeOpts{
			Name: "rpscup_countries_in_bracket",
			Help: "Countries still contending in the current round.",
		}),
	}
}

func (m *Metrics) ObserveStep(res brackets.StepResult) {
	if m == nil {
		return
	}
	switch res.Kind {
	case brackets.StepBye:
		m.byes.Inc()
	case brackets.StepMatch:
		m.matches.WithLabelValues(res.Match.Outcome.String()).Inc()
	}
	if res.RolledOver {
		m.rollovers.Inc()
	}
	if res.Completed() {
		m.completions.Inc()
	}
}

func (m *Metrics) ObserveState(round, inBracket int) {
	if m == nil {
		return
	}
	m.round.Set(float64(round))
	m.inBracket.Set(float64(inBracket))
}

func (m *Metrics) ObservePost(result string) {
	if m == nil {
		return
	}
	m.posts.WithLabelValues(result).Inc()
}
