package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialTournamentConcurrentAdvances(t *testing.T) {
	env := newTestEnv(t, countries("C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8"), envOptions{})
	_, err := env.svc.Reset(t.Context())
	require.NoError(t, err)
	runner := NewSerialTournament(env.svc)

	// Eight countries with decisive matches finish in exactly seven steps.
	const steps = 7
	var wg sync.WaitGroup
	completed := make(chan bool, steps)
	for i := 0; i < steps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := runner.Advance(t.Context())
			assert.NoError(t, err)
			completed <- report.Completed()
		}()
	}
	wg.Wait()
	close(completed)

	champions := 0
	for c := range completed {
		if c {
			champions++
		}
	}
	assert.Equal(t, 1, champions)
	assert.Equal(t, 1, env.historyLen(t))

	state, err := runner.State(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, state.Round)
	assert.Len(t, state.Remaining, 8)
}
