package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/rps-country-cup/brackets"
	"github.com/Dosada05/rps-country-cup/models"
	"github.com/Dosada05/rps-country-cup/repositories"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// cyclingMoves replays moves in order and wraps around.
type cyclingMoves struct {
	moves []models.Move
	next  int
}

func (m *cyclingMoves) NextMove() models.Move {
	mv := m.moves[m.next%len(m.moves)]
	m.next++
	return mv
}

func sideAWins() *cyclingMoves {
	return &cyclingMoves{moves: []models.Move{models.MovePaper, models.MoveRock}}
}

func countries(names ...string) []models.Country {
	out := make([]models.Country, len(names))
	for i, n := range names {
		out[i] = models.Country{Name: n, Emblem: "🏳", Flag: "assets/flags/" + n + ".png"}
	}
	return out
}

func writeCatalog(t *testing.T, path string, cs []models.Country) {
	t.Helper()
	data, err := json.Marshal(models.Catalog{Countries: cs})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

type testEnv struct {
	dir         string
	catalogPath string
	statePath   string
	states      repositories.StateRepository
	history     repositories.HistoryRepository
	svc         *TournamentService
}

type envOptions struct {
	poster   brackets.Poster
	renderer brackets.Renderer
	states   repositories.StateRepository
}

func newTestEnv(t *testing.T, cs []models.Country, opts envOptions) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:         dir,
		catalogPath: filepath.Join(dir, "countries.json"),
		statePath:   filepath.Join(dir, "data.json"),
	}
	writeCatalog(t, env.catalogPath, cs)

	env.states = opts.states
	if env.states == nil {
		env.states = repositories.NewFileStateRepository(env.statePath)
	}
	env.history = repositories.NewFileHistoryRepository(filepath.Join(dir, "history.json"), discardLogger)

	engine := brackets.NewEngine(brackets.EngineConfig{
		Selector: brackets.StackSelector{},
		Moves:    sideAWins(),
		Renderer: opts.renderer,
		Poster:   opts.poster,
		Logger:   discardLogger,
	})
	env.svc = NewTournamentService(
		env.states,
		repositories.NewFileCatalogRepository(env.catalogPath, discardLogger),
		NewHistoryRecorder(env.history, discardLogger),
		engine,
		nil,
		discardLogger,
	)
	return env
}

func (e *testEnv) historyLen(t *testing.T) int {
	t.Helper()
	list, err := e.history.List(context.Background())
	require.NoError(t, err)
	return len(list)
}
