package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/rps-country-cup/brackets"
	"github.com/Dosada05/rps-country-cup/handlers"
	"github.com/Dosada05/rps-country-cup/models"
	"github.com/Dosada05/rps-country-cup/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingRunner struct {
	advances int
}

func (r *countingRunner) Advance(context.Context) (services.StepReport, error) {
	r.advances++
	return services.StepReport{StepResult: brackets.StepResult{Kind: brackets.StepIdle}}, nil
}

func (r *countingRunner) Reset(context.Context) (models.TournamentState, error) {
	return models.NewTournamentState(nil), nil
}

func (r *countingRunner) State(context.Context) (*models.TournamentState, error) {
	s := models.NewTournamentState(nil)
	return &s, nil
}

func (r *countingRunner) History(context.Context) ([]models.HistoryRecord, error) {
	return []models.HistoryRecord{}, nil
}

func newRouter(t *testing.T, runner handlers.TournamentRunner) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	router := chi.NewRouter()
	SetupRoutes(router,
		handlers.NewTournamentHandler(runner, discardLogger),
		handlers.NewAuthHandler(services.NewAuthService(string(hash), "route-secret"), discardLogger),
		handlers.NewWebSocketHandler(brackets.NewHub(discardLogger), nil, discardLogger),
		Options{
			JWTSecret: []byte("route-secret"),
			Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte("rpscup_round 1\n"))
			}),
		},
	)
	return router
}

func do(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	router := newRouter(t, &countingRunner{})

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/state", "", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/history", "", "").Code)

	metrics := do(router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "rpscup_round")
}

func TestAdminRoutesRequireToken(t *testing.T) {
	runner := &countingRunner{}
	router := newRouter(t, runner)

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/api/advance", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/api/reset", "", "garbage").Code)
	assert.Zero(t, runner.advances)

	login := do(router, http.MethodPost, "/api/auth/token", `{"password":"letmein"}`, "")
	require.Equal(t, http.StatusOK, login.Code)
	token := extractToken(t, login.Body.String())

	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/api/advance", "", token).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/api/reset", "", token).Code)
	assert.Equal(t, 1, runner.advances)
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter(t, &countingRunner{})

	req := httptest.NewRequest(http.MethodOptions, "/api/advance", nil)
	req.Header.Set("Origin", "https://cup.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func extractToken(t *testing.T, body string) string {
	t.Helper()
	var resp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	return resp.Token
}
