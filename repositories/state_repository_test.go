package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/rps-country-cup/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStateRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	repo := NewFileStateRepository(path)

	state := &models.TournamentState{
		Round: 3,
		Remaining: []models.Country{
			{Name: "Togo", Emblem: "🇹🇬", Flag: "assets/flags/togo.png"},
			{Name: "Laos", Emblem: "🇱🇦", Flag: "assets/flags/laos.png"},
		},
		Processed:     []models.Country{{Name: "Cuba", Emblem: "🇨🇺", Flag: "assets/flags/cuba.png"}},
		TotalEntities: 12,
		Finalists: &models.Finalists{
			First:  models.Country{Name: "Togo"},
			Second: models.Country{Name: "Laos"},
		},
	}
	require.NoError(t, repo.Save(t.Context(), state))

	got, err := repo.Load(t.Context())
	require.NoError(t, err)
	if diff := cmp.Diff(state, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStateRepositoryWritesEmptyListsAndNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	repo := NewFileStateRepository(path)

	require.NoError(t, repo.Save(t.Context(), &models.TournamentState{Round: 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"remaining": []`)
	assert.Contains(t, string(data), `"processed_countries": []`)
	assert.NotContains(t, string(data), "finalists")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStateRepositoryLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		wantErr error
	}{
		{name: "missing", content: nil, wantErr: ErrStateNotFound},
		{name: "not json", content: ptr("{round: 1"), wantErr: ErrStateCorrupt},
		{name: "empty file", content: ptr(""), wantErr: ErrStateCorrupt},
		{name: "round zero", content: ptr(`{"round":0,"remaining":[],"processed_countries":[],"total_countries":0}`), wantErr: ErrStateCorrupt},
		{name: "bracket larger than total", content: ptr(`{"round":1,"remaining":[{"name":"A"},{"name":"B"}],"processed_countries":[],"total_countries":1}`), wantErr: ErrStateCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			_, err := NewFileStateRepository(path).Load(t.Context())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileStateRepositoryNullListsLoadAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"round":2,"remaining":null,"total_countries":4}`), 0o644))

	got, err := NewFileStateRepository(path).Load(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, got.Remaining)
	assert.NotNil(t, got.Processed)
	assert.Equal(t, 2, got.Round)
}

func ptr(s string) *string { return &s }

func TestFileStateRepositoryLoadsExistingDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	existing := `{
    "round": 2,
    "remaining": [
        {"name": "Italy", "emoji": "🇮🇹", "flag": "assets/flags/italy.png"}
    ],
    "total_countries": 3,
    "processed_countries": [
        {"name": "France", "emoji": "🇫🇷", "flag": "assets/flags/france.png"}
    ]
}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))
	repo := NewFileStateRepository(path)

	got, err := repo.Load(t.Context())
	require.NoError(t, err)

	want := &models.TournamentState{
		Round:         2,
		Remaining:     []models.Country{{Name: "Italy", Emblem: "🇮🇹", Flag: "assets/flags/italy.png"}},
		Processed:     []models.Country{{Name: "France", Emblem: "🇫🇷", Flag: "assets/flags/france.png"}},
		TotalEntities: 3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("loaded state mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, repo.Save(t.Context(), got))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_countries": 3`)
	assert.Contains(t, string(data), `"processed_countries": [`)
	assert.NotContains(t, string(data), "total_entities")
}
