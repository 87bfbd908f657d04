package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Dosada05/rps-country-cup/models"
)

// CatalogRepository supplies the tournament roster.
type CatalogRepository interface {
	Load(ctx context.Context) ([]models.Country, error)
	Save(ctx context.Context, countries []models.Country) error
}

type fileCatalogRepository struct {
	path   string
	logger *slog.Logger
}

func NewFileCatalogRepository(path string, logger *slog.Logger) CatalogRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileCatalogRepository{path: path, logger: logger}
}

// Load reads the catalog, normalises flag paths and drops repeated names.
func (r *fileCatalogRepository) Load(ctx context.Context) ([]models.Country, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, r.path)
		}
		return nil, fmt.Errorf("failed to read catalog %s: %w", r.path, err)
	}

	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}

	seen := make(map[string]bool, len(catalog.Countries))
	countries := make([]models.Country, 0, len(catalog.Countries))
	for _, c := range catalog.Countries {
		if c.Name == "" {
			r.logger.WarnContext(ctx, "skipping catalog entry without a name", slog.String("flag", c.Flag))
			continue
		}
		if seen[c.Name] {
			r.logger.WarnContext(ctx, "skipping duplicate catalog entry", slog.String("country", c.Name))
			continue
		}
		seen[c.Name] = true
		c.Flag = models.NormalizeFlagPath(c.Flag)
		countries = append(countries, c)
	}
	return countries, nil
}

func (r *fileCatalogRepository) Save(_ context.Context, countries []models.Country) error {
	if countries == nil {
		countries = []models.Country{}
	}
	return writeJSONAtomic(r.path, models.Catalog{Countries: countries})
}
