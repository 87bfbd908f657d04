package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Dosada05/rps-country-cup/brackets"
	"github.com/Dosada05/rps-country-cup/storage"
	"github.com/rs/xid"
)

// ArchivingRenderer renders through next and copies the image to object storage.
// Archive failures are logged; the local image is still returned.
type ArchivingRenderer struct {
	next     brackets.Renderer
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewArchivingRenderer(next brackets.Renderer, uploader storage.FileUploader, logger *slog.Logger) *ArchivingRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchivingRenderer{next: next, uploader: uploader, logger: logger}
}

func (r *ArchivingRenderer) Render(ctx context.Context, card brackets.MatchCard) (string, error) {
	path, err := r.next.Render(ctx, card)
	if err != nil {
		return "", err
	}

	if err := r.archive(ctx, card, path); err != nil {
		r.logger.WarnContext(ctx, "failed to archive match image", slog.String("path", path), slog.Any("error", err))
	}
	return path, nil
}

func (r *ArchivingRenderer) archive(ctx context.Context, card brackets.MatchCard, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	key := archiveKey(card.Round, xid.New().String())
	res, err := r.uploader.Upload(ctx, key, "image/png", f)
	if err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "match image archived", slog.String("key", res.Key), slog.String("url", res.Location))
	return nil
}

func archiveKey(round int, id string) string {
	return fmt.Sprintf("matches/round-%03d/%s.png", round, id)
}
