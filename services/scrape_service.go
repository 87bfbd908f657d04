package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Dosada05/rps-country-cup/models"
	"github.com/Dosada05/rps-country-cup/repositories"
	"github.com/PuerkitoBio/goquery"
)

const scrapeUserAgent = "Mozilla/5.0 (compatible; rps-country-cup/1.0)"

var (
	nameQualifiers = regexp.MustCompile(`\s*\(.*?\)|\s*(Civil|State|National)\s*flag\s*of\s*`)
	nonFileChars   = regexp.MustCompile(`[^\w\s-]`)
)

// ScrapeService rebuilds the country catalog from the Wikipedia list of national flags.
type ScrapeService struct {
	httpClient *http.Client
	pageURL    string
	flagsDir   string
	catalog    repositories.CatalogRepository
	logger     *slog.Logger
}

func NewScrapeService(httpClient *http.Client, pageURL, flagsDir string, catalog repositories.CatalogRepository, logger *slog.Logger) *ScrapeService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScrapeService{httpClient: httpClient, pageURL: pageURL, flagsDir: flagsDir, catalog: catalog, logger: logger}
}

// Run scrapes the page, downloads every flag and writes the catalog.
func (s *ScrapeService) Run(ctx context.Context) ([]models.Country, error) {
	resp, err := s.get(ctx, s.pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse page: %v", ErrScrapeFailed, err)
	}

	entries := ParseFlagTable(doc)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no countries found", ErrScrapeFailed)
	}
	if err := os.MkdirAll(s.flagsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create flags directory: %w", err)
	}

	countries := make([]models.Country, 0, len(entries))
	for _, e := range entries {
		path := filepath.ToSlash(filepath.Join(s.flagsDir, FlagFileName(e.Name)))
		if err := s.download(ctx, e.ImageURL, path); err != nil {
			s.logger.WarnContext(ctx, "failed to download flag, skipping country", slog.String("country", e.Name), slog.Any("error", err))
			continue
		}
		countries = append(countries, models.Country{Name: e.Name, Emblem: e.Emblem, Flag: path})
	}

	if err := s.catalog.Save(ctx, countries); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	s.logger.InfoContext(ctx, "catalog rebuilt", slog.Int("countries", len(countries)))
	return countries, nil
}

type FlagEntry struct {
	Name     string
	Emblem   string
	ImageURL string
}

// ParseFlagTable extracts name, emoji and flag URL from the first table of the page.
func ParseFlagTable(doc *goquery.Document) []FlagEntry {
	var entries []FlagEntry
	seen := map[string]bool{}

	rows := doc.Find("table").First().Find("tr")
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cols := row.Find("td")
		if cols.Length() < 2 {
			return
		}
		first := cols.Eq(0)

		nameTag := first.Find("a[title]").First()
		if nameTag.Length() == 0 || strings.Contains(nameTag.Text(), "Flag of") {
			return
		}
		name := CleanCountryName(nameTag.Text())
		if name == "" || seen[name] {
			return
		}

		src, ok := first.Find("img").First().Attr("src")
		if !ok || src == "" {
			return
		}
		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}

		seen[name] = true
		entries = append(entries, FlagEntry{
			Name:     name,
			Emblem:   strings.TrimSpace(first.Find("span.flagicon").First().Text()),
			ImageURL: src,
		})
	})
	return entries
}

// CleanCountryName strips qualifiers such as "(Islamic Republic)" or "State flag of".
func CleanCountryName(raw string) string {
	return strings.TrimSpace(nameQualifiers.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// FlagFileName derives the flag image file name from a country name.
func FlagFileName(name string) string {
	base := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return nonFileChars.ReplaceAllString(base, "") + ".png"
}

func (s *ScrapeService) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Retry once after a short delay.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
		resp, err = s.httpClient.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("bad status code for %s: %d", url, resp.StatusCode)
	}
	return resp, nil
}

func (s *ScrapeService) download(ctx context.Context, url, path string) error {
	resp, err := s.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
