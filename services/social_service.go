package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dosada05/rps-country-cup/config"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// XAPI is the subset of the X API v2 used for match posts.
type XAPI interface {
	UploadMedia(ctx context.Context, path string) (string, error)
	CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error)
}

// XClient talks to the X API v2 with an OAuth 2.0 user-context token.
type XClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewXClient(cfg config.XConfig) *XClient {
	base := strings.TrimSuffix(cfg.APIBaseURL, "/")
	token := &oauth2.Token{AccessToken: cfg.AccessToken, RefreshToken: cfg.RefreshToken, TokenType: "Bearer"}

	var ts oauth2.TokenSource
	if cfg.RefreshToken != "" && cfg.ClientID != "" {
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  base + "/2/oauth2/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		}
		ts = oauthCfg.TokenSource(context.Background(), token)
	} else {
		ts = oauth2.StaticTokenSource(token)
	}

	client := oauth2.NewClient(context.Background(), ts)
	client.Timeout = cfg.RequestTimeout
	return &XClient{httpClient: client, baseURL: base}
}

// NewXClientWithHTTP uses a preconfigured HTTP client, e.g. in tests.
func NewXClientWithHTTP(httpClient *http.Client, baseURL string) *XClient {
	return &XClient{httpClient: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type xDataID struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *XClient) UploadMedia(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open media %s: %w", path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("media_category", "tweet_image"); err != nil {
		return "", err
	}
	if err := w.WriteField("media_type", "image/png"); err != nil {
		return "", err
	}
	part, err := w.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read media %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/media/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out xDataID
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}
	return out.Data.ID, nil
}

func (c *XClient) CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error) {
	payload := map[string]interface{}{"text": text}
	if len(mediaIDs) > 0 {
		payload["media"] = map[string]interface{}{"media_ids": mediaIDs}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out xDataID
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	return out.Data.ID, nil
}

func (c *XClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ErrRateLimited, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrPostRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SocialPoster publishes match posts. On a rate-limit signal it waits a fixed
// backoff and retries once.
type SocialPoster struct {
	api     XAPI
	limiter *rate.Limiter
	backoff time.Duration
	metrics *Metrics
	logger  *slog.Logger
}

type SocialPosterConfig struct {
	RateLimitBackoff time.Duration
	MinPostInterval  time.Duration
}

func NewSocialPoster(api XAPI, cfg SocialPosterConfig, metrics *Metrics, logger *slog.Logger) *SocialPoster {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.MinPostInterval > 0 {
		limit = rate.Every(cfg.MinPostInterval)
	}
	return &SocialPoster{
		api:     api,
		limiter: rate.NewLimiter(limit, 1),
		backoff: cfg.RateLimitBackoff,
		metrics: metrics,
		logger:  logger,
	}
}

func (p *SocialPoster) Post(ctx context.Context, text string, imagePath string) error {
	media := &postMedia{path: imagePath}
	err := p.attempt(ctx, text, media)
	if errors.Is(err, ErrRateLimited) {
		p.metrics.ObservePost(postResultRateLimited)
		p.logger.WarnContext(ctx, "rate limited, retrying once", slog.Duration("backoff", p.backoff))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff):
		}
		err = p.attempt(ctx, text, media)
	}
	if err != nil {
		p.metrics.ObservePost(postResultFailed)
		return err
	}
	p.metrics.ObservePost(postResultPublished)
	return nil
}

// postMedia carries the upload outcome across attempts so a retry does not upload
// the same image twice.
type postMedia struct {
	path     string
	ids      []string
	resolved bool
}

func (p *SocialPoster) attempt(ctx context.Context, text string, media *postMedia) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	if media.path != "" && !media.resolved {
		id, err := p.api.UploadMedia(ctx, media.path)
		switch {
		case errors.Is(err, ErrRateLimited):
			return err
		case err != nil:
			p.logger.WarnContext(ctx, "media upload failed, posting text only", slog.Any("error", err))
		default:
			media.ids = []string{id}
		}
		media.resolved = true
	}

	id, err := p.api.CreatePost(ctx, text, media.ids)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "post published", slog.String("post_id", id), slog.Bool("with_image", len(media.ids) > 0))
	return nil
}

// LogPoster is used when no social credentials are configured.
type LogPoster struct {
	logger *slog.Logger
}

func NewLogPoster(logger *slog.Logger) *LogPoster {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPoster{logger: logger}
}

func (p *LogPoster) Post(ctx context.Context, text string, imagePath string) error {
	p.logger.InfoContext(ctx, "posting disabled, post not sent", slog.String("text", text), slog.String("image", imagePath))
	return nil
}
