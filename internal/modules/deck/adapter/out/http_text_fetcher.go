package out

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	deckout "prepdeck/internal/modules/deck/port/out"
)

// HTTPTextFetcher downloads CSV text directly and, when a proxy is
// configured, retries once through it.
type HTTPTextFetcher struct {
	client   *http.Client
	proxyURL string
	logger   *slog.Logger
}

func NewHTTPTextFetcher(timeout time.Duration, proxyURL string, logger *slog.Logger) deckout.TextFetcher {
	return &HTTPTextFetcher{
		client:   &http.Client{Timeout: timeout},
		proxyURL: strings.TrimSpace(proxyURL),
		logger:   logger,
	}
}

func (f *HTTPTextFetcher) FetchText(ctx context.Context, target string) (string, error) {
	text, err := f.get(ctx, target)
	if err == nil {
		return text, nil
	}
	if f.proxyURL == "" {
		return "", err
	}
	f.logger.Warn("direct csv fetch failed, retrying via proxy", "url", target, "error", err)
	proxied, perr := f.get(ctx, f.proxyURL+"?url="+url.QueryEscape(target))
	if perr != nil {
		return "", fmt.Errorf("via proxy: %w", perr)
	}
	return proxied, nil
}

func (f *HTTPTextFetcher) get(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build csv request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch csv: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch csv: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read csv body: %w", err)
	}
	return string(body), nil
}
