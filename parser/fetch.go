package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"listing-parser/models"
)

const (
	// Desktop Chrome — the social network sometimes returns more OG data to it.
	desktopUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// iPhone Safari — the portals serve cleaner mobile-optimized markup.
	mobileUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 " +
		"(KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

	maxRedirects = 10
	maxBodyBytes = 10 << 20
)

// ErrEmptyBody reports a 2xx response whose body was shorter than the
// configured minimum. Distinct from transport and status failures so the
// caller can surface a different message.
var ErrEmptyBody = errors.New("empty response body")

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// Fetch performs a single bounded GET and returns the body as text. No
// retries: a failed fetch surfaces immediately so the caller can emit a
// partial record.
func (p *Parser) Fetch(ctx context.Context, rawURL string, category models.SiteCategory) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: build request: %w", err)
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "he-IL,he;q=0.9,en-US;q=0.8,en;q=0.7")
	if category == models.SiteSocial {
		req.Header.Set("User-Agent", desktopUA)
	} else {
		req.Header.Set("User-Agent", mobileUA)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("fetch: read body: %w", err)
	}

	if len(body) < p.cfg.MinBodyBytes {
		return "", ErrEmptyBody
	}
	return string(body), nil
}
