package site

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/spatail/vbdplayer/internal/config"
)

// maxBodySize caps any page, pointer file or cover image we download.
const maxBodySize = 10 * 1024 * 1024

type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	limiter    *rate.Limiter
	userAgent  string
	debug      bool

	requestCount int64
	errorCount   int64
}

func NewClient(cfg *config.Config) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Site.Retries
	retryClient.HTTPClient.Timeout = cfg.SiteTimeout()
	retryClient.Logger = nil

	if cfg.Debug {
		retryClient.Logger = &debugLogger{}
	}

	limiter := rate.NewLimiter(
		rate.Limit(cfg.Site.RateLimit.RequestsPerSecond),
		cfg.Site.RateLimit.BurstSize,
	)

	c := &Client{
		baseURL:    cfg.Site.BaseURL,
		httpClient: retryClient,
		limiter:    limiter,
		userAgent:  cfg.Site.UserAgent,
		debug:      cfg.Debug,
	}

	c.debugLog("Site client initialized - Base URL: %s, Retries: %d", c.baseURL, cfg.Site.Retries)
	return c
}

type debugLogger struct{}

func (d *debugLogger) Printf(format string, args ...interface{}) {
	log.Printf("[HTTP] "+format, args...)
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if !c.debug {
		return
	}
	log.Printf("[SITE] "+format, args...)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// get downloads rawURL and returns the body, its final URL after redirects
// and the response content type.
func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, string, string, error) {
	start := time.Now()
	n := atomic.AddInt64(&c.requestCount, 1)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	c.debugLog("REQUEST #%d GET %s", n, rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.failed(rawURL, 0, start, err)
		return nil, "", "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.debugLog("Failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		c.failed(rawURL, resp.StatusCode, start, err)
		return nil, "", "", err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.failed(rawURL, resp.StatusCode, start, err)
		return nil, "", "", fmt.Errorf("read response body: %w", err)
	}

	final := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}

	c.debugLog("RESPONSE #%d %s - %d bytes in %v", n, rawURL, len(body), time.Since(start))
	return body, final, resp.Header.Get("Content-Type"), nil
}

func (c *Client) failed(rawURL string, status int, start time.Time, err error) {
	errs := atomic.AddInt64(&c.errorCount, 1)
	if c.debug {
		log.Printf("[SITE] ERROR GET %s - Status: %d - Duration: %v - Error: %v",
			rawURL, status, time.Since(start), err)
		total := atomic.LoadInt64(&c.requestCount)
		log.Printf("[SITE] STATS - Total Requests: %d, Errors: %d", total, errs)
	}
}

// Stats returns the number of requests made and how many failed.
func (c *Client) Stats() (requests, errors int64) {
	return atomic.LoadInt64(&c.requestCount), atomic.LoadInt64(&c.errorCount)
}
