// Package arxiv talks to the arXiv export API: metadata queries over Atom
// and e-print source downloads, both with bounded retry and backoff.
package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hazyhaar/scout/safepath"
)

// Config configures the client.
type Config struct {
	// QueryURL is the Atom API endpoint.
	QueryURL string
	// SourceURL is the e-print download base; the id is appended as a path segment.
	SourceURL string
	// UserAgent sent with every request.
	UserAgent string
	// Timeout per HTTP request. Default: 30s.
	Timeout time.Duration
	// MaxArchiveBytes caps an e-print download. Default: 512 MiB.
	MaxArchiveBytes int64
	// DownloadRetries is the attempt count for source downloads. Default: 3.
	DownloadRetries int
	// DownloadWait is the base wait between download attempts; successive
	// waits grow linearly (DownloadWait, 2*DownloadWait, ...). Default: 5s.
	DownloadWait time.Duration
	// QueryRetries is the attempt count for API queries. Default: 5.
	QueryRetries int
	// QueryWait is the initial wait between query attempts, doubling each
	// failure. Default: 10s.
	QueryWait time.Duration
}

func (c *Config) defaults() {
	if c.QueryURL == "" {
		c.QueryURL = "https://export.arxiv.org/api/query"
	}
	if c.SourceURL == "" {
		c.SourceURL = "https://arxiv.org/e-print"
	}
	if c.UserAgent == "" {
		c.UserAgent = "scout/1.0"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxArchiveBytes <= 0 {
		c.MaxArchiveBytes = 512 << 20
	}
	if c.DownloadRetries <= 0 {
		c.DownloadRetries = 3
	}
	if c.DownloadWait <= 0 {
		c.DownloadWait = 5 * time.Second
	}
	if c.QueryRetries <= 0 {
		c.QueryRetries = 5
	}
	if c.QueryWait <= 0 {
		c.QueryWait = 10 * time.Second
	}
}

// Client performs arXiv API queries and e-print downloads.
type Client struct {
	client *http.Client
	config Config
}

// New creates a Client.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				return nil
			},
		},
		config: cfg,
	}
}

// QueryRequest selects one page of API results.
type QueryRequest struct {
	Category string
	// Day restricts results to papers submitted on that calendar day (GMT).
	// Zero means no date window.
	Day   time.Time
	Start int
	Max   int
}

func (r QueryRequest) searchQuery() string {
	if r.Day.IsZero() {
		return "cat:" + r.Category
	}
	from := r.Day.Format("20060102") + "0000"
	to := r.Day.AddDate(0, 0, 1).Format("20060102") + "0000"
	return fmt.Sprintf("cat:%s AND submittedDate:[%s TO %s]", r.Category, from, to)
}

// Query fetches and parses one page of the Atom API, retrying per config.
// Every failure mode (transport error, non-2xx, unparseable payload) counts
// against the retry budget; the last error is returned once it is exhausted.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*Page, error) {
	q := url.Values{}
	q.Set("search_query", req.searchQuery())
	q.Set("start", strconv.Itoa(req.Start))
	q.Set("max_results", strconv.Itoa(req.Max))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")
	target := c.config.QueryURL + "?" + q.Encode()

	var lastErr error
	wait := c.config.QueryWait
	for attempt := 0; attempt < c.config.QueryRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			wait *= 2
		}
		body, err := c.get(ctx, target, 32<<20)
		if err != nil {
			lastErr = err
			continue
		}
		page, err := ParsePage(body)
		if err != nil {
			lastErr = err
			continue
		}
		return page, nil
	}
	return nil, fmt.Errorf("arxiv: query %s failed after %d attempts: %w",
		req.Category, c.config.QueryRetries, lastErr)
}

// DownloadSource fetches the e-print archive for one arXiv id, retrying per
// config. The returned bytes may be gzip tar, bare tar, gzip, raw TeX, or a
// PDF; classification is the unpacker's job.
func (c *Client) DownloadSource(ctx context.Context, id string) ([]byte, error) {
	if err := safepath.ValidateID(id); err != nil {
		return nil, err
	}
	target := c.config.SourceURL + "/" + id

	var lastErr error
	for attempt := 0; attempt < c.config.DownloadRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.config.DownloadWait*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
		body, err := c.get(ctx, target, c.config.MaxArchiveBytes)
		if err != nil {
			lastErr = err
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("arxiv: download %s failed after %d attempts: %w",
		id, c.config.DownloadRetries, lastErr)
}

func (c *Client) get(ctx context.Context, target string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err := safepath.LimitedReadAll(resp.Body, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
