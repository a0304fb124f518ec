package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cchummer/sec-api/pkg/edgar/config"
	"github.com/cchummer/sec-api/pkg/edgar/internalerr"
)

// Fetcher downloads archive documents with the fixed identification
// headers, consulting the rate limiter once per attempt and retrying
// failed attempts with exponential backoff.
type Fetcher struct {
	client      *http.Client
	limiter     *RateLimiter
	headers     config.RequestHeaders
	maxRetries  int
	backoffBase time.Duration
	cache       *lru.Cache[string, string]
}

// Options configures a Fetcher
type Options struct {
	Client      *http.Client
	Limiter     *RateLimiter
	Headers     config.RequestHeaders
	MaxRetries  int
	BackoffBase time.Duration
	CacheSize   int
}

// New creates a Fetcher with the given dependencies
func New(opts Options) *Fetcher {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 60 * time.Second}
	}
	if opts.Limiter == nil {
		opts.Limiter = NewRateLimiter(1)
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Second
	}
	if opts.CacheSize < 1 {
		opts.CacheSize = 256
	}
	cache, err := lru.New[string, string](opts.CacheSize)
	if err != nil {
		// Only reachable with a non-positive size, which is normalized above
		panic(err)
	}
	return &Fetcher{
		client:      opts.Client,
		limiter:     opts.Limiter,
		headers:     opts.Headers,
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		cache:       cache,
	}
}

// Fetch downloads the body at url, returning it as a string. Bodies are
// cached in-process so a resumed run does not re-download documents
// already fetched.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if body, ok := f.cache.Get(url); ok {
		return body, nil
	}

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := f.backoffBase * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := f.limiter.Acquire(ctx); err != nil {
			return "", err
		}

		body, err := f.attempt(ctx, url)
		if err == nil {
			log.Printf("Fetched %s on attempt %d", url, attempt+1)
			f.cache.Add(url, body)
			return body, nil
		}
		lastErr = err
		log.Printf("Warning: attempt %d/%d fetching %s: %v", attempt+1, f.maxRetries, url, err)
	}

	return "", fmt.Errorf("fetch %s after %d attempts: %w (last error: %v)",
		url, f.maxRetries, internalerr.ErrRetriesExhausted, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.headers.UserAgent)
	if f.headers.AcceptEncoding != "" {
		req.Header.Set("Accept-Encoding", f.headers.AcceptEncoding)
	}
	if f.headers.Host != "" {
		req.Host = f.headers.Host
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	// Accept-Encoding was set manually, so net/http does not decompress
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
