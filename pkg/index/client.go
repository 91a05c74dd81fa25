package index

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/go-logr/logr"
	"golang.org/x/sync/semaphore"

	"github.com/packfetch/pypi-mirror/pkg/requestutil"
)

var (
	ErrNotFound  = errors.New("package not found")
	ErrTimeout   = errors.New("request timed out")
	ErrTransport = errors.New("transport error")
	ErrMalformed = errors.New("malformed response")
)

const (
	DefaultConcurrency  = 10
	DefaultFetchTimeout = 2 * time.Second
)

// Client talks to a PyPI-compatible index. All descriptor fetches
// share a single semaphore so that the number of in-flight requests
// never exceeds the configured concurrency.
type Client struct {
	baseURL string
	sem     *semaphore.Weighted
	timeout time.Duration
	client  *http.Client
}

func NewClient(baseURL string, concurrency int64, timeout time.Duration) *Client {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Client{
		baseURL: baseURL,
		sem:     semaphore.NewWeighted(concurrency),
		timeout: timeout,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: int(concurrency),
				MaxIdleConns:        int(concurrency) * 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Descriptor fetches the raw descriptor for a single package. It blocks
// until a fetch permit is available and releases it when the request
// completes, success or not.
func (c *Client) Descriptor(ctx context.Context, name string) (*Descriptor, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("pkg", name)

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring fetch permit: %w", err)
	}
	defer c.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log.V(2).Info("fetching descriptor")
	var desc Descriptor
	err := requests.URL(c.baseURL).
		Pathf("/pypi/%s/json", name).
		Client(c.client).
		Handle(requestutil.ToJSON(&desc)).
		Fetch(ctx)
	if err != nil {
		log.V(1).Info("descriptor fetch failed", "err", err)
		return nil, classify(err)
	}
	return &desc, nil
}

// classify maps a transport-level failure onto the fetch error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case requests.HasStatusErr(err, http.StatusNotFound):
		return ErrNotFound
	case errors.Is(err, requests.ErrHandler):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
