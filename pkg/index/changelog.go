package index

import (
	"context"
	"fmt"
	"strconv"

	"github.com/carlmjohnson/requests"
	"github.com/go-logr/logr"

	"github.com/packfetch/pypi-mirror/pkg/requestutil"
)

// ChangedSince returns the change events recorded by the index after
// the given watermark, oldest first.
func (c *Client) ChangedSince(ctx context.Context, since int64) ([]Change, error) {
	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("fetching changelog", "since", since)

	var changes []Change
	err := requests.URL(c.baseURL).
		Path("/changelog").
		Param("since", strconv.FormatInt(since, 10)).
		Client(c.client).
		Handle(requestutil.ToJSON(&changes)).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching changelog: %w", classify(err))
	}
	log.V(1).Info("fetched changelog", "count", len(changes))
	return changes, nil
}
