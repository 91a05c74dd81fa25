package mirror

import (
	"context"

	"github.com/packfetch/pypi-mirror/pkg/index"
)

// Fetcher retrieves the raw descriptor for a single package.
type Fetcher interface {
	Descriptor(ctx context.Context, name string) (*index.Descriptor, error)
}

// Lister enumerates every package the upstream index knows about.
type Lister interface {
	ListProjects(ctx context.Context) ([]string, error)
}

// ChangeFeed lists change events recorded since a cursor, oldest first.
type ChangeFeed interface {
	ChangedSince(ctx context.Context, since int64) ([]index.Change, error)
}

// Sink receives the finished data tree once a batch completes.
type Sink interface {
	Commit(ctx context.Context, root string) error
}
