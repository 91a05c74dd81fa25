package mirror

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/packfetch/pypi-mirror/pkg/record"
	"github.com/packfetch/pypi-mirror/pkg/sharded"
)

// DefaultChunkSize bounds how many package tasks are launched at once.
// The fetch semaphore caps in-flight requests independently; chunking
// only keeps the goroutine count proportional to the chunk, not the
// whole candidate list.
const DefaultChunkSize = 100

// Batch drives the fetch, extract, write pipeline over a candidate
// list. Every package runs as its own task and failures never
// propagate beyond the package they belong to.
type Batch struct {
	fetcher   Fetcher
	writer    *sharded.Writer
	chunkSize int
}

func NewBatch(fetcher Fetcher, writer *sharded.Writer, chunkSize int) *Batch {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Batch{
		fetcher:   fetcher,
		writer:    writer,
		chunkSize: chunkSize,
	}
}

// Run processes every named package and reports the tally. Completion
// order across packages is unspecified; within one package fetch,
// extract and write are strictly sequential.
func (b *Batch) Run(ctx context.Context, names []string) Summary {
	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("running batch", "count", len(names), "chunkSize", b.chunkSize)

	var mu sync.Mutex
	summary := Summary{Reasons: map[Reason]int{}}

	for chunk := range slices.Chunk(names, b.chunkSize) {
		g, gctx := errgroup.WithContext(ctx)
		for _, name := range chunk {
			g.Go(func() error {
				if err := b.processOne(gctx, name); err != nil {
					reason := reasonFor(err)
					log.Info("skipping package", "pkg", name, "reason", reason, "err", err.Error())
					mu.Lock()
					summary.Skipped++
					summary.Reasons[reason]++
					mu.Unlock()
					// swallowed so sibling tasks keep going
					return nil
				}
				mu.Lock()
				summary.Written++
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	log.Info("batch complete", "summary", summary.String())
	return summary
}

func (b *Batch) processOne(ctx context.Context, name string) error {
	desc, err := b.fetcher.Descriptor(ctx, name)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", name, err)
	}
	rec, err := record.Extract(desc)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", name, err)
	}
	if _, err := b.writer.Write(ctx, record.Name(desc), rec); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
