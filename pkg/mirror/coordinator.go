package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Coordinator owns the run watermark and the discovery collaborators.
// It invokes the batch exactly once per run and only advances the
// cursor after the batch has returned, so a crash mid-batch leaves the
// previous candidate set intact for the next run.
type Coordinator struct {
	lister Lister
	feed   ChangeFeed
	batch  *Batch
	sink   Sink
	root   string
}

func NewCoordinator(lister Lister, feed ChangeFeed, batch *Batch, sink Sink, root string) *Coordinator {
	return &Coordinator{
		lister: lister,
		feed:   feed,
		batch:  batch,
		sink:   sink,
		root:   root,
	}
}

// Mirror runs a full pass over every project in the index. The cursor
// is taken before listing so changes that land during the run are
// picked up again by the next update.
func (c *Coordinator) Mirror(ctx context.Context) (Summary, error) {
	ctx = c.runContext(ctx)

	cursor := time.Now().Unix()
	names, err := c.lister.ListProjects(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("listing projects: %w", err)
	}

	summary := c.batch.Run(ctx, names)
	if err := c.finish(ctx, cursor); err != nil {
		return summary, err
	}
	return summary, nil
}

// Update mirrors only the packages that changed since the stored
// cursor. With no stored cursor it falls back to a full mirror.
func (c *Coordinator) Update(ctx context.Context) (Summary, error) {
	ctx = c.runContext(ctx)
	log := logr.FromContextOrDiscard(ctx)

	since, err := LoadCursor(c.root)
	if err != nil {
		return Summary{}, err
	}
	if since == 0 {
		log.Info("no stored cursor, running a full mirror")
		return c.Mirror(ctx)
	}

	changes, err := c.feed.ChangedSince(ctx, since)
	if err != nil {
		return Summary{}, err
	}
	if len(changes) == 0 {
		log.Info("index unchanged", "since", since)
		return Summary{}, nil
	}

	// dedupe while keeping first-seen order
	seen := map[string]bool{}
	var names []string
	for _, ch := range changes {
		if seen[ch.Name] {
			continue
		}
		seen[ch.Name] = true
		names = append(names, ch.Name)
	}
	cursor := changes[len(changes)-1].Timestamp
	log.Info("updating changed packages", "count", len(names), "since", since)

	summary := c.batch.Run(ctx, names)
	if err := c.finish(ctx, cursor); err != nil {
		return summary, err
	}
	return summary, nil
}

// finish persists the new cursor and hands the tree to the sink. It
// runs after the batch regardless of how many packages were skipped.
func (c *Coordinator) finish(ctx context.Context, cursor int64) error {
	if err := SaveCursor(c.root, cursor); err != nil {
		return err
	}
	if c.sink == nil {
		return nil
	}
	if err := c.sink.Commit(ctx, c.root); err != nil {
		return fmt.Errorf("committing data tree: %w", err)
	}
	return nil
}

func (c *Coordinator) runContext(ctx context.Context) context.Context {
	log := logr.FromContextOrDiscard(ctx).WithValues("run", uuid.NewString())
	return logr.NewContext(ctx, log)
}
