package release

import (
	"context"
	"fmt"

	"github.com/ariel-frischer/convlog/internal/commit"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of windows fetched at once.
const DefaultConcurrency = 4

// CommitSource supplies the raw commits of a range. An empty from means the
// range starts at the beginning of history. An empty result is valid and
// means "no changes"; an invalid range must be reported as an error.
type CommitSource interface {
	Commits(ctx context.Context, from, to string) ([]commit.Raw, error)
}

// Bucket is a window together with the raw commits it contains.
type Bucket struct {
	Window  Window
	Commits []commit.Raw
}

// Collect fetches the commits of every window and drops windows without
// commits. Window order is preserved. Fetches run concurrently, bounded by
// concurrency; the first failure cancels the remaining fetches and aborts
// the whole run.
func Collect(ctx context.Context, source CommitSource, windows []Window, concurrency int) ([]Bucket, error) {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	results := make([][]commit.Raw, len(windows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, w := range windows {
		g.Go(func() error {
			raws, err := source.Commits(ctx, w.From, w.To)
			if err != nil {
				return fmt.Errorf("fetching commits for %s: %w", w.Range(), err)
			}
			logDebug("[release] window %s: %d commits", w.Range(), len(raws))
			results[i] = raws
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	buckets := make([]Bucket, 0, len(windows))
	for i, w := range windows {
		if len(results[i]) == 0 {
			logDebug("[release] dropping empty window %s", w.Range())
			continue
		}
		buckets = append(buckets, Bucket{Window: w, Commits: results[i]})
	}

	return buckets, nil
}
