package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/helixbill/denialflow/internal/model"
)

// DefaultBatchConcurrency bounds how many denial pipelines run at once when no
// explicit limit is configured.
const DefaultBatchConcurrency = 4

// BatchOptions configures a batch run.
type BatchOptions struct {
	// OnDone is invoked after each case finishes, successfully or not.
	// Called from worker goroutines; implementations must be safe for
	// concurrent use.
	OnDone func(item BatchItem)

	// Concurrency is the maximum number of cases processed in parallel.
	Concurrency int
}

// BatchItem pairs one input case with its result or error.
type BatchItem struct {
	Result *Result
	Err    error
	Case   model.DenialCase
	Index  int
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	Items     []BatchItem
	Processed int
	Resolved  int
	Escalated int
	Failed    int
	Rejected  int
}

// ProcessBatch runs each denial case through the pipeline with bounded
// concurrency. Individual failures are recorded per item and never abort the
// rest of the batch; the returned error reports context cancellation only.
func (o *Orchestrator) ProcessBatch(ctx context.Context, denials []model.DenialCase, opts BatchOptions) (*BatchSummary, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultBatchConcurrency
	}

	items := make([]BatchItem, len(denials))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, denial := range denials {
		i, denial := i, denial
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := o.ProcessDenial(gctx, denial)
			item := BatchItem{Index: i, Case: denial, Result: result, Err: err}

			mu.Lock()
			items[i] = item
			mu.Unlock()

			if opts.OnDone != nil {
				opts.OnDone(item)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &BatchSummary{Items: items}
	for _, item := range items {
		switch {
		case item.Err != nil && item.Result == nil:
			summary.Rejected++
		case item.Err != nil:
			summary.Failed++
		case item.Result.Status == model.StatusResolved:
			summary.Resolved++
			summary.Processed++
		case item.Result.Status == model.StatusEscalated:
			summary.Escalated++
			summary.Processed++
		default:
			summary.Failed++
		}
	}
	return summary, nil
}
