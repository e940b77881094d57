package moderation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/citypages/sentinel/internal/core"
)

// DefaultBatchConcurrency caps the number of simultaneous in-flight
// classification calls during batch moderation. The cap protects the
// remote endpoint from bursts of newly submitted content; the single-item
// path is synchronous and unbounded per request.
const DefaultBatchConcurrency = 2

// BatchItem pairs one piece of content with its type for batch
// classification.
type BatchItem struct {
	Content  string        `json:"content"`
	ItemType core.ItemType `json:"content_type"`
}

// ModerateBatch classifies every item with at most batchLimit calls in
// flight. Verdicts are returned in input order; completion order is
// irrelevant because each worker writes to its own slot.
func (s *Service) ModerateBatch(ctx context.Context, items []BatchItem) []core.Verdict {
	verdicts := make([]core.Verdict, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)

	for i, item := range items {
		g.Go(func() error {
			verdicts[i] = s.classifier.Classify(ctx, item.Content, item.ItemType)
			return nil
		})
	}

	// Workers never return errors: Classify fails open.
	_ = g.Wait()
	return verdicts
}
