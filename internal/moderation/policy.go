// Package moderation applies the platform's screening policy to newly
// created content: it assembles the text to classify, invokes the
// classifier once per entity, and enqueues a review item when the verdict
// clears the confidence threshold.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/citypages/sentinel/internal/classifier"
	"github.com/citypages/sentinel/internal/core"
	"github.com/citypages/sentinel/internal/storage"
)

// DefaultConfidenceThreshold is the cutoff above which a flagged verdict
// escalates to human review. Sub-threshold or unflagged content is
// implicitly auto-approved by omission.
const DefaultConfidenceThreshold = 70

// ValidationFailedFlag marks queue items created by the business
// validation path.
const ValidationFailedFlag = "validation_failed"

// Service is the moderation policy layer. It performs no retries and no
// error suppression of its own: the classifier's fail-open contract
// handles outages, and storage errors from the enqueue propagate to the
// caller.
type Service struct {
	classifier classifier.Client
	store      storage.Store
	threshold  int
	batchLimit int
	logger     *slog.Logger
}

// NewService creates a moderation Service. Non-positive threshold or
// batch limit fall back to the defaults (70, 2).
func NewService(c classifier.Client, store storage.Store, threshold, batchLimit int, logger *slog.Logger) *Service {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	if batchLimit <= 0 {
		batchLimit = DefaultBatchConcurrency
	}
	return &Service{
		classifier: c,
		store:      store,
		threshold:  threshold,
		batchLimit: batchLimit,
		logger:     logger,
	}
}

// ModerateArticle screens a newly created article.
func (s *Service) ModerateArticle(ctx context.Context, a *core.Article) error {
	return s.moderate(ctx, core.ItemTypeArticle, a.ID, buildArticleContent(a))
}

// ModerateHowTo screens a newly created how-to guide.
func (s *Service) ModerateHowTo(ctx context.Context, h *core.HowTo) error {
	return s.moderate(ctx, core.ItemTypeHowTo, h.ID, buildHowToContent(h))
}

// ModeratePost screens a newly created forum post.
func (s *Service) ModeratePost(ctx context.Context, p *core.Post) error {
	return s.moderate(ctx, core.ItemTypePost, p.ID, buildPostContent(p))
}

func (s *Service) moderate(ctx context.Context, itemType core.ItemType, itemID int64, content string) error {
	verdict := s.classifier.Classify(ctx, content, itemType)

	if !verdict.IsFlagged || verdict.ConfidenceScore < s.threshold {
		return nil
	}

	item, err := s.store.CreateReviewQueueItem(ctx, itemType, itemID, verdict.Categories, verdict.ConfidenceScore, verdict.Reason)
	if err != nil {
		return fmt.Errorf("failed to enqueue flagged %s %d: %w", itemType, itemID, err)
	}

	s.logger.Info("content flagged for review",
		"queue_id", item.ID,
		"item_type", itemType,
		"item_id", itemID,
		"score", verdict.ConfidenceScore,
		"categories", verdict.Categories,
	)
	return nil
}

// ValidatePendingBusiness validates a submitted listing. The validation
// result is returned to the caller regardless of whether a review item
// was written: the admin-facing queue entry and the submitter-facing
// feedback are decoupled.
func (s *Service) ValidatePendingBusiness(ctx context.Context, b *core.Business) (core.ValidationResult, error) {
	result := s.classifier.ValidateListing(ctx, b)

	if !result.IsValid && result.ConfidenceScore >= s.threshold {
		reasoning := strings.Join(result.Issues, "; ")
		item, err := s.store.CreateReviewQueueItem(ctx, core.ItemTypeBusiness, b.ID, []string{ValidationFailedFlag}, result.ConfidenceScore, reasoning)
		if err != nil {
			return result, fmt.Errorf("failed to enqueue failed business validation %d: %w", b.ID, err)
		}
		s.logger.Info("business listing flagged for review",
			"queue_id", item.ID,
			"business_id", b.ID,
			"score", result.ConfidenceScore,
		)
	}

	return result, nil
}

// buildArticleContent concatenates an article's textual fields into the
// string handed to the classifier.
func buildArticleContent(a *core.Article) string {
	return fmt.Sprintf("Title: %s\n\nExcerpt: %s\n\nContent: %s", a.Title, a.Excerpt, a.Content)
}

func buildHowToContent(h *core.HowTo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n\nDescription: %s\n\nSteps:", h.Title, h.Description)
	for i, step := range h.Steps {
		fmt.Fprintf(&b, "\nStep %d: %s\n%s", i+1, step.Title, step.Description)
	}
	return b.String()
}

func buildPostContent(p *core.Post) string {
	return p.Content
}
