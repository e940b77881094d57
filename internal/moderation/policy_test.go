package moderation

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/citypages/sentinel/internal/core"
	"github.com/citypages/sentinel/internal/storage"
)

// stubClassifier returns a fixed verdict/result and records the content it
// was asked to classify.
type stubClassifier struct {
	mu       sync.Mutex
	contents []string
	types    []core.ItemType

	verdict    core.Verdict
	validation core.ValidationResult
}

func (s *stubClassifier) Classify(_ context.Context, content string, itemType core.ItemType) core.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents = append(s.contents, content)
	s.types = append(s.types, itemType)
	return s.verdict
}

func (s *stubClassifier) ValidateListing(_ context.Context, _ *core.Business) core.ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validation
}

func (s *stubClassifier) lastContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.contents) == 0 {
		return ""
	}
	return s.contents[len(s.contents)-1]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(c *stubClassifier, store storage.Store) *Service {
	return NewService(c, store, DefaultConfidenceThreshold, DefaultBatchConcurrency, discardLogger())
}

func TestModerate_ThresholdGating(t *testing.T) {
	tests := []struct {
		name      string
		verdict   core.Verdict
		wantQueue int
	}{
		{
			name:      "flagged at threshold is enqueued",
			verdict:   core.Verdict{IsFlagged: true, ConfidenceScore: 70, Categories: []string{"spam"}},
			wantQueue: 1,
		},
		{
			name:      "flagged above threshold is enqueued",
			verdict:   core.Verdict{IsFlagged: true, Reason: "spammy", ConfidenceScore: 85, Categories: []string{"spam"}},
			wantQueue: 1,
		},
		{
			name:      "flagged below threshold is not enqueued",
			verdict:   core.Verdict{IsFlagged: true, ConfidenceScore: 69, Categories: []string{"spam"}},
			wantQueue: 0,
		},
		{
			name:      "unflagged with high score is not enqueued",
			verdict:   core.Verdict{IsFlagged: false, ConfidenceScore: 99},
			wantQueue: 0,
		},
		{
			name:      "fail-open default is not enqueued",
			verdict:   core.SafeVerdict(),
			wantQueue: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			svc := newTestService(&stubClassifier{verdict: tt.verdict}, store)

			if err := svc.ModeratePost(context.Background(), &core.Post{ID: 42, Content: "hello"}); err != nil {
				t.Fatalf("ModeratePost() error = %v", err)
			}

			items, err := store.ListReviewQueueItems(context.Background(), "")
			if err != nil {
				t.Fatalf("ListReviewQueueItems() error = %v", err)
			}
			if len(items) != tt.wantQueue {
				t.Fatalf("queue length = %d, want %d", len(items), tt.wantQueue)
			}
			if tt.wantQueue == 1 {
				item := items[0]
				if item.ItemType != core.ItemTypePost || item.ItemID != 42 {
					t.Errorf("item = %s/%d, want post/42", item.ItemType, item.ItemID)
				}
				if item.Status != core.StatusPending {
					t.Errorf("status = %s, want pending", item.Status)
				}
				if item.AIScore != tt.verdict.ConfidenceScore {
					t.Errorf("score = %d, want %d", item.AIScore, tt.verdict.ConfidenceScore)
				}
			}
		})
	}
}

func TestModerateArticle_ContentAssembly(t *testing.T) {
	c := &stubClassifier{}
	svc := newTestService(c, storage.NewMemoryStore())

	a := &core.Article{
		ID:      1,
		Title:   "Best Coffee in Town",
		Excerpt: "A roundup of local roasters.",
		Content: "We visited twelve cafes...",
	}
	if err := svc.ModerateArticle(context.Background(), a); err != nil {
		t.Fatalf("ModerateArticle() error = %v", err)
	}

	want := "Title: Best Coffee in Town\n\nExcerpt: A roundup of local roasters.\n\nContent: We visited twelve cafes..."
	if got := c.lastContent(); got != want {
		t.Errorf("classified content = %q, want %q", got, want)
	}
}

func TestModerateHowTo_ContentAssembly(t *testing.T) {
	c := &stubClassifier{}
	svc := newTestService(c, storage.NewMemoryStore())

	h := &core.HowTo{
		ID:          2,
		Title:       "Fix a Flat Tire",
		Description: "Roadside basics.",
		Steps: []core.HowToStep{
			{Title: "Loosen the nuts", Description: "Before jacking up the car."},
			{Title: "Jack it up", Description: "Use the frame point."},
		},
	}
	if err := svc.ModerateHowTo(context.Background(), h); err != nil {
		t.Fatalf("ModerateHowTo() error = %v", err)
	}

	want := "Title: Fix a Flat Tire\n\nDescription: Roadside basics.\n\nSteps:" +
		"\nStep 1: Loosen the nuts\nBefore jacking up the car." +
		"\nStep 2: Jack it up\nUse the frame point."
	if got := c.lastContent(); got != want {
		t.Errorf("classified content = %q, want %q", got, want)
	}
}

func TestModeratePost_ContentVerbatim(t *testing.T) {
	c := &stubClassifier{}
	svc := newTestService(c, storage.NewMemoryStore())

	if err := svc.ModeratePost(context.Background(), &core.Post{ID: 3, Content: "raw post body"}); err != nil {
		t.Fatalf("ModeratePost() error = %v", err)
	}
	if got := c.lastContent(); got != "raw post body" {
		t.Errorf("classified content = %q, want the post body verbatim", got)
	}
}

func TestValidatePendingBusiness_EnqueuesFailedValidation(t *testing.T) {
	store := storage.NewMemoryStore()
	c := &stubClassifier{
		validation: core.ValidationResult{
			IsValid:         false,
			Issues:          []string{"location is vague", "description is empty"},
			ConfidenceScore: 80,
		},
	}
	svc := newTestService(c, store)

	result, err := svc.ValidatePendingBusiness(context.Background(), &core.Business{ID: 9, Name: "Mystery Shop", Location: "around"})
	if err != nil {
		t.Fatalf("ValidatePendingBusiness() error = %v", err)
	}
	if result.IsValid {
		t.Error("expected the classifier result to be returned as-is")
	}

	items, err := store.ListReviewQueueItems(context.Background(), core.StatusPending)
	if err != nil {
		t.Fatalf("ListReviewQueueItems() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("queue length = %d, want 1", len(items))
	}
	item := items[0]
	if item.ItemType != core.ItemTypeBusiness || item.ItemID != 9 {
		t.Errorf("item = %s/%d, want business/9", item.ItemType, item.ItemID)
	}
	if len(item.Flags) != 1 || item.Flags[0] != ValidationFailedFlag {
		t.Errorf("flags = %v, want [%s]", item.Flags, ValidationFailedFlag)
	}
	if item.AIReasoning != "location is vague; description is empty" {
		t.Errorf("reasoning = %q, want issues joined with %q", item.AIReasoning, "; ")
	}
}

func TestValidatePendingBusiness_BelowThresholdSkipsQueue(t *testing.T) {
	store := storage.NewMemoryStore()
	c := &stubClassifier{
		validation: core.ValidationResult{IsValid: false, Issues: []string{"minor issue"}, ConfidenceScore: 40},
	}
	svc := newTestService(c, store)

	result, err := svc.ValidatePendingBusiness(context.Background(), &core.Business{ID: 5, Name: "Corner Bakery", Location: "12 Main St"})
	if err != nil {
		t.Fatalf("ValidatePendingBusiness() error = %v", err)
	}
	if result.IsValid {
		t.Error("result should still carry the classifier's view")
	}

	items, _ := store.ListReviewQueueItems(context.Background(), "")
	if len(items) != 0 {
		t.Errorf("queue length = %d, want 0", len(items))
	}
}

func TestModerationLifecycle(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	c := &stubClassifier{
		verdict: core.Verdict{IsFlagged: true, Reason: "reads like an ad", ConfidenceScore: 85, Categories: []string{"spam"}},
	}
	svc := newTestService(c, store)

	a := &core.Article{ID: 11, Title: "AMAZING DEALS", Excerpt: "deals", Content: "buy buy buy"}
	if err := svc.ModerateArticle(ctx, a); err != nil {
		t.Fatalf("ModerateArticle() error = %v", err)
	}

	pending, err := store.ListReviewQueueItems(ctx, core.StatusPending)
	if err != nil {
		t.Fatalf("ListReviewQueueItems() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending length = %d, want 1", len(pending))
	}
	queued := pending[0]
	if queued.AIScore != 85 || len(queued.Flags) != 1 || queued.Flags[0] != "spam" {
		t.Fatalf("queued item = %+v, want score 85 and flags [spam]", queued)
	}

	resolved, err := store.ResolveReviewQueueItem(ctx, queued.ID, core.StatusApproved, "admin@citypages", "looks fine actually")
	if err != nil {
		t.Fatalf("ResolveReviewQueueItem() error = %v", err)
	}
	if resolved.Status != core.StatusApproved {
		t.Errorf("status = %s, want approved", resolved.Status)
	}
	if resolved.ReviewedBy == nil || *resolved.ReviewedBy != "admin@citypages" {
		t.Errorf("reviewed_by = %v, want admin@citypages", resolved.ReviewedBy)
	}
	if resolved.ReviewNotes == nil || *resolved.ReviewNotes != "looks fine actually" {
		t.Errorf("review_notes = %v, want looks fine actually", resolved.ReviewNotes)
	}
	if resolved.ReviewedAt == nil {
		t.Error("reviewed_at must be set after resolution")
	}
	if !resolved.CreatedAt.Equal(queued.CreatedAt) {
		t.Error("created_at must not change on resolution")
	}

	if remaining, _ := store.ListReviewQueueItems(ctx, core.StatusPending); len(remaining) != 0 {
		t.Errorf("pending after approval = %d, want 0", len(remaining))
	}
	if all, _ := store.ListReviewQueueItems(ctx, ""); len(all) != 1 {
		t.Errorf("total after approval = %d, want 1 (items are never deleted)", len(all))
	}
}
