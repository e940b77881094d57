package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/citypages/sentinel/internal/core"
)

func TestMemoryStore_CreateAndListReviewQueueItems(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.CreateReviewQueueItem(ctx, core.ItemTypeArticle, 100, []string{"spam"}, 85, "reads like an ad")
	if err != nil {
		t.Fatalf("CreateReviewQueueItem() error = %v", err)
	}
	if first.Status != core.StatusPending {
		t.Errorf("status = %s, want pending", first.Status)
	}
	if first.CreatedAt.IsZero() {
		t.Error("created_at must be set")
	}
	if first.ReviewedBy != nil || first.ReviewNotes != nil || first.ReviewedAt != nil {
		t.Error("review fields must be empty on a fresh item")
	}

	second, err := s.CreateReviewQueueItem(ctx, core.ItemTypePost, 200, []string{"harassment"}, 92, "targets a user")
	if err != nil {
		t.Fatalf("CreateReviewQueueItem() error = %v", err)
	}

	items, err := s.ListReviewQueueItems(ctx, "")
	if err != nil {
		t.Fatalf("ListReviewQueueItems() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("length = %d, want 2", len(items))
	}
	// Newest first.
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("order = [%d %d], want [%d %d]", items[0].ID, items[1].ID, second.ID, first.ID)
	}
}

func TestMemoryStore_ListFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a, _ := s.CreateReviewQueueItem(ctx, core.ItemTypePost, 1, []string{"spam"}, 75, "")
	b, _ := s.CreateReviewQueueItem(ctx, core.ItemTypePost, 2, []string{"spam"}, 80, "")

	if _, err := s.ResolveReviewQueueItem(ctx, a.ID, core.StatusRejected, "mod", ""); err != nil {
		t.Fatalf("ResolveReviewQueueItem() error = %v", err)
	}

	pending, err := s.ListReviewQueueItems(ctx, core.StatusPending)
	if err != nil {
		t.Fatalf("ListReviewQueueItems() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Errorf("pending = %v, want only item %d", pending, b.ID)
	}

	rejected, err := s.ListReviewQueueItems(ctx, core.StatusRejected)
	if err != nil {
		t.Fatalf("ListReviewQueueItems() error = %v", err)
	}
	if len(rejected) != 1 || rejected[0].ID != a.ID {
		t.Errorf("rejected = %v, want only item %d", rejected, a.ID)
	}
}

func TestMemoryStore_ResolveReviewQueueItem(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, _ := s.CreateReviewQueueItem(ctx, core.ItemTypeHowTo, 7, []string{"misinformation"}, 77, "dubious claims")

	resolved, err := s.ResolveReviewQueueItem(ctx, created.ID, core.StatusApproved, "admin", "verified the sources")
	if err != nil {
		t.Fatalf("ResolveReviewQueueItem() error = %v", err)
	}
	if resolved.Status != core.StatusApproved {
		t.Errorf("status = %s, want approved", resolved.Status)
	}
	if resolved.ReviewedBy == nil || *resolved.ReviewedBy != "admin" {
		t.Errorf("reviewed_by = %v, want admin", resolved.ReviewedBy)
	}
	if resolved.ReviewNotes == nil || *resolved.ReviewNotes != "verified the sources" {
		t.Errorf("review_notes = %v, want verified the sources", resolved.ReviewNotes)
	}
	if resolved.ReviewedAt == nil {
		t.Error("reviewed_at must be set")
	}
	if !resolved.CreatedAt.Equal(created.CreatedAt) {
		t.Error("created_at must not change on resolution")
	}
	if resolved.AIScore != 77 || resolved.AIReasoning != "dubious claims" {
		t.Error("AI fields must survive resolution unchanged")
	}
}

func TestMemoryStore_ResolveWithoutNotes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, _ := s.CreateReviewQueueItem(ctx, core.ItemTypePost, 1, nil, 70, "")
	resolved, err := s.ResolveReviewQueueItem(ctx, created.ID, core.StatusRejected, "mod", "")
	if err != nil {
		t.Fatalf("ResolveReviewQueueItem() error = %v", err)
	}
	if resolved.ReviewNotes != nil {
		t.Errorf("review_notes = %v, want nil for empty notes", resolved.ReviewNotes)
	}
}

func TestMemoryStore_RepeatedResolutionOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, _ := s.CreateReviewQueueItem(ctx, core.ItemTypePost, 1, []string{"spam"}, 90, "")

	if _, err := s.ResolveReviewQueueItem(ctx, created.ID, core.StatusApproved, "first-admin", "ok"); err != nil {
		t.Fatalf("first resolution error = %v", err)
	}
	second, err := s.ResolveReviewQueueItem(ctx, created.ID, core.StatusRejected, "second-admin", "on closer look, no")
	if err != nil {
		t.Fatalf("second resolution error = %v", err)
	}
	if second.Status != core.StatusRejected {
		t.Errorf("status = %s, want rejected (last write wins)", second.Status)
	}
	if second.ReviewedBy == nil || *second.ReviewedBy != "second-admin" {
		t.Errorf("reviewed_by = %v, want second-admin", second.ReviewedBy)
	}
}

func TestMemoryStore_ResolveUnknownItem(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.ResolveReviewQueueItem(context.Background(), 999, core.StatusApproved, "admin", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_PendingBusinessLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.CreatePendingBusiness(ctx, &core.Business{
		Name:     "Corner Bakery",
		Category: "Food",
		Location: "12 Main St",
	})
	if err != nil {
		t.Fatalf("CreatePendingBusiness() error = %v", err)
	}
	if created.ID == 0 {
		t.Error("created business must get an id")
	}
	if created.Published || created.PublishedAt != nil {
		t.Error("a new listing must start unpublished")
	}

	fetched, err := s.GetPendingBusiness(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetPendingBusiness() error = %v", err)
	}
	if fetched.Name != "Corner Bakery" {
		t.Errorf("name = %q, want Corner Bakery", fetched.Name)
	}

	published, err := s.PublishPendingBusiness(ctx, created.ID)
	if err != nil {
		t.Fatalf("PublishPendingBusiness() error = %v", err)
	}
	if !published.Published || published.PublishedAt == nil {
		t.Error("published listing must carry the publish flag and timestamp")
	}
	if published.PublishedAt != nil && time.Since(*published.PublishedAt) > time.Minute {
		t.Error("published_at should be recent")
	}

	if _, err := s.PublishPendingBusiness(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for unknown listing", err)
	}
}

func TestMemoryStore_CopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, _ := s.CreateReviewQueueItem(ctx, core.ItemTypePost, 1, []string{"spam"}, 70, "")
	created.Flags[0] = "mutated"
	created.Status = core.StatusApproved

	items, _ := s.ListReviewQueueItems(ctx, "")
	if items[0].Flags[0] != "spam" || items[0].Status != core.StatusPending {
		t.Error("mutating a returned item must not affect the stored one")
	}
}
