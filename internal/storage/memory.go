package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/citypages/sentinel/internal/core"
)

// MemoryStore is an in-memory Store with the same semantics as the
// Postgres implementation. It backs tests and local runs without a
// database.
type MemoryStore struct {
	mu         sync.Mutex
	nextItemID int64
	nextBizID  int64
	items      map[int64]*core.ReviewQueueItem
	businesses map[int64]*core.Business
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:      make(map[int64]*core.ReviewQueueItem),
		businesses: make(map[int64]*core.Business),
	}
}

func (s *MemoryStore) CreateReviewQueueItem(_ context.Context, itemType core.ItemType, itemID int64, flags []string, aiScore int, aiReasoning string) (*core.ReviewQueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextItemID++
	item := &core.ReviewQueueItem{
		ID:          s.nextItemID,
		ItemType:    itemType,
		ItemID:      itemID,
		Flags:       append([]string{}, flags...),
		AIScore:     aiScore,
		AIReasoning: aiReasoning,
		Status:      core.StatusPending,
		CreatedAt:   time.Now(),
	}
	s.items[item.ID] = item
	return copyItem(item), nil
}

func (s *MemoryStore) ListReviewQueueItems(_ context.Context, status core.ReviewStatus) ([]core.ReviewQueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]core.ReviewQueueItem, 0, len(s.items))
	for _, item := range s.items {
		if status != "" && item.Status != status {
			continue
		}
		items = append(items, *copyItem(item))
	}
	// Newest first; IDs break ties for items created within the same tick.
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *MemoryStore) ResolveReviewQueueItem(_ context.Context, id int64, status core.ReviewStatus, reviewedBy, reviewNotes string) (*core.ReviewQueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}

	// No pending guard: a repeated resolution overwrites the previous one.
	now := time.Now()
	item.Status = status
	item.ReviewedBy = &reviewedBy
	item.ReviewedAt = &now
	if reviewNotes != "" {
		item.ReviewNotes = &reviewNotes
	} else {
		item.ReviewNotes = nil
	}
	return copyItem(item), nil
}

func (s *MemoryStore) CreatePendingBusiness(_ context.Context, b *core.Business) (*core.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBizID++
	stored := *b
	stored.ID = s.nextBizID
	stored.Published = false
	stored.PublishedAt = nil
	stored.CreatedAt = time.Now()
	s.businesses[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (s *MemoryStore) GetPendingBusiness(_ context.Context, id int64) (*core.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.businesses[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *b
	return &out, nil
}

func (s *MemoryStore) PublishPendingBusiness(_ context.Context, id int64) (*core.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.businesses[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := time.Now()
	b.Published = true
	b.PublishedAt = &now
	out := *b
	return &out, nil
}

func copyItem(item *core.ReviewQueueItem) *core.ReviewQueueItem {
	out := *item
	out.Flags = append([]string{}, item.Flags...)
	if item.ReviewedBy != nil {
		v := *item.ReviewedBy
		out.ReviewedBy = &v
	}
	if item.ReviewNotes != nil {
		v := *item.ReviewNotes
		out.ReviewNotes = &v
	}
	if item.ReviewedAt != nil {
		v := *item.ReviewedAt
		out.ReviewedAt = &v
	}
	return &out
}
