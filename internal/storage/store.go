// Package storage persists the review queue and pending business listings.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/citypages/sentinel/internal/core"
)

// ErrNotFound is returned when a queue item or pending business does not
// exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations of the
// moderation subsystem.
//
// ResolveReviewQueueItem deliberately carries no pending-status guard: a
// second resolution of the same item overwrites the first (last write
// wins). Admin workflows rely on re-clicking being harmless.
type Store interface {
	CreateReviewQueueItem(ctx context.Context, itemType core.ItemType, itemID int64, flags []string, aiScore int, aiReasoning string) (*core.ReviewQueueItem, error)
	// ListReviewQueueItems returns items newest-first; an empty status
	// returns all items.
	ListReviewQueueItems(ctx context.Context, status core.ReviewStatus) ([]core.ReviewQueueItem, error)
	ResolveReviewQueueItem(ctx context.Context, id int64, status core.ReviewStatus, reviewedBy, reviewNotes string) (*core.ReviewQueueItem, error)

	CreatePendingBusiness(ctx context.Context, b *core.Business) (*core.Business, error)
	GetPendingBusiness(ctx context.Context, id int64) (*core.Business, error)
	PublishPendingBusiness(ctx context.Context, id int64) (*core.Business, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a Postgres-backed Store.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

const reviewQueueColumns = `id, item_type, item_id, flags, ai_score, ai_reasoning, status, reviewed_by, review_notes, created_at, reviewed_at`

type reviewQueueRow struct {
	ID          int64          `db:"id"`
	ItemType    string         `db:"item_type"`
	ItemID      int64          `db:"item_id"`
	Flags       pq.StringArray `db:"flags"`
	AIScore     int            `db:"ai_score"`
	AIReasoning string         `db:"ai_reasoning"`
	Status      string         `db:"status"`
	ReviewedBy  sql.NullString `db:"reviewed_by"`
	ReviewNotes sql.NullString `db:"review_notes"`
	CreatedAt   time.Time      `db:"created_at"`
	ReviewedAt  sql.NullTime   `db:"reviewed_at"`
}

func (r *reviewQueueRow) toItem() *core.ReviewQueueItem {
	item := &core.ReviewQueueItem{
		ID:          r.ID,
		ItemType:    core.ItemType(r.ItemType),
		ItemID:      r.ItemID,
		Flags:       []string(r.Flags),
		AIScore:     r.AIScore,
		AIReasoning: r.AIReasoning,
		Status:      core.ReviewStatus(r.Status),
		CreatedAt:   r.CreatedAt,
	}
	if item.Flags == nil {
		item.Flags = []string{}
	}
	if r.ReviewedBy.Valid {
		item.ReviewedBy = &r.ReviewedBy.String
	}
	if r.ReviewNotes.Valid {
		item.ReviewNotes = &r.ReviewNotes.String
	}
	if r.ReviewedAt.Valid {
		item.ReviewedAt = &r.ReviewedAt.Time
	}
	return item
}

// CreateReviewQueueItem inserts a new pending item. It never merges with
// an existing pending item for the same entity; re-moderating an entity
// produces another row.
func (s *postgresStore) CreateReviewQueueItem(ctx context.Context, itemType core.ItemType, itemID int64, flags []string, aiScore int, aiReasoning string) (*core.ReviewQueueItem, error) {
	query := `
		INSERT INTO review_queue (item_type, item_id, flags, ai_score, ai_reasoning, status, created_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', now())
		RETURNING ` + reviewQueueColumns

	var row reviewQueueRow
	err := s.db.GetContext(ctx, &row, query, string(itemType), itemID, pq.StringArray(flags), aiScore, aiReasoning)
	if err != nil {
		return nil, fmt.Errorf("failed to create review queue item: %w", err)
	}
	return row.toItem(), nil
}

func (s *postgresStore) ListReviewQueueItems(ctx context.Context, status core.ReviewStatus) ([]core.ReviewQueueItem, error) {
	query := `
		SELECT ` + reviewQueueColumns + `
		FROM review_queue
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC`

	var rows []reviewQueueRow
	if err := s.db.SelectContext(ctx, &rows, query, string(status)); err != nil {
		return nil, fmt.Errorf("failed to list review queue items: %w", err)
	}

	items := make([]core.ReviewQueueItem, 0, len(rows))
	for i := range rows {
		items = append(items, *rows[i].toItem())
	}
	return items, nil
}

func (s *postgresStore) ResolveReviewQueueItem(ctx context.Context, id int64, status core.ReviewStatus, reviewedBy, reviewNotes string) (*core.ReviewQueueItem, error) {
	query := `
		UPDATE review_queue
		SET status = $2, reviewed_by = $3, review_notes = NULLIF($4, ''), reviewed_at = now()
		WHERE id = $1
		RETURNING ` + reviewQueueColumns

	var row reviewQueueRow
	err := s.db.GetContext(ctx, &row, query, id, string(status), reviewedBy, reviewNotes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve review queue item %d: %w", id, err)
	}
	return row.toItem(), nil
}

const businessColumns = `id, name, description, category, location, email, phone, published, created_at, published_at`

type businessRow struct {
	ID          int64        `db:"id"`
	Name        string       `db:"name"`
	Description string       `db:"description"`
	Category    string       `db:"category"`
	Location    string       `db:"location"`
	Email       string       `db:"email"`
	Phone       string       `db:"phone"`
	Published   bool         `db:"published"`
	CreatedAt   time.Time    `db:"created_at"`
	PublishedAt sql.NullTime `db:"published_at"`
}

func (r *businessRow) toBusiness() *core.Business {
	b := &core.Business{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		Email:       r.Email,
		Phone:       r.Phone,
		Published:   r.Published,
		CreatedAt:   r.CreatedAt,
	}
	if r.PublishedAt.Valid {
		b.PublishedAt = &r.PublishedAt.Time
	}
	return b
}

func (s *postgresStore) CreatePendingBusiness(ctx context.Context, b *core.Business) (*core.Business, error) {
	query := `
		INSERT INTO pending_businesses (name, description, category, location, email, phone, published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, now())
		RETURNING ` + businessColumns

	var row businessRow
	err := s.db.GetContext(ctx, &row, query, b.Name, b.Description, b.Category, b.Location, b.Email, b.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to create pending business: %w", err)
	}
	return row.toBusiness(), nil
}

func (s *postgresStore) GetPendingBusiness(ctx context.Context, id int64) (*core.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM pending_businesses WHERE id = $1`

	var row businessRow
	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pending business %d: %w", id, err)
	}
	return row.toBusiness(), nil
}

// PublishPendingBusiness promotes an approved submission into the live
// catalog.
func (s *postgresStore) PublishPendingBusiness(ctx context.Context, id int64) (*core.Business, error) {
	query := `
		UPDATE pending_businesses
		SET published = TRUE, published_at = now()
		WHERE id = $1
		RETURNING ` + businessColumns

	var row businessRow
	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to publish pending business %d: %w", id, err)
	}
	return row.toBusiness(), nil
}
