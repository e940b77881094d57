package core

import "time"

// Article is a community article submitted to the directory.
type Article struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}

// HowToStep is a single step of a how-to guide.
type HowToStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HowTo is a step-by-step guide. Steps keep their submission order.
type HowTo struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Steps       []HowToStep `json:"steps"`
}

// Post is a forum post; only its body is screened.
type Post struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// Business is a submitted-but-unpublished listing awaiting validation and
// admin approval. It lives in its own table, separate from the review queue.
type Business struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Published   bool       `json:"published"`
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
