package blogservice

import (
	"database/sql"
	"time"

	"github.com/amikrop/blawg/internal/common"
)

type Blog struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`

	Public                 bool `json:"public"`
	AllowComments          bool `json:"allow_comments"`
	AllowAnonymousComments bool `json:"allow_anonymous_comments"`

	UserID   int    `json:"user_id"`
	Username string `json:"username,omitempty"`

	// LastEntryDate is the most recent entry modification time, computed per
	// query for sort ordering, never stored.
	LastEntryDate *time.Time `json:"last_entry_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

type Entry struct {
	ID     int `json:"id"`
	BlogID int `json:"blog_id"`

	Title string `json:"title"`
	Slug  string `json:"slug"`
	// Content is stored in Markdown format.
	Content string `json:"content"`

	Public                 bool `json:"public"`
	AllowComments          bool `json:"allow_comments"`
	AllowAnonymousComments bool `json:"allow_anonymous_comments"`

	// UserID is the owning blog's user, joined in on every read. Entries
	// carry no owner column of their own.
	UserID int `json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ListFilter composes the visibility and date-range conditions of a listing
// query. The zero value lists public records with no date bounds.
type ListFilter struct {
	// OwnerOnly marks the requester as the owner, including non-public
	// records in the result.
	OwnerOnly bool

	// From and To bound created_at as a half-open [From, To) interval.
	// A nil bound is unbounded on that side.
	From *time.Time
	To   *time.Time
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
