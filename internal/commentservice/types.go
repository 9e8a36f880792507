package commentservice

import (
	"database/sql"
	"time"
)

const (
	// GuestNameMaxLength caps the free-text display name of anonymous
	// commenters. Exposed to the presentation layer alongside can_comment.
	GuestNameMaxLength = 50

	// TimeFormat is the created/modified timestamp format returned to the
	// asynchronous comment actions, e.g. "05 Mar 2026, 14:30".
	TimeFormat = "02 Jan 2006, 15:04"
)

type Comment struct {
	ID       int  `json:"id"`
	EntryID  int  `json:"entry_id"`
	ParentID *int `json:"parent_id,omitempty"`

	// Exactly one of UserID and GuestName is set: registered authors carry
	// their user reference, guests only a display name.
	UserID    *int   `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	GuestName string `json:"guest_name,omitempty"`

	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Children []*Comment `json:"children,omitempty"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m *CommentModel
}
