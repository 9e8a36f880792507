package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateSlug  = errors.New("duplicate slug")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// UniqueViolation is a helper function to check if the error is a unique constraint error.
func UniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *BlogModel) insertBlog(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, slug, description, public, allow_comments, allow_anonymous_comments, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		blog.Title,
		blog.Slug,
		blog.Description,
		blog.Public,
		blog.AllowComments,
		blog.AllowAnonymousComments,
		blog.UserID,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case UniqueViolation(err, "blogs_user_id_slug_key"):
			return ErrDuplicateSlug
		case ForeignKeyError(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getBlogBySlug looks up a blog by its slug scoped to the owning user. Pure
// existence lookup, no authorization.
func (m *BlogModel) getBlogBySlug(ctx context.Context, userID int, slug string) (*Blog, error) {
	query := `
		SELECT b.id, b.title, b.slug, b.description, b.public, b.allow_comments, b.allow_anonymous_comments, b.user_id, u.username, b.created_at, b.updated_at, b.version
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.user_id = $1 AND b.slug = $2`

	row := m.db.QueryRowContext(ctx, query, userID, slug)

	var blog Blog
	err := row.Scan(&blog.ID, &blog.Title, &blog.Slug, &blog.Description, &blog.Public, &blog.AllowComments, &blog.AllowAnonymousComments, &blog.UserID, &blog.Username, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

func (m *BlogModel) updateBlog(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, description = $2, public = $3, allow_comments = $4, allow_anonymous_comments = $5, version = version + 1
		WHERE id = $6 AND version = $7 AND user_id = $8
		RETURNING version, created_at, updated_at`

	args := []any{
		blog.Title,
		blog.Description,
		blog.Public,
		blog.AllowComments,
		blog.AllowAnonymousComments,
		blog.ID,
		blog.Version,
		blog.UserID,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.Version, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

// deleteBlog removes a blog scoped to its owner. Entries and comments go with
// it through the FK cascade. The user_id guard makes concurrent deletes
// resolve to one winner and a not-found for the rest.
func (m *BlogModel) deleteBlog(ctx context.Context, blogID, userID int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1 AND user_id = $2`

	res, err := m.db.ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

// getBlogsByUserId lists a user's blogs as seen by the requester, ordered by
// last entry modification, blogs with no entries last.
func (m *BlogModel) getBlogsByUserId(ctx context.Context, userID int, filter ListFilter) ([]Blog, error) {
	query := `
		SELECT b.id, b.title, b.slug, b.description, b.public, b.allow_comments, b.allow_anonymous_comments, b.user_id, b.created_at, b.updated_at, b.version, MAX(e.updated_at) AS last_entry_date
		FROM blogs b
		LEFT JOIN entries e ON e.blog_id = b.id
		WHERE b.user_id = $1 AND (b.public = true OR $2)
		GROUP BY b.id
		ORDER BY MAX(e.updated_at) DESC NULLS LAST, b.created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, userID, filter.OwnerOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		err := rows.Scan(&blog.ID, &blog.Title, &blog.Slug, &blog.Description, &blog.Public, &blog.AllowComments, &blog.AllowAnonymousComments, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version, &blog.LastEntryDate)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}
