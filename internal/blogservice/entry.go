package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (m *BlogModel) insertEntry(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO entries (title, slug, content, public, allow_comments, allow_anonymous_comments, blog_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		entry.Title,
		entry.Slug,
		entry.Content,
		entry.Public,
		entry.AllowComments,
		entry.AllowAnonymousComments,
		entry.BlogID,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt, &entry.Version)
	if err != nil {
		switch {
		case UniqueViolation(err, "entries_blog_id_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

// getEntryBySlug looks up an entry by its slug scoped to the blog, joining in
// the owning blog's user for the transitive ownership checks.
func (m *BlogModel) getEntryBySlug(ctx context.Context, blogID int, slug string) (*Entry, error) {
	query := `
		SELECT e.id, e.blog_id, e.title, e.slug, e.content, e.public, e.allow_comments, e.allow_anonymous_comments, b.user_id, e.created_at, e.updated_at, e.version
		FROM entries e
		JOIN blogs b ON e.blog_id = b.id
		WHERE e.blog_id = $1 AND e.slug = $2`

	row := m.db.QueryRowContext(ctx, query, blogID, slug)

	var entry Entry
	err := row.Scan(&entry.ID, &entry.BlogID, &entry.Title, &entry.Slug, &entry.Content, &entry.Public, &entry.AllowComments, &entry.AllowAnonymousComments, &entry.UserID, &entry.CreatedAt, &entry.UpdatedAt, &entry.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &entry, nil
}

func (m *BlogModel) updateEntry(ctx context.Context, entry *Entry) error {
	query := `
		UPDATE entries
		SET title = $1, content = $2, public = $3, allow_comments = $4, allow_anonymous_comments = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version, created_at, updated_at`

	args := []any{
		entry.Title,
		entry.Content,
		entry.Public,
		entry.AllowComments,
		entry.AllowAnonymousComments,
		entry.ID,
		entry.Version,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&entry.Version, &entry.CreatedAt, &entry.UpdatedAt)
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

func (m *BlogModel) deleteEntry(ctx context.Context, entryID, blogID int) error {
	query := `
		DELETE FROM entries
		WHERE id = $1 AND blog_id = $2`

	res, err := m.db.ExecContext(ctx, query, entryID, blogID)
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

// getEntriesByBlogId lists a blog's entries as seen by the requester, newest
// first, optionally bounded to a [From, To) creation date range.
func (m *BlogModel) getEntriesByBlogId(ctx context.Context, blogID int, filter ListFilter) ([]Entry, error) {
	query := `
		SELECT e.id, e.blog_id, e.title, e.slug, e.content, e.public, e.allow_comments, e.allow_anonymous_comments, b.user_id, e.created_at, e.updated_at, e.version
		FROM entries e
		JOIN blogs b ON e.blog_id = b.id
		WHERE e.blog_id = $1
		  AND (e.public = true OR $2)
		  AND ($3::timestamptz IS NULL OR e.created_at >= $3)
		  AND ($4::timestamptz IS NULL OR e.created_at < $4)
		ORDER BY e.created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, blogID, filter.OwnerOnly, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		err := rows.Scan(&entry.ID, &entry.BlogID, &entry.Title, &entry.Slug, &entry.Content, &entry.Public, &entry.AllowComments, &entry.AllowAnonymousComments, &entry.UserID, &entry.CreatedAt, &entry.UpdatedAt, &entry.Version)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
