package commentservice

import (
	"context"
	"database/sql"
	"time"
)

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

// commentTarget is the snapshot of an entry and its owning blog that the
// comment policy decides over, read inside the same transaction as the
// mutation.
type commentTarget struct {
	entryID     int
	blogOwnerID int
	gate        commentGate
}

func (m *CommentModel) getTarget(tx *sql.Tx, ctx context.Context, entryID int) (*commentTarget, error) {
	query := `
		SELECT e.id, b.user_id, e.allow_comments, e.allow_anonymous_comments, b.allow_comments, b.allow_anonymous_comments
		FROM entries e
		JOIN blogs b ON e.blog_id = b.id
		WHERE e.id = $1`

	var t commentTarget
	err := tx.QueryRowContext(ctx, query, entryID).Scan(&t.entryID, &t.blogOwnerID, &t.gate.entryAllowComments, &t.gate.entryAllowAnon, &t.gate.blogAllowComments, &t.gate.blogAllowAnon)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (m *CommentModel) getParentEntryID(tx *sql.Tx, ctx context.Context, parentID int) (int, error) {
	query := `
		SELECT entry_id
		FROM comments
		WHERE id = $1`

	var entryID int
	err := tx.QueryRowContext(ctx, query, parentID).Scan(&entryID)
	if err != nil {
		return 0, err
	}

	return entryID, nil
}

func (m *CommentModel) insertComment(tx *sql.Tx, ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (entry_id, parent_id, user_id, guest_name, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	args := []any{
		comment.EntryID,
		comment.ParentID,
		comment.UserID,
		comment.GuestName,
		comment.Content,
	}

	return tx.QueryRowContext(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

// commentRow is the authorization-relevant state of a stored comment, locked
// FOR UPDATE so the policy check and the mutation see one snapshot.
type commentRow struct {
	id          int
	authorID    *int
	blogOwnerID int
	updatedAt   time.Time
}

func (m *CommentModel) getCommentForUpdate(tx *sql.Tx, ctx context.Context, id int) (*commentRow, error) {
	query := `
		SELECT c.id, c.user_id, b.user_id, c.updated_at
		FROM comments c
		JOIN entries e ON c.entry_id = e.id
		JOIN blogs b ON e.blog_id = b.id
		WHERE c.id = $1
		FOR UPDATE OF c`

	var row commentRow
	err := tx.QueryRowContext(ctx, query, id).Scan(&row.id, &row.authorID, &row.blogOwnerID, &row.updatedAt)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (m *CommentModel) updateComment(tx *sql.Tx, ctx context.Context, id int, content string) (time.Time, error) {
	query := `
		UPDATE comments
		SET content = $1
		WHERE id = $2
		RETURNING updated_at`

	var updatedAt time.Time
	err := tx.QueryRowContext(ctx, query, content, id).Scan(&updatedAt)
	if err != nil {
		return time.Time{}, err
	}

	return updatedAt, nil
}

func (m *CommentModel) deleteComment(tx *sql.Tx, ctx context.Context, id int) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// getCommentsByEntryId returns an entry's comments oldest first, joining in
// the registered authors' usernames.
func (m *CommentModel) getCommentsByEntryId(ctx context.Context, entryID int) ([]*Comment, error) {
	query := `
		SELECT c.id, c.entry_id, c.parent_id, c.user_id, COALESCE(u.username, ''), c.guest_name, c.content, c.created_at, c.updated_at
		FROM comments c
		LEFT JOIN users u ON c.user_id = u.id
		WHERE c.entry_id = $1
		ORDER BY c.created_at ASC, c.id ASC`

	rows, err := m.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.EntryID, &c.ParentID, &c.UserID, &c.Username, &c.GuestName, &c.Content, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

// buildThread nests a flat, chronologically ordered comment list into a tree.
// Replies whose parent is missing are dropped rather than reparented.
func buildThread(flat []*Comment) []*Comment {
	byID := make(map[int]*Comment, len(flat))
	for _, c := range flat {
		byID[c.ID] = c
	}

	roots := []*Comment{}
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Children = append(parent.Children, c)
		}
	}

	return roots
}
