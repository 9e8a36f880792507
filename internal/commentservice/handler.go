package commentservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/amikrop/blawg/internal/userservice"
)

// ErrRejected is the outcome of any comment action the policy refuses:
// commenting disabled, anonymous not allowed, cross-entry parent, non-author
// update, unauthorized delete, or an unresolvable pk. These are same-page
// asynchronous actions, so the transport maps it to a 400-class response, and
// the cases are deliberately indistinguishable to the caller.
var ErrRejected = errors.New("rejected comment request")

func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{m: newCommentModel(db)}
}

type CreateCommentRequest struct {
	EntryID   int    `json:"entry_id"`
	ParentID  *int   `json:"parent_id"`
	GuestName string `json:"guest_name"`
	Content   string `json:"content"`
}

// CreateComment creates a comment on behalf of the requester, who may be
// anonymous. The author is forced from the requester's identity: registered
// users are stored by reference and any submitted guest name is discarded,
// guests must supply a non-empty guest name. Policy check and insert share
// one transaction.
func (s *CommentService) CreateComment(ctx context.Context, req *CreateCommentRequest, requester *userservice.User) (*Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" || req.EntryID < 1 {
		return nil, ErrRejected
	}

	comment := Comment{
		EntryID:  req.EntryID,
		ParentID: req.ParentID,
		Content:  content,
	}

	if requester.IsAnonymous() {
		guestName := strings.TrimSpace(req.GuestName)
		if guestName == "" || len(guestName) > GuestNameMaxLength {
			return nil, ErrRejected
		}
		comment.GuestName = guestName
	} else {
		id := requester.ID
		comment.UserID = &id
		comment.Username = requester.Username
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	target, err := s.m.getTarget(tx, ctx, req.EntryID)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRejected
		default:
			return nil, err
		}
	}

	if !target.gate.allows(!requester.IsAnonymous()) {
		_ = tx.Rollback()
		return nil, ErrRejected
	}

	if req.ParentID != nil {
		parentEntryID, err := s.m.getParentEntryID(tx, ctx, *req.ParentID)
		if err != nil {
			_ = tx.Rollback()
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return nil, ErrRejected
			default:
				return nil, err
			}
		}

		if parentEntryID != req.EntryID {
			_ = tx.Rollback()
			return nil, ErrRejected
		}
	}

	if err := s.m.insertComment(tx, ctx, &comment); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &comment, nil
}

// UpdateComment replaces a comment's content. Only the comment's registered
// author may update. The comment row stays locked from the policy check
// through the write.
func (s *CommentService) UpdateComment(ctx context.Context, id int, content string, requester *userservice.User) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || id < 1 {
		return nil, ErrRejected
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	row, err := s.m.getCommentForUpdate(tx, ctx, id)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRejected
		default:
			return nil, err
		}
	}

	if !canUpdate(row.authorID, requester) {
		_ = tx.Rollback()
		return nil, ErrRejected
	}

	updatedAt, err := s.m.updateComment(tx, ctx, id, content)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Comment{ID: id, Content: content, UpdatedAt: updatedAt}, nil
}

// DeleteComment removes a comment. Allowed for the comment's author and for
// the owner of the blog it sits under (moderation right).
func (s *CommentService) DeleteComment(ctx context.Context, id int, requester *userservice.User) error {
	if id < 1 {
		return ErrRejected
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	row, err := s.m.getCommentForUpdate(tx, ctx, id)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRejected
		default:
			return err
		}
	}

	if !canDelete(row.authorID, row.blogOwnerID, requester) {
		_ = tx.Rollback()
		return ErrRejected
	}

	if err := s.m.deleteComment(tx, ctx, id); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetCommentsByEntryId returns the entry's comment thread, nested by parent,
// siblings oldest first.
func (s *CommentService) GetCommentsByEntryId(ctx context.Context, entryID int) ([]*Comment, error) {
	flat, err := s.m.getCommentsByEntryId(ctx, entryID)
	if err != nil {
		return nil, err
	}

	return buildThread(flat), nil
}
