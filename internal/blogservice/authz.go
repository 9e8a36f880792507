package blogservice

import (
	"github.com/amikrop/blawg/internal/userservice"
)

// Ownership and visibility predicates. All pure functions of object state and
// requester identity; endpoint handlers compose them by explicit conjunction.

func (b *Blog) IsOwnedBy(u *userservice.User) bool {
	return !u.IsAnonymous() && u.ID == b.UserID
}

// CanView reports whether the requester may read the blog. Existence is not
// hidden from non-owners: denial maps to 403, not 404.
func (b *Blog) CanView(u *userservice.User) bool {
	return b.Public || b.IsOwnedBy(u)
}

// CanMutate reports whether the requester may update or delete the blog.
func (b *Blog) CanMutate(u *userservice.User) bool {
	return b.IsOwnedBy(u)
}

// Entry ownership runs transitively through the blog: an entry has no owner
// column of its own.

func (e *Entry) IsOwnedBy(u *userservice.User) bool {
	return !u.IsAnonymous() && u.ID == e.UserID
}

// CanView reports whether the requester may read the entry. Evaluated
// independently of the owning blog's public flag.
func (e *Entry) CanView(u *userservice.User) bool {
	return e.Public || e.IsOwnedBy(u)
}

func (e *Entry) CanMutate(u *userservice.User) bool {
	return e.IsOwnedBy(u)
}
