package commentservice

import (
	"github.com/amikrop/blawg/internal/blogservice"
	"github.com/amikrop/blawg/internal/userservice"
)

// commentGate holds the permission flags of an entry and its owning blog.
// Blog-level flags act as a global switch, entry-level flags narrow it
// further: both levels must allow.
type commentGate struct {
	entryAllowComments bool
	entryAllowAnon     bool
	blogAllowComments  bool
	blogAllowAnon      bool
}

func (g commentGate) allows(authenticated bool) bool {
	if !g.entryAllowComments || !g.blogAllowComments {
		return false
	}
	if !authenticated {
		return g.entryAllowAnon && g.blogAllowAnon
	}
	return true
}

// CanComment reports whether the requester may comment on the entry. Pure
// decision over flag state and identity; also feeds the can_comment flag on
// entry detail pages.
func CanComment(entry *blogservice.Entry, blog *blogservice.Blog, u *userservice.User) bool {
	g := commentGate{
		entryAllowComments: entry.AllowComments,
		entryAllowAnon:     entry.AllowAnonymousComments,
		blogAllowComments:  blog.AllowComments,
		blogAllowAnon:      blog.AllowAnonymousComments,
	}
	return g.allows(!u.IsAnonymous())
}

// canUpdate: only the comment's registered author may update. Guest comments
// hold no identity to match, so they are never updatable.
func canUpdate(authorID *int, u *userservice.User) bool {
	return !u.IsAnonymous() && authorID != nil && *authorID == u.ID
}

// canDelete: the author, or the owner of the blog the comment sits under
// (moderation right, flowing from blog ownership).
func canDelete(authorID *int, blogOwnerID int, u *userservice.User) bool {
	if u.IsAnonymous() {
		return false
	}
	if authorID != nil && *authorID == u.ID {
		return true
	}
	return u.ID == blogOwnerID
}
