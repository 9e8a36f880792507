package blogservice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amikrop/blawg/internal/userservice"
)

func TestBlogCanView(t *testing.T) {
	alice := &userservice.User{ID: 1, Username: "alice"}
	bob := &userservice.User{ID: 2, Username: "bob"}

	testCases := []struct {
		name      string
		blog      Blog
		requester *userservice.User
		allowed   bool
	}{
		{name: "public blog, other user", blog: Blog{UserID: 1, Public: true}, requester: bob, allowed: true},
		{name: "public blog, anonymous", blog: Blog{UserID: 1, Public: true}, requester: &userservice.AnonymousUser, allowed: true},
		{name: "private blog, owner", blog: Blog{UserID: 1, Public: false}, requester: alice, allowed: true},
		{name: "private blog, other user", blog: Blog{UserID: 1, Public: false}, requester: bob, allowed: false},
		{name: "private blog, anonymous", blog: Blog{UserID: 1, Public: false}, requester: &userservice.AnonymousUser, allowed: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.blog.CanView(tc.requester))
		})
	}
}

func TestEntryCanViewIndependentOfBlog(t *testing.T) {
	alice := &userservice.User{ID: 1, Username: "alice"}
	bob := &userservice.User{ID: 2, Username: "bob"}

	// entry visibility does not consult the owning blog's public flag:
	// UserID is the only state carried over from the blog
	public := Entry{UserID: 1, Public: true}
	private := Entry{UserID: 1, Public: false}

	assert.True(t, public.CanView(bob))
	assert.True(t, public.CanView(&userservice.AnonymousUser))
	assert.True(t, private.CanView(alice))
	assert.False(t, private.CanView(bob))
	assert.False(t, private.CanView(&userservice.AnonymousUser))
}

func TestCanMutate(t *testing.T) {
	alice := &userservice.User{ID: 1, Username: "alice"}
	bob := &userservice.User{ID: 2, Username: "bob"}

	blog := Blog{UserID: 1, Public: true}
	entry := Entry{UserID: 1, Public: true}

	assert.True(t, blog.CanMutate(alice))
	assert.False(t, blog.CanMutate(bob))
	assert.False(t, blog.CanMutate(&userservice.AnonymousUser))

	assert.True(t, entry.CanMutate(alice))
	assert.False(t, entry.CanMutate(bob))
	assert.False(t, entry.CanMutate(&userservice.AnonymousUser))
}

func TestAnonymousNeverOwns(t *testing.T) {
	// the anonymous user's zero ID must not match any persisted owner
	blog := Blog{UserID: 0, Public: false}
	assert.False(t, blog.CanView(&userservice.AnonymousUser))
	assert.False(t, blog.CanMutate(&userservice.AnonymousUser))
}
