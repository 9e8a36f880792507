package commentservice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amikrop/blawg/internal/blogservice"
	"github.com/amikrop/blawg/internal/userservice"
)

func intptr(i int) *int {
	return &i
}

func TestCanComment(t *testing.T) {
	testCases := []struct {
		name          string
		gate          commentGate
		authenticated bool
		allowed       bool
	}{
		{
			name:          "everything enabled, authenticated",
			gate:          commentGate{entryAllowComments: true, entryAllowAnon: true, blogAllowComments: true, blogAllowAnon: true},
			authenticated: true,
			allowed:       true,
		},
		{
			name:          "everything enabled, anonymous",
			gate:          commentGate{entryAllowComments: true, entryAllowAnon: true, blogAllowComments: true, blogAllowAnon: true},
			authenticated: false,
			allowed:       true,
		},
		{
			name:          "entry comments disabled, authenticated",
			gate:          commentGate{entryAllowComments: false, entryAllowAnon: true, blogAllowComments: true, blogAllowAnon: true},
			authenticated: true,
			allowed:       false,
		},
		{
			name:          "entry comments disabled, anonymous",
			gate:          commentGate{entryAllowComments: false, entryAllowAnon: true, blogAllowComments: true, blogAllowAnon: true},
			authenticated: false,
			allowed:       false,
		},
		{
			name:          "blog comments disabled, authenticated",
			gate:          commentGate{entryAllowComments: true, entryAllowAnon: true, blogAllowComments: false, blogAllowAnon: true},
			authenticated: true,
			allowed:       false,
		},
		{
			name:          "entry anonymous disabled, anonymous",
			gate:          commentGate{entryAllowComments: true, entryAllowAnon: false, blogAllowComments: true, blogAllowAnon: true},
			authenticated: false,
			allowed:       false,
		},
		{
			name:          "blog anonymous disabled, anonymous",
			gate:          commentGate{entryAllowComments: true, entryAllowAnon: true, blogAllowComments: true, blogAllowAnon: false},
			authenticated: false,
			allowed:       false,
		},
		{
			name:          "anonymous flags disabled, authenticated",
			gate:          commentGate{entryAllowComments: true, entryAllowAnon: false, blogAllowComments: true, blogAllowAnon: false},
			authenticated: true,
			allowed:       true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.gate.allows(tc.authenticated))
		})
	}
}

func TestCanCommentExported(t *testing.T) {
	blog := &blogservice.Blog{AllowComments: true, AllowAnonymousComments: false}
	entry := &blogservice.Entry{AllowComments: true, AllowAnonymousComments: true}

	alice := &userservice.User{ID: 1, Username: "alice"}

	assert.True(t, CanComment(entry, blog, alice))
	assert.False(t, CanComment(entry, blog, &userservice.AnonymousUser))

	entry.AllowComments = false
	assert.False(t, CanComment(entry, blog, alice))
}

func TestCanUpdate(t *testing.T) {
	alice := &userservice.User{ID: 1, Username: "alice"}
	bob := &userservice.User{ID: 2, Username: "bob"}

	// only the exact author may update
	assert.True(t, canUpdate(intptr(1), alice))
	assert.False(t, canUpdate(intptr(1), bob))
	assert.False(t, canUpdate(intptr(1), &userservice.AnonymousUser))

	// guest comments carry no identity to match, even the blog owner is denied
	assert.False(t, canUpdate(nil, alice))
	assert.False(t, canUpdate(nil, &userservice.AnonymousUser))
}

func TestCanDelete(t *testing.T) {
	carol := &userservice.User{ID: 3, Username: "carol"}
	dave := &userservice.User{ID: 4, Username: "dave"}
	eve := &userservice.User{ID: 5, Username: "eve"}

	// author may delete
	assert.True(t, canDelete(intptr(3), 4, carol))
	// blog owner may delete any comment on their blog
	assert.True(t, canDelete(intptr(3), 4, dave))
	// unrelated user may not
	assert.False(t, canDelete(intptr(3), 4, eve))
	// anonymous never deletes
	assert.False(t, canDelete(intptr(3), 4, &userservice.AnonymousUser))

	// guest comment: only the blog owner holds the moderation right
	assert.True(t, canDelete(nil, 4, dave))
	assert.False(t, canDelete(nil, 4, eve))
}

func TestBuildThread(t *testing.T) {
	root1 := &Comment{ID: 1, EntryID: 1}
	reply1 := &Comment{ID: 2, EntryID: 1, ParentID: intptr(1)}
	reply2 := &Comment{ID: 3, EntryID: 1, ParentID: intptr(1)}
	nested := &Comment{ID: 4, EntryID: 1, ParentID: intptr(2)}
	root2 := &Comment{ID: 5, EntryID: 1}
	orphan := &Comment{ID: 6, EntryID: 1, ParentID: intptr(99)}

	roots := buildThread([]*Comment{root1, reply1, reply2, nested, root2, orphan})

	assert.Len(t, roots, 2)
	assert.Equal(t, 1, roots[0].ID)
	assert.Equal(t, 5, roots[1].ID)
	assert.Len(t, roots[0].Children, 2)
	assert.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, 4, roots[0].Children[0].Children[0].ID)
}
