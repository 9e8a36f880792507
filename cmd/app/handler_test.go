package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testPassword = "TestPassword!23"

// registerActivatedUser walks a fresh user through the whole onboarding flow
// and returns a usable access token.
func registerActivatedUser(t *testing.T, ts *testServer, username string) string {
	code, _, body := ts.post(t, "/v1/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	}, nil)
	assert.Equal(t, http.StatusCreated, code)

	activationToken, ok := body["token"].(string)
	assert.True(t, ok, "registration should return an activation token")

	code, _, _ = ts.put(t, "/v1/auth/activate", map[string]string{"token": activationToken}, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _, body = ts.post(t, "/v1/auth/login", map[string]string{
		"username": username,
		"password": testPassword,
	}, nil)
	assert.Equal(t, http.StatusOK, code)

	authToken, ok := body["token"].(map[string]any)
	assert.True(t, ok)

	accessToken, ok := authToken["access_token"].(string)
	assert.True(t, ok)

	return accessToken
}

func createBlog(t *testing.T, ts *testServer, token string, title string, public, allowComments, allowAnon bool) string {
	code, _, body := ts.post(t, "/v1/blogs", map[string]any{
		"title":                    title,
		"description":              "a test blog",
		"public":                   public,
		"allow_comments":           allowComments,
		"allow_anonymous_comments": allowAnon,
	}, &token)
	assert.Equal(t, http.StatusCreated, code)

	blog, ok := body["blog"].(map[string]any)
	assert.True(t, ok)

	return blog["slug"].(string)
}

func createEntry(t *testing.T, ts *testServer, token, user, blog, title string, public, allowComments, allowAnon bool) (int, string) {
	code, _, body := ts.post(t, fmt.Sprintf("/v1/users/%s/blogs/%s/entries", user, blog), map[string]any{
		"title":                    title,
		"content":                  "some *markdown* content",
		"public":                   public,
		"allow_comments":           allowComments,
		"allow_anonymous_comments": allowAnon,
	}, &token)
	assert.Equal(t, http.StatusCreated, code)

	entry, ok := body["entry"].(map[string]any)
	assert.True(t, ok)

	return int(entry["id"].(float64)), entry["slug"].(string)
}

func TestHealthcheck(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, _, body := ts.get(t, "/v1/healthcheck", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "available", body["status"])
}

func TestUserLifecycle(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	token := registerActivatedUser(t, ts, "alice")

	code, _, body := ts.post(t, "/v1/auth/logout", nil, &token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user logged out", body["message"])

	// the revoked token stops authenticating right away, cached copy included
	code, _, _ = ts.post(t, "/v1/auth/logout", nil, &token)
	assert.Equal(t, http.StatusUnauthorized, code)

	// duplicate registration is rejected
	code, _, body = ts.post(t, "/v1/auth/register", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": testPassword,
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.NotNil(t, body["error"])

	// wrong password is a 401, not a validation error
	code, _, _ = ts.post(t, "/v1/auth/login", map[string]string{
		"username": "alice",
		"password": "WrongPassword!23",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBlogVisibility(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	aliceToken := registerActivatedUser(t, ts, "alice")
	bobToken := registerActivatedUser(t, ts, "bob")

	publicSlug := createBlog(t, ts, aliceToken, "Public Thoughts", true, true, true)
	privateSlug := createBlog(t, ts, aliceToken, "Private Notes", false, true, true)

	// anonymous listing only shows the public blog
	code, _, body := ts.get(t, "/v1/users/alice/blogs", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["owner"])

	blogs := body["blogs"].([]any)
	assert.Len(t, blogs, 1)
	assert.Equal(t, publicSlug, blogs[0].(map[string]any)["slug"])

	// the owner sees everything
	code, _, body = ts.get(t, "/v1/users/alice/blogs", &aliceToken)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["owner"])
	assert.Len(t, body["blogs"].([]any), 2)

	// another authenticated user is treated like a visitor
	code, _, body = ts.get(t, "/v1/users/alice/blogs", &bobToken)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["owner"])
	assert.Len(t, body["blogs"].([]any), 1)

	// private blog detail: gated, not hidden
	code, _, _ = ts.get(t, "/v1/users/alice/blogs/"+privateSlug, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _, _ = ts.get(t, "/v1/users/alice/blogs/"+privateSlug, &bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _, body = ts.get(t, "/v1/users/alice/blogs/"+privateSlug, &aliceToken)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["owner"])

	// unknown username and unknown slug are plain 404s
	code, _, _ = ts.get(t, "/v1/users/nobody/blogs", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _, _ = ts.get(t, "/v1/users/alice/blogs/no-such-blog", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBlogLifecycle(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	aliceToken := registerActivatedUser(t, ts, "alice")
	bobToken := registerActivatedUser(t, ts, "bob")

	slug := createBlog(t, ts, aliceToken, "My Blog", true, true, false)

	// a second blog with the same title collides on the slug
	code, _, _ := ts.post(t, "/v1/blogs", map[string]any{
		"title":                    "My Blog",
		"description":              "again",
		"public":                   true,
		"allow_comments":           true,
		"allow_anonymous_comments": false,
	}, &aliceToken)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// but the same title is fine for a different owner
	bobSlug := createBlog(t, ts, bobToken, "My Blog", true, true, false)
	assert.Equal(t, slug, bobSlug)

	update := map[string]any{
		"title":                    "My Renamed Blog",
		"description":              "still mine",
		"public":                   false,
		"allow_comments":           true,
		"allow_anonymous_comments": false,
	}

	// only the owner may update
	code, _, _ = ts.put(t, "/v1/users/alice/blogs/"+slug, update, &bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _, body := ts.put(t, "/v1/users/alice/blogs/"+slug, update, &aliceToken)
	assert.Equal(t, http.StatusOK, code)

	blog := body["blog"].(map[string]any)
	assert.Equal(t, "My Renamed Blog", blog["title"])
	// the slug survives the rename so links keep working
	assert.Equal(t, slug, blog["slug"])

	code, _, _ = ts.delete(t, "/v1/users/alice/blogs/"+slug, &bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _, _ = ts.delete(t, "/v1/users/alice/blogs/"+slug, &aliceToken)
	assert.Equal(t, http.StatusOK, code)

	code, _, _ = ts.get(t, "/v1/users/alice/blogs/"+slug, &aliceToken)
	assert.Equal(t, http.StatusNotFound, code)
}

// A rejected update must leave subsequent reads untouched: the resolved blog
// and entry records are served from a shared cache, so a handler scribbling on
// them before a failed write would leak never-persisted values to readers.
func TestFailedUpdateKeepsReadsIntact(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	aliceToken := registerActivatedUser(t, ts, "alice")

	blogSlug := createBlog(t, ts, aliceToken, "Original Title", true, true, true)
	_, entrySlug := createEntry(t, ts, aliceToken, "alice", blogSlug, "Original Entry", true, true, true)

	blogPath := "/v1/users/alice/blogs/" + blogSlug
	entryPath := fmt.Sprintf("%s/entries/%s", blogPath, entrySlug)

	// warm the cache through the detail views
	code, _, _ := ts.get(t, blogPath, &aliceToken)
	assert.Equal(t, http.StatusOK, code)

	code, _, _ = ts.get(t, entryPath, &aliceToken)
	assert.Equal(t, http.StatusOK, code)

	// an empty title fails validation, nothing is persisted
	code, _, _ = ts.put(t, blogPath, map[string]any{
		"title":                    "",
		"description":              "still here",
		"public":                   true,
		"allow_comments":           true,
		"allow_anonymous_comments": true,
	}, &aliceToken)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _, body := ts.get(t, blogPath, &aliceToken)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Original Title", body["blog"].(map[string]any)["title"])

	code, _, _ = ts.put(t, entryPath, map[string]any{
		"title":                    "",
		"content":                  "still here",
		"public":                   true,
		"allow_comments":           true,
		"allow_anonymous_comments": true,
	}, &aliceToken)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _, body = ts.get(t, entryPath, &aliceToken)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Original Entry", body["entry"].(map[string]any)["title"])
}

func TestEntryLifecycle(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	aliceToken := registerActivatedUser(t, ts, "alice")
	bobToken := registerActivatedUser(t, ts, "bob")

	blogSlug := createBlog(t, ts, aliceToken, "Tech Notes", true, true, true)

	// only the blog owner may post entries
	code, _, _ := ts.post(t, fmt.Sprintf("/v1/users/alice/blogs/%s/entries", blogSlug), map[string]any{
		"title":                    "Intruder",
		"content":                  "nope",
		"public":                   true,
		"allow_comments":           true,
		"allow_anonymous_comments": true,
	}, &bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	_, entrySlug := createEntry(t, ts, aliceToken, "alice", blogSlug, "Hello World", true, true, true)

	entryPath := fmt.Sprintf("/v1/users/alice/blogs/%s/entries/%s", blogSlug, entrySlug)

	code, _, body := ts.get(t, entryPath, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["owner"])
	assert.Equal(t, true, body["can_comment"])
	assert.Equal(t, float64(50), body["guest_name_max_length"])

	entry := body["entry"].(map[string]any)
	assert.Equal(t, "Hello World", entry["title"])

	code, _, body = ts.get(t, entryPath, &aliceToken)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["owner"])

	// non-owner update and delete are refused
	update := map[string]any{
		"title":                    "Hello Again",
		"content":                  "updated content",
		"public":                   true,
		"allow_comments":           true,
		"allow_anonymous_comments": true,
	}

	code, _, _ = ts.put(t, entryPath, update, &bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _, body = ts.put(t, entryPath, update, &aliceToken)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Hello Again", body["entry"].(map[string]any)["title"])

	code, _, _ = ts.delete(t, entryPath, &bobToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _, _ = ts.delete(t, entryPath, &aliceToken)
	assert.Equal(t, http.StatusOK, code)

	code, _, _ = ts.get(t, entryPath, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestArchive(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	aliceToken := registerActivatedUser(t, ts, "alice")

	blogSlug := createBlog(t, ts, aliceToken, "Journal", true, true, true)
	createEntry(t, ts, aliceToken, "alice", blogSlug, "Today", true, true, true)

	year := time.Now().UTC().Year()
	base := fmt.Sprintf("/v1/users/alice/blogs/%s/archive", blogSlug)

	code, _, body := ts.get(t, fmt.Sprintf("%s/%d", base, year), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["entries"].([]any), 1)

	// a year with no entries is an empty listing, not an error
	code, _, body = ts.get(t, fmt.Sprintf("%s/%d", base, year-3), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["entries"].([]any), 0)

	// garbage dates do not exist
	code, _, _ = ts.get(t, base+"/2023/2/30", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _, _ = ts.get(t, base+"/banana", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCommentFlow(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	aliceToken := registerActivatedUser(t, ts, "alice")
	bobToken := registerActivatedUser(t, ts, "bob")

	openBlog := createBlog(t, ts, aliceToken, "Open Blog", true, true, true)
	openEntryID, _ := createEntry(t, ts, aliceToken, "alice", openBlog, "Open Entry", true, true, true)

	closedBlog := createBlog(t, ts, aliceToken, "Closed Blog", true, false, false)
	closedEntryID, _ := createEntry(t, ts, aliceToken, "alice", closedBlog, "Closed Entry", true, true, true)

	// anonymous guest comment on a fully open entry
	code, _, body := ts.post(t, "/v1/comments", map[string]any{
		"entry_id":   openEntryID,
		"guest_name": "drive-by",
		"content":    "first!",
	}, nil)
	assert.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, body["created"])

	guestPK := int(body["pk"].(float64))

	// a guest without a name is rejected
	code, _, _ = ts.post(t, "/v1/comments", map[string]any{
		"entry_id": openEntryID,
		"content":  "nameless",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// whitespace-only fields count as empty
	code, _, _ = ts.post(t, "/v1/comments", map[string]any{
		"entry_id":   openEntryID,
		"guest_name": "drive-by",
		"content":    " \n\t ",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = ts.post(t, "/v1/comments", map[string]any{
		"entry_id":   openEntryID,
		"guest_name": "   ",
		"content":    "real content",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// the blog-level switch vetoes the entry-level one
	code, _, _ = ts.post(t, "/v1/comments", map[string]any{
		"entry_id":   closedEntryID,
		"guest_name": "drive-by",
		"content":    "hello?",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = ts.post(t, "/v1/comments", map[string]any{
		"entry_id": closedEntryID,
		"content":  "hello?",
	}, &bobToken)
	assert.Equal(t, http.StatusBadRequest, code)

	// registered reply under the guest comment
	code, _, body = ts.post(t, "/v1/comments", map[string]any{
		"entry_id":  openEntryID,
		"parent_id": guestPK,
		"content":   "welcome",
	}, &bobToken)
	assert.Equal(t, http.StatusCreated, code)

	bobPK := int(body["pk"].(float64))

	// only the registered author may edit: guests never can, nor can others
	code, _, _ = ts.post(t, "/v1/comments/update", map[string]any{
		"pk":      guestPK,
		"content": "edited",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = ts.post(t, "/v1/comments/update", map[string]any{
		"pk":      bobPK,
		"content": "edited",
	}, &aliceToken)
	assert.Equal(t, http.StatusBadRequest, code)

	// an update blanked down to whitespace is refused
	code, _, _ = ts.post(t, "/v1/comments/update", map[string]any{
		"pk":      bobPK,
		"content": "   ",
	}, &bobToken)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, body = ts.post(t, "/v1/comments/update", map[string]any{
		"pk":      bobPK,
		"content": "welcome, edited",
	}, &bobToken)
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["modified"])

	// a stranger cannot delete, the blog owner can moderate anything
	code, _, _ = ts.post(t, "/v1/comments/delete", map[string]any{"pk": bobPK}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = ts.post(t, "/v1/comments/delete", map[string]any{"pk": bobPK}, &aliceToken)
	assert.Equal(t, http.StatusNoContent, code)

	code, _, _ = ts.post(t, "/v1/comments/delete", map[string]any{"pk": guestPK}, &aliceToken)
	assert.Equal(t, http.StatusNoContent, code)
}
