package blogservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/amikrop/blawg/internal/common"
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: c}
}

type CreateBlogRequest struct {
	Title                  string `json:"title"`
	Description            string `json:"description"`
	Public                 bool   `json:"public"`
	AllowComments          bool   `json:"allow_comments"`
	AllowAnonymousComments bool   `json:"allow_anonymous_comments"`
}

// CreateBlog creates a new blog owned by userID. The owner always comes from
// the authenticated requester, never from the request body.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest, userID int) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateDescription(v, req.Description)
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := Blog{
		Title:                  req.Title,
		Slug:                   Slugify(req.Title),
		Description:            req.Description,
		Public:                 req.Public,
		AllowComments:          req.AllowComments,
		AllowAnonymousComments: req.AllowAnonymousComments,
		UserID:                 userID,
	}

	err := s.m.insertBlog(ctx, &blog)
	if err != nil {
		return nil, err
	}

	return &blog, nil
}

// GetBlogBySlug returns the blog with the given slug owned by userID. Lookup
// only: callers apply CanView or CanMutate before acting on the result.
func (s *BlogService) GetBlogBySlug(ctx context.Context, userID int, slug string) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	key := common.CacheKeyBlog(userID, slug)
	if cached, ok := s.c.Get(key); ok {
		return cached.(*Blog), nil
	}

	blog, err := s.m.getBlogBySlug(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, blog, time.Minute)

	return blog, nil
}

// GetBlogsByUserId lists a user's blogs, sorted by last entry date descending
// with entry-less blogs last. Non-owners only see public blogs.
func (s *BlogService) GetBlogsByUserId(ctx context.Context, userID int, filter ListFilter) ([]Blog, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogsByUserId(ctx, userID, filter)
}

// UpdateBlog updates a blog's mutable fields. The slug is fixed at creation so
// links keep working. Version and user_id guard against lost updates and
// cross-owner writes.
func (s *BlogService) UpdateBlog(ctx context.Context, blog *Blog) error {
	v := common.NewValidator()
	validateTitle(v, blog.Title)
	validateDescription(v, blog.Description)
	validateInt(v, blog.ID, "id")
	validateInt(v, blog.UserID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.updateBlog(ctx, blog)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlog(blog.UserID, blog.Slug))

	return nil
}

// DeleteBlog deletes a blog and, through the FK cascade, its entries and
// their comments.
func (s *BlogService) DeleteBlog(ctx context.Context, blog *Blog) error {
	v := common.NewValidator()
	validateInt(v, blog.ID, "id")
	validateInt(v, blog.UserID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.deleteBlog(ctx, blog.ID, blog.UserID)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlog(blog.UserID, blog.Slug))

	return nil
}

type CreateEntryRequest struct {
	Title                  string `json:"title"`
	Content                string `json:"content"`
	Public                 bool   `json:"public"`
	AllowComments          bool   `json:"allow_comments"`
	AllowAnonymousComments bool   `json:"allow_anonymous_comments"`
}

// CreateEntry creates a new entry under blog. Ownership of the blog has
// already been established by the caller; the entry inherits it transitively.
func (s *BlogService) CreateEntry(ctx context.Context, req *CreateEntryRequest, blog *Blog) (*Entry, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateInt(v, blog.ID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	entry := Entry{
		BlogID:                 blog.ID,
		Title:                  req.Title,
		Slug:                   Slugify(req.Title),
		Content:                sanitizeMarkdown(req.Content),
		Public:                 req.Public,
		AllowComments:          req.AllowComments,
		AllowAnonymousComments: req.AllowAnonymousComments,
		UserID:                 blog.UserID,
	}

	err := s.m.insertEntry(ctx, &entry)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// GetEntryBySlug returns the entry with the given slug under the blog. Lookup
// only, no authorization.
func (s *BlogService) GetEntryBySlug(ctx context.Context, blogID int, slug string) (*Entry, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	key := common.CacheKeyEntry(blogID, slug)
	if cached, ok := s.c.Get(key); ok {
		return cached.(*Entry), nil
	}

	entry, err := s.m.getEntryBySlug(ctx, blogID, slug)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, entry, time.Minute)

	return entry, nil
}

// GetEntriesByBlogId lists a blog's entries by creation date descending.
// Non-owners only see public entries; From/To bound archive views.
func (s *BlogService) GetEntriesByBlogId(ctx context.Context, blogID int, filter ListFilter) ([]Entry, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getEntriesByBlogId(ctx, blogID, filter)
}

func (s *BlogService) UpdateEntry(ctx context.Context, entry *Entry) error {
	v := common.NewValidator()
	validateTitle(v, entry.Title)
	validateContent(v, entry.Content)
	validateInt(v, entry.ID, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	entry.Content = sanitizeMarkdown(entry.Content)

	err := s.m.updateEntry(ctx, entry)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyEntry(entry.BlogID, entry.Slug))

	return nil
}

func (s *BlogService) DeleteEntry(ctx context.Context, entry *Entry) error {
	v := common.NewValidator()
	validateInt(v, entry.ID, "id")
	validateInt(v, entry.BlogID, "blog_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.deleteEntry(ctx, entry.ID, entry.BlogID)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyEntry(entry.BlogID, entry.Slug))

	return nil
}
