package main

import (
	"net/http"

	"github.com/amikrop/blawg/internal/blogservice"
	"github.com/amikrop/blawg/internal/userservice"
)

// scope resolves the :user/:blog/:entry path segments of a request, in order,
// memoizing each hit so a handler that needs the entry does not re-resolve
// the user and blog it already looked up. The services cache across requests;
// scope only keeps a single request from asking twice.
type scope struct {
	app *application
	r   *http.Request

	user  *userservice.User
	blog  *blogservice.Blog
	entry *blogservice.Entry
}

func (app *application) newScope(r *http.Request) *scope {
	return &scope{app: app, r: r}
}

func (s *scope) pathUser() (*userservice.User, error) {
	if s.user != nil {
		return s.user, nil
	}

	username := s.app.readStringParam(s.r, "user")

	user, err := s.app.userService.GetUserByUsername(s.r.Context(), username)
	if err != nil {
		return nil, err
	}

	s.user = user
	return user, nil
}

func (s *scope) pathBlog() (*blogservice.Blog, error) {
	if s.blog != nil {
		return s.blog, nil
	}

	user, err := s.pathUser()
	if err != nil {
		return nil, err
	}

	slug := s.app.readStringParam(s.r, "blog")

	blog, err := s.app.blogService.GetBlogBySlug(s.r.Context(), user.ID, slug)
	if err != nil {
		return nil, err
	}

	s.blog = blog
	return blog, nil
}

func (s *scope) pathEntry() (*blogservice.Entry, error) {
	if s.entry != nil {
		return s.entry, nil
	}

	blog, err := s.pathBlog()
	if err != nil {
		return nil, err
	}

	slug := s.app.readStringParam(s.r, "entry")

	entry, err := s.app.blogService.GetEntryBySlug(s.r.Context(), blog.ID, slug)
	if err != nil {
		return nil, err
	}

	s.entry = entry
	return entry, nil
}
