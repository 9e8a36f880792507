package main

import (
	"errors"
	"net/http"

	"github.com/amikrop/blawg/internal/blogservice"
	"github.com/amikrop/blawg/internal/common"
)

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	sc := app.newScope(r)

	user, err := sc.pathUser()
	if err != nil {
		app.resolveErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)
	owner := !requester.IsAnonymous() && requester.ID == user.ID

	blogs, err := app.blogService.GetBlogsByUserId(r.Context(), user.ID, blogservice.ListFilter{OwnerOnly: owner})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs, "owner": owner}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.CreateBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	blog, err := app.blogService.CreateBlog(r.Context(), &input, user.ID)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrDuplicateSlug):
			app.failedValidationErrorResponse(w, r, map[string]string{"title": "you already have a blog with this title"})
		case errors.Is(err, blogservice.ErrUserForeignKey):
			app.unAuthorizedErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// getBlogHandler is the blog detail view: the blog record plus its entry
// listing, filtered down to public entries for everyone but the owner.
func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	sc := app.newScope(r)

	blog, err := sc.pathBlog()
	if err != nil {
		app.resolveErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)

	if !blog.CanView(requester) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	entries, err := app.blogService.GetEntriesByBlogId(r.Context(), blog.ID, blogservice.ListFilter{OwnerOnly: blog.IsOwnedBy(requester)})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	env := envelope{
		"blog":    blog,
		"entries": entries,
		"owner":   blog.IsOwnedBy(requester),
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type updateBlogRequest struct {
	Title                  string `json:"title"`
	Description            string `json:"description"`
	Public                 bool   `json:"public"`
	AllowComments          bool   `json:"allow_comments"`
	AllowAnonymousComments bool   `json:"allow_anonymous_comments"`
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	sc := app.newScope(r)

	blog, err := sc.pathBlog()
	if err != nil {
		app.resolveErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)

	if !blog.CanMutate(requester) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	var input updateBlogRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// The resolved blog is shared through the cache, so mutate a copy: a
	// failed update must not change what concurrent readers see.
	update := *blog
	update.Title = input.Title
	update.Description = input.Description
	update.Public = input.Public
	update.AllowComments = input.AllowComments
	update.AllowAnonymousComments = input.AllowAnonymousComments

	err = app.blogService.UpdateBlog(r.Context(), &update)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrRecordNotFound):
			// lost to a concurrent update or delete
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": update}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	sc := app.newScope(r)

	blog, err := sc.pathBlog()
	if err != nil {
		app.resolveErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)

	if !blog.CanMutate(requester) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	err = app.blogService.DeleteBlog(r.Context(), blog)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
