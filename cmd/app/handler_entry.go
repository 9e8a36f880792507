package main

import (
	"errors"
	"net/http"

	"github.com/amikrop/blawg/internal/blogservice"
	"github.com/amikrop/blawg/internal/commentservice"
	"github.com/amikrop/blawg/internal/common"
)

func (app *application) createEntryHandler(w http.ResponseWriter, r *http.Request) {
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

	var input blogservice.CreateEntryRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	entry, err := app.blogService.CreateEntry(r.Context(), &input, blog)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrDuplicateSlug):
			app.failedValidationErrorResponse(w, r, map[string]string{"title": "this blog already has an entry with this title"})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"entry": entry}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// getEntryHandler is the entry detail view. Alongside the entry itself it
// returns the comment thread and the facts a client needs to render the
// comment form: whether this requester may comment at all, and the guest name
// length cap for anonymous visitors.
func (app *application) getEntryHandler(w http.ResponseWriter, r *http.Request) {
	sc := app.newScope(r)

	entry, err := sc.pathEntry()
	if err != nil {
		app.resolveErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)

	if !entry.CanView(requester) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	blog, err := sc.pathBlog()
	if err != nil {
		app.resolveErrorResponse(w, r, err)
		return
	}

	comments, err := app.commentService.GetCommentsByEntryId(r.Context(), entry.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	env := envelope{
		"entry":                 entry,
		"comments":              comments,
		"owner":                 entry.IsOwnedBy(requester),
		"can_comment":           commentservice.CanComment(entry, blog, requester),
		"guest_name_max_length": commentservice.GuestNameMaxLength,
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type updateEntryRequest struct {
	Title                  string `json:"title"`
	Content                string `json:"content"`
	Public                 bool   `json:"public"`
	AllowComments          bool   `json:"allow_comments"`
	AllowAnonymousComments bool   `json:"allow_anonymous_comments"`
}

func (app *application) updateEntryHandler(w http.ResponseWriter, r *http.Request) {
	sc := app.newScope(r)

	entry, err := sc.pathEntry()
	if err != nil {
		app.resolveErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)

	if !entry.CanMutate(requester) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	var input updateEntryRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Copy before mutating: the resolved entry is shared through the cache,
	// and a failed update must not change what concurrent readers see.
	update := *entry
	update.Title = input.Title
	update.Content = input.Content
	update.Public = input.Public
	update.AllowComments = input.AllowComments
	update.AllowAnonymousComments = input.AllowAnonymousComments

	err = app.blogService.UpdateEntry(r.Context(), &update)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"entry": update}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	sc := app.newScope(r)

	entry, err := sc.pathEntry()
	if err != nil {
		app.resolveErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)

	if !entry.CanMutate(requester) {
		app.forbiddenErrorResponse(w, r)
		return
	}

	err = app.blogService.DeleteEntry(r.Context(), entry)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "entry deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// archiveHandler lists a blog's entries bounded to a year, month or day,
// depending on how many path segments the request carries.
func (app *application) archiveHandler(w http.ResponseWriter, r *http.Request) {
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

	year, err := app.readIntParam(r, "year")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var month, day int

	if app.readStringParam(r, "month") != "" {
		month, err = app.readIntParam(r, "month")
		if err != nil {
			app.notFoundErrorResponse(w, r)
			return
		}
	}

	if app.readStringParam(r, "day") != "" {
		day, err = app.readIntParam(r, "day")
		if err != nil {
			app.notFoundErrorResponse(w, r)
			return
		}
	}

	from, to, err := blogservice.ArchiveRange(year, month, day)
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	filter := blogservice.ListFilter{
		OwnerOnly: blog.IsOwnedBy(requester),
		From:      &from,
		To:        &to,
	}

	entries, err := app.blogService.GetEntriesByBlogId(r.Context(), blog.ID, filter)
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
