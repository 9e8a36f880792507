package main

import (
	"errors"
	"net/http"

	"github.com/amikrop/blawg/internal/commentservice"
)

// Comment endpoints answer in the terse shape an in-page comment widget
// consumes: primary key plus a display-formatted timestamp. Every policy or
// shape violation collapses into one opaque 400 so probing the endpoints
// reveals nothing about which rule tripped.

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input commentservice.CreateCommentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)

	comment, err := app.commentService.CreateComment(r.Context(), &input, requester)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrRejected):
			app.writeErrorResponse(w, r, http.StatusBadRequest, "bad request")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"pk":      comment.ID,
		"created": comment.CreatedAt.Format(commentservice.TimeFormat),
	}

	err = app.writeJSON(w, http.StatusCreated, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type updateCommentRequest struct {
	PK      int    `json:"pk"`
	Content string `json:"content"`
}

func (app *application) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input updateCommentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)

	comment, err := app.commentService.UpdateComment(r.Context(), input.PK, input.Content, requester)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrRejected):
			app.writeErrorResponse(w, r, http.StatusBadRequest, "bad request")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"modified": comment.UpdatedAt.Format(commentservice.TimeFormat),
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type deleteCommentRequest struct {
	PK int `json:"pk"`
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input deleteCommentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	requester := app.getUserContext(r)

	err = app.commentService.DeleteComment(r.Context(), input.PK, requester)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrRejected):
			app.writeErrorResponse(w, r, http.StatusBadRequest, "bad request")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
