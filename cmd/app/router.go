package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/amikrop/blawg/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service: account lifecycle lives under /v1/auth so the static
	// segments cannot collide with the /v1/users/:user wildcard
	router.HandlerFunc(http.MethodPost, "/v1/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/auth/activate", app.activateUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/logout", app.requireAuthUser(app.logoutUserHandler))

	// blog service
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.requirePermission(app.createBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodGet, "/v1/users/:user/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/:user/blogs/:blog", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/:user/blogs/:blog", app.requirePermission(app.updateBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodDelete, "/v1/users/:user/blogs/:blog", app.requirePermission(app.deleteBlogHandler, userservice.PermissionWriteBlog))

	// entries
	router.HandlerFunc(http.MethodPost, "/v1/users/:user/blogs/:blog/entries", app.requirePermission(app.createEntryHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodGet, "/v1/users/:user/blogs/:blog/entries/:entry", app.getEntryHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/:user/blogs/:blog/entries/:entry", app.requirePermission(app.updateEntryHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodDelete, "/v1/users/:user/blogs/:blog/entries/:entry", app.requirePermission(app.deleteEntryHandler, userservice.PermissionWriteBlog))

	// archive listings
	router.HandlerFunc(http.MethodGet, "/v1/users/:user/blogs/:blog/archive/:year", app.archiveHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/:user/blogs/:blog/archive/:year/:month", app.archiveHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/:user/blogs/:blog/archive/:year/:month/:day", app.archiveHandler)

	// comment service
	router.HandlerFunc(http.MethodPost, "/v1/comments", app.createCommentHandler)
	router.HandlerFunc(http.MethodPost, "/v1/comments/update", app.updateCommentHandler)
	router.HandlerFunc(http.MethodPost, "/v1/comments/delete", app.deleteCommentHandler)

	return app.recoverPanic(app.logRequest(app.rateLimit(app.authenticate(router))))
}
