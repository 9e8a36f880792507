package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBareApplication(cfg *Config) *application {
	return &application{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRecoverPanic(t *testing.T) {
	app := newBareApplication(&Config{})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestRateLimit(t *testing.T) {
	cfg := &Config{
		LimiterEnabled: true,
		LimiterRPS:     2,
		LimiterBurst:   4,
	}

	app := newBareApplication(cfg)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(next)

	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		res := httptest.NewRecorder()

		middleware.ServeHTTP(res, req)

		assert.Equal(t, http.StatusOK, res.Code, "request %d within burst", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusTooManyRequests, res.Code)

	// a different client keeps its own bucket
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	res = httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := &Config{
		LimiterEnabled: false,
		LimiterRPS:     1,
		LimiterBurst:   1,
	}

	app := newBareApplication(cfg)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(next)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		res := httptest.NewRecorder()

		middleware.ServeHTTP(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
	}
}

func TestAuthenticateMissingHeader(t *testing.T) {
	app := newBareApplication(&Config{})

	var gotAnonymous bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAnonymous = app.getUserContext(r).IsAnonymous()
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.authenticate(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.True(t, gotAnonymous)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	app := newBareApplication(&Config{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be reached")
	})

	middleware := app.authenticate(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireAuthUser(t *testing.T) {
	app := newBareApplication(&Config{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.authenticate(app.requireAuthUser(next))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
