package test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handlers "todoforum/internal/handler"
	"todoforum/internal/models"
	"todoforum/internal/repository"
	"todoforum/internal/session"
)

func TestRouter_Gates(t *testing.T) {
	h, m := newHandlers()
	m.auth.On("CurrentUser", mock.Anything, "alice").Return(alice, nil)
	m.auth.On("CurrentUser", mock.Anything, "ghost").Return(session.Identity{}, repository.ErrNotFound)
	m.todo.On("List", mock.Anything, alice.UserID).Return([]models.Todo{}, nil)

	router := handlers.NewRouter(h, handlers.RouterOptions{CSRFSecret: "csrf"})

	token, _, err := h.Sessions.Issue("alice")
	require.NoError(t, err)
	ghost, _, err := h.Sessions.Issue("ghost")
	require.NoError(t, err)

	protected := []string{
		"/", "/todos", "/forum", "/group-leader", "/user-management",
		"/toggle-todo/1", "/delete-todo/1", "/toggle-like/1", "/toggle-complaint/1",
		"/delete-post/1", "/delete-user/bob", "/view-user-todos/bob",
	}
	for _, path := range protected {
		t.Run("anonymous "+path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusFound, rr.Code)
			assert.Equal(t, "/login", rr.Header().Get("Location"))
		})
	}

	tests := []struct {
		name       string
		method     string
		path       string
		cookie     string
		bearer     string
		wantStatus int
	}{
		{name: "login page is public", method: http.MethodGet, path: "/login", wantStatus: http.StatusOK},
		{name: "valid session", method: http.MethodGet, path: "/todos", cookie: token, wantStatus: http.StatusOK},
		{name: "deleted user", method: http.MethodGet, path: "/todos", cookie: ghost, wantStatus: http.StatusFound},
		{name: "api without token", method: http.MethodGet, path: "/api/todos", wantStatus: http.StatusUnauthorized},
		{name: "api with token", method: http.MethodGet, path: "/api/todos", bearer: token, wantStatus: http.StatusOK},
		{name: "api preflight", method: http.MethodOptions, path: "/api/todos", wantStatus: http.StatusOK},
		{name: "non numeric id", method: http.MethodGet, path: "/toggle-todo/abc", cookie: token, wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/add-todo", cookie: token, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_FormsRequireCSRFToken(t *testing.T) {
	h, m := newHandlers()
	m.auth.On("CurrentUser", mock.Anything, "alice").Return(alice, nil)
	router := handlers.NewRouter(h, handlers.RouterOptions{CSRFSecret: "csrf"})

	token, _, err := h.Sessions.Issue("alice")
	require.NoError(t, err)

	req := postForm("/create-post", url.Values{"content": {"hi"}})
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	m.forum.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     []handlers.HealthCheck
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all up",
			checks:     []handlers.HealthCheck{{Name: "database", Check: func(context.Context) error { return nil }}},
			wantStatus: http.StatusOK,
			wantBody:   `"database":"ok"`,
		},
		{
			name:       "storage down",
			checks:     []handlers.HealthCheck{{Name: "storage", Check: func(context.Context) error { return errors.New("bucket gone") }}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `"storage":"unavailable"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandlers()
			h.HealthChecks = tt.checks

			rr := serve(h.Health, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			assert.NotContains(t, rr.Body.String(), "bucket gone")
		})
	}
}
