package test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handlers "todoforum/internal/handler"
	"todoforum/internal/models"
	"todoforum/internal/service"
	"todoforum/internal/session"
)

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginPage(t *testing.T) {
	h, _ := newHandlers()

	tests := []struct {
		name     string
		target   string
		contains string
		absent   string
	}{
		{name: "birth login asks for birthdate", target: "/login", contains: `name="birthdate"`},
		{name: "admin login", target: "/login?type=admin", contains: "Administrator login", absent: `name="birthdate"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h.LoginPage, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.contains)
			if tt.absent != "" {
				assert.NotContains(t, rr.Body.String(), tt.absent)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name         string
		form         url.Values
		mockSetup    func(auth *MockAuthService)
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{
			name:       "missing birthdate",
			form:       url.Values{"username": {"alice"}, "password": {"pw"}},
			mockSetup:  func(auth *MockAuthService) {},
			wantStatus: http.StatusOK,
			wantBody:   "Please fill in all required fields",
		},
		{
			name: "unknown username",
			form: url.Values{"username": {"ghost"}, "password": {"pw"}, "birthdate": {"2000-01-01"}},
			mockSetup: func(auth *MockAuthService) {
				auth.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrUnknownUsername)
			},
			wantStatus: http.StatusOK,
			wantBody:   "has not been provisioned",
		},
		{
			name: "wrong admin password",
			form: url.Values{"username": {"root"}, "password": {"bad"}, "login_type": {"admin"}},
			mockSetup: func(auth *MockAuthService) {
				auth.On("Login", mock.Anything, service.LoginRequest{Username: "root", Password: "bad", Type: models.LoginTypeAdmin}).
					Return(nil, service.ErrInvalidCredentials)
			},
			wantStatus: http.StatusOK,
			wantBody:   "Incorrect username or password.",
		},
		{
			name: "store failure",
			form: url.Values{"username": {"root"}, "password": {"pw"}, "login_type": {"admin"}},
			mockSetup: func(auth *MockAuthService) {
				auth.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "success",
			form: url.Values{"username": {"alice"}, "password": {"pw"}, "birthdate": {"2000-01-01"}},
			mockSetup: func(auth *MockAuthService) {
				auth.On("Login", mock.Anything, service.LoginRequest{Username: "alice", Password: "pw", Birthdate: "2000-01-01", Type: models.LoginTypeBirth}).
					Return(&models.User{ID: 2, Username: "alice", LoginType: models.LoginTypeBirth}, nil)
			},
			wantStatus:   http.StatusFound,
			wantLocation: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newHandlers()
			tt.mockSetup(m.auth)

			rr := serve(h.Login, postForm("/login", tt.form))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
				cookies := rr.Result().Cookies()
				require.Len(t, cookies, 1)
				assert.Equal(t, session.CookieName, cookies[0].Name)

				username, err := h.Sessions.Parse(cookies[0].Value)
				require.NoError(t, err)
				assert.Equal(t, "alice", username)
			}
			m.auth.AssertExpectations(t)
		})
	}
}

func TestLogout(t *testing.T) {
	h, _ := newHandlers()

	rr := serve(h.Logout, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	require.Len(t, rr.Result().Cookies(), 1)
	assert.Equal(t, -1, rr.Result().Cookies()[0].MaxAge)
}

func TestAPILogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockSetup  func(auth *MockAuthService)
		wantStatus int
	}{
		{name: "bad json", body: "{", mockSetup: func(*MockAuthService) {}, wantStatus: http.StatusBadRequest},
		{name: "missing password", body: `{"username":"root","type":"admin"}`, mockSetup: func(*MockAuthService) {}, wantStatus: http.StatusBadRequest},
		{
			name: "rejected",
			body: `{"username":"root","password":"bad","type":"admin"}`,
			mockSetup: func(auth *MockAuthService) {
				auth.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "token issued",
			body: `{"username":"root","password":"pw","type":"admin"}`,
			mockSetup: func(auth *MockAuthService) {
				auth.On("Login", mock.Anything, mock.Anything).Return(&models.User{ID: 1, Username: "root", LoginType: models.LoginTypeAdmin}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newHandlers()
			tt.mockSetup(m.auth)

			req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(tt.body))
			rr := serve(h.APILogin, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var resp handlers.LoginResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				username, err := h.Sessions.Parse(resp.Token)
				require.NoError(t, err)
				assert.Equal(t, "root", username)
				assert.NotContains(t, rr.Body.String(), "password")
			}
		})
	}
}
