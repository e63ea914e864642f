package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"todoforum/internal/models"
	"todoforum/internal/service"
)

const (
	msgAdminLoginFailed = "Incorrect username or password."
	msgBirthLoginFailed = "Incorrect username, password or birthdate."
	msgUnknownUsername  = "This username has not been provisioned, please contact the administrator."
	msgMissingFields    = "Please fill in all required fields"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func loginType(value string) models.LoginType {
	if value == string(models.LoginTypeAdmin) {
		return models.LoginTypeAdmin
	}
	return models.LoginTypeBirth
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return msgAdminLoginFailed
	case errors.Is(err, service.ErrInvalidBirthCredentials):
		return msgBirthLoginFailed
	case errors.Is(err, service.ErrUnknownUsername):
		return msgUnknownUsername
	default:
		return ""
	}
}

func (h *Handlers) missingLoginFields(req service.LoginRequest) bool {
	if req.Username == "" || req.Password == "" {
		return true
	}
	return h.BirthdateLogin && req.Type == models.LoginTypeBirth && req.Birthdate == ""
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", page{
		LoginType: loginType(r.URL.Query().Get("type")),
		Birthdate: h.BirthdateLogin,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req := service.LoginRequest{
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		Password:  r.PostFormValue("password"),
		Birthdate: strings.TrimSpace(r.PostFormValue("birthdate")),
		Type:      loginType(r.PostFormValue("login_type")),
	}
	data := page{LoginType: req.Type, Birthdate: h.BirthdateLogin}

	if h.missingLoginFields(req) {
		data.Error = msgMissingFields
		h.render(w, r, http.StatusOK, "login.html", data)
		return
	}

	user, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		if msg := loginMessage(err); msg != "" {
			data.Error = msg
			h.render(w, r, http.StatusOK, "login.html", data)
			return
		}
		h.serverError(w, r, "login failed", err)
		return
	}

	token, expires, err := h.Sessions.Issue(user.Username)
	if err != nil {
		h.serverError(w, r, "failed to issue session", err)
		return
	}

	h.Sessions.SetCookie(w, token, expires)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "dashboard.html", page{})
}

// APILogin issues a bearer token for the mobile clients.
func (h *Handlers) APILogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Type = loginType(string(req.Type))

	if err := h.Validate.Struct(req); err != nil || h.missingLoginFields(req) {
		WriteError(w, msgMissingFields, http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		if msg := loginMessage(err); msg != "" {
			WriteError(w, msg, http.StatusUnauthorized)
			return
		}
		h.apiError(w, r, "api login failed", err)
		return
	}

	token, _, err := h.Sessions.Issue(user.Username)
	if err != nil {
		h.apiError(w, r, "failed to issue token", err)
		return
	}

	writeSuccess(w, LoginResponse{Token: token, User: *user}, http.StatusOK)
}
