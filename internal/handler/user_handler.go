package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"todoforum/internal/repository"
	"todoforum/internal/service"
)

func createUserMessage(username string, err error) (string, bool) {
	switch {
	case err == nil:
		return fmt.Sprintf("User %s created successfully", username), true
	case errors.Is(err, service.ErrDuplicateUsername):
		return "Username already exists", false
	case errors.Is(err, service.ErrMissingField):
		return msgMissingFields, false
	case errors.Is(err, service.ErrInvalidBirthdate):
		return "Birthdate must be in YYYY-MM-DD format", false
	default:
		return "", false
	}
}

func (h *Handlers) UserManagement(w http.ResponseWriter, r *http.Request) {
	h.renderUserManagement(w, r, page{})
}

func (h *Handlers) renderUserManagement(w http.ResponseWriter, r *http.Request, data page) {
	users, err := h.UserService.ListManaged(r.Context(), identity(r))
	if errors.Is(err, service.ErrForbidden) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		h.serverError(w, r, "failed to list users", err)
		return
	}

	data.Users = users
	h.render(w, r, http.StatusOK, "user_management.html", data)
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	req := service.CreateUserRequest{
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		Birthdate: r.PostFormValue("birthdate"),
	}

	user, err := h.UserService.Create(r.Context(), identity(r), req)
	if errors.Is(err, service.ErrForbidden) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	username := req.Username
	if user != nil {
		username = user.Username
	}
	msg, ok := createUserMessage(username, err)
	if msg == "" {
		h.serverError(w, r, "failed to create user", err)
		return
	}

	h.renderUserManagement(w, r, page{Message: msg, Success: ok})
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.UserService.Delete(r.Context(), identity(r), mux.Vars(r)["username"])
	switch {
	case errors.Is(err, service.ErrForbidden):
		http.Redirect(w, r, "/", http.StatusFound)
		return
	case err != nil && !errors.Is(err, service.ErrSelfDelete):
		h.serverError(w, r, "failed to delete user", err)
		return
	}
	http.Redirect(w, r, "/user-management", http.StatusFound)
}

func (h *Handlers) ViewUserTodos(w http.ResponseWriter, r *http.Request) {
	user, todos, err := h.UserService.Todos(r.Context(), identity(r), mux.Vars(r)["username"])
	switch {
	case errors.Is(err, service.ErrForbidden):
		http.Redirect(w, r, "/", http.StatusFound)
		return
	case errors.Is(err, repository.ErrNotFound):
		http.Redirect(w, r, "/user-management", http.StatusFound)
		return
	case err != nil:
		h.serverError(w, r, "failed to load user todos", err)
		return
	}

	h.render(w, r, http.StatusOK, "user_todos.html", page{Todos: todos, TargetUser: user.Username})
}
