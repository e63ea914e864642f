package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"todoforum/internal/service"
)

func (h *Handlers) Todos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.TodoService.List(r.Context(), identity(r).UserID)
	if err != nil {
		h.serverError(w, r, "failed to list todos", err)
		return
	}
	h.render(w, r, http.StatusOK, "todos.html", page{Todos: todos})
}

func (h *Handlers) AddTodo(w http.ResponseWriter, r *http.Request) {
	req := service.AddTodoRequest{
		Task:     r.PostFormValue("task"),
		Date:     r.PostFormValue("date"),
		Time:     r.PostFormValue("time"),
		Priority: r.PostFormValue("priority"),
	}

	if _, err := h.TodoService.Add(r.Context(), identity(r).UserID, req); err != nil {
		var invalid validator.ValidationErrors
		if !errors.As(err, &invalid) {
			h.serverError(w, r, "failed to add todo", err)
			return
		}
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (h *Handlers) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	if todoID, ok := pathID(r, "id"); ok {
		if err := h.TodoService.Toggle(r.Context(), identity(r).UserID, todoID); err != nil {
			h.serverError(w, r, "failed to toggle todo", err)
			return
		}
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if todoID, ok := pathID(r, "id"); ok {
		if err := h.TodoService.Delete(r.Context(), identity(r).UserID, todoID); err != nil {
			h.serverError(w, r, "failed to delete todo", err)
			return
		}
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (h *Handlers) APITodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.TodoService.List(r.Context(), identity(r).UserID)
	if err != nil {
		h.apiError(w, r, "failed to list todos", err)
		return
	}
	writeSuccess(w, map[string]interface{}{"todos": todos}, http.StatusOK)
}

func (h *Handlers) APICreateTodo(w http.ResponseWriter, r *http.Request) {
	var req service.AddTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	todo, err := h.TodoService.Add(r.Context(), identity(r).UserID, req)
	if err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			WriteError(w, "invalid todo", http.StatusBadRequest)
			return
		}
		h.apiError(w, r, "failed to add todo", err)
		return
	}
	if todo == nil {
		WriteError(w, "task is required", http.StatusBadRequest)
		return
	}

	writeSuccess(w, todo, http.StatusCreated)
}
