package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"todoforum/internal/logger"
	"todoforum/internal/middleware"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) logError(r *http.Request, msg string, err error) {
	logger.LogError(h.Log, msg, err, logrus.Fields{
		"request_id": middleware.RequestID(r.Context()),
		"path":       r.URL.Path,
	})
}

// serverError logs err and renders the generic error page.
func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logError(r, msg, err)
	h.render(w, r, http.StatusInternalServerError, "error.html", page{Error: "Something went wrong. Please try again later."})
}

// apiError is serverError for JSON clients.
func (h *Handlers) apiError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logError(r, msg, err)
	WriteError(w, "internal server error", http.StatusInternalServerError)
}
