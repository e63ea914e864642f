package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"

	"todoforum/internal/logger"
	"todoforum/internal/repository"
	"todoforum/internal/session"
)

type Middleware func(http.Handler) http.Handler

// IdentityResolver turns a session subject into the caller's current identity.
type IdentityResolver interface {
	CurrentUser(ctx context.Context, username string) (session.Identity, error)
}

type requestIDKey struct{}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Chain applies middlewares so that the first one listed runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func Logging(log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()
			w.Header().Set("X-Request-ID", requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID)))

			log.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
			}).Info("request handled")
		})
	}
}

func Recover(log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithFields(logrus.Fields{
						"request_id": RequestID(r.Context()),
						"path":       r.URL.Path,
						"panic":      rec,
					}).Error("handler panicked")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// PlaintextCSRF tells gorilla/csrf the site is served over plain HTTP so it skips the TLS-only referer check.
func PlaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func resolve(r *http.Request, resolver IdentityResolver, username string, log logrus.FieldLogger) (session.Identity, bool) {
	id, err := resolver.CurrentUser(r.Context(), username)
	if err == nil {
		return id, true
	}
	if !errors.Is(err, repository.ErrNotFound) {
		logger.LogError(log, "failed to resolve session user", err, logrus.Fields{
			"request_id": RequestID(r.Context()),
			"username":   username,
		})
	}
	return session.Identity{}, false
}

// RequireSession sends callers without a valid session cookie to the login page.
func RequireSession(sessions *session.Manager, resolver IdentityResolver, log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := sessions.FromRequest(r)
			if err != nil {
				sessions.Clear(w)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			id, ok := resolve(r, resolver, username, log)
			if !ok {
				sessions.Clear(w)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), id)))
		})
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// RequireBearer is the API counterpart of RequireSession. It answers 401 instead of redirecting.
func RequireBearer(sessions *session.Manager, resolver IdentityResolver, log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := sessions.FromBearer(r)
			if errors.Is(err, session.ErrNoToken) {
				unauthorized(w, "authorization required")
				return
			}
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			id, ok := resolve(r, resolver, username, log)
			if !ok {
				unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), id)))
		})
	}
}
