package handlers

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"todoforum/internal/middleware"
)

type RouterOptions struct {
	// CSRFSecret is hashed into the 32-byte key gorilla/csrf expects.
	CSRFSecret    string
	SecureCookies bool
}

func (h *Handlers) csrfFailure(w http.ResponseWriter, r *http.Request) {
	h.logError(r, "csrf validation failed", csrf.FailureReason(r))
	h.render(w, r, http.StatusForbidden, "error.html", page{Error: "Your form has expired. Please go back and try again."})
}

// NewRouter mounts the public routes, the bearer-protected API and the session-protected HTML pages.
func NewRouter(h *Handlers, opts RouterOptions) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.CORS)
	api.HandleFunc("/login", h.APILogin).Methods(http.MethodPost, http.MethodOptions)

	authedAPI := api.NewRoute().Subrouter()
	authedAPI.Use(mux.MiddlewareFunc(middleware.RequireBearer(h.Sessions, h.AuthService, h.Log)))
	authedAPI.HandleFunc("/todos", h.APITodos).Methods(http.MethodGet, http.MethodOptions)
	authedAPI.HandleFunc("/todos", h.APICreateTodo).Methods(http.MethodPost)
	authedAPI.HandleFunc("/posts", h.APIPosts).Methods(http.MethodGet, http.MethodOptions)

	key := sha256.Sum256([]byte(opts.CSRFSecret))
	protect := csrf.Protect(key[:],
		csrf.Secure(opts.SecureCookies),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(h.csrfFailure)),
	)

	pages := r.NewRoute().Subrouter()
	if !opts.SecureCookies {
		pages.Use(middleware.PlaintextCSRF)
	}
	pages.Use(protect)
	pages.HandleFunc("/login", h.LoginPage).Methods(http.MethodGet)
	pages.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	pages.HandleFunc("/logout", h.Logout).Methods(http.MethodGet)

	gated := pages.NewRoute().Subrouter()
	gated.Use(mux.MiddlewareFunc(middleware.RequireSession(h.Sessions, h.AuthService, h.Log)))
	gated.HandleFunc("/", h.Dashboard).Methods(http.MethodGet)

	gated.HandleFunc("/todos", h.Todos).Methods(http.MethodGet)
	gated.HandleFunc("/add-todo", h.AddTodo).Methods(http.MethodPost)
	gated.HandleFunc("/toggle-todo/{id:[0-9]+}", h.ToggleTodo).Methods(http.MethodGet)
	gated.HandleFunc("/delete-todo/{id:[0-9]+}", h.DeleteTodo).Methods(http.MethodGet)

	gated.HandleFunc("/user-management", h.UserManagement).Methods(http.MethodGet)
	gated.HandleFunc("/create-user", h.CreateUser).Methods(http.MethodPost)
	gated.HandleFunc("/delete-user/{username}", h.DeleteUser).Methods(http.MethodGet)
	gated.HandleFunc("/view-user-todos/{username}", h.ViewUserTodos).Methods(http.MethodGet)

	gated.HandleFunc("/forum", h.Forum).Methods(http.MethodGet)
	gated.HandleFunc("/create-post", h.CreatePost).Methods(http.MethodPost)
	gated.HandleFunc("/create-comment/{post_id:[0-9]+}", h.CreateComment).Methods(http.MethodPost)
	gated.HandleFunc("/toggle-like/{post_id:[0-9]+}", h.ToggleLike).Methods(http.MethodGet)
	gated.HandleFunc("/toggle-complaint/{post_id:[0-9]+}", h.ToggleComplaint).Methods(http.MethodGet)
	gated.HandleFunc("/delete-post/{post_id:[0-9]+}", h.DeletePost).Methods(http.MethodGet)

	gated.HandleFunc("/group-leader", h.GroupLeader).Methods(http.MethodGet)

	return middleware.Chain(r, middleware.Logging(h.Log), middleware.Recover(h.Log))
}
