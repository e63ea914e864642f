package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"todoforum/internal/service"
	"todoforum/internal/session"
)

// HealthCheck is one named dependency probed by /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Handlers struct {
	AuthService        service.AuthService
	TodoService        service.TodoService
	ForumService       service.ForumService
	LeaderboardService service.LeaderboardService
	UserService        service.UserService
	Sessions           *session.Manager
	HealthChecks       []HealthCheck
	BirthdateLogin     bool
	Log                logrus.FieldLogger
	Validate           *validator.Validate
}

func NewHandlers(services *service.Service, sessions *session.Manager, birthdateLogin bool, log logrus.FieldLogger, checks ...HealthCheck) *Handlers {
	return &Handlers{
		AuthService:        services.Auth,
		TodoService:        services.Todo,
		ForumService:       services.Forum,
		LeaderboardService: services.Leaderboard,
		UserService:        services.User,
		Sessions:           sessions,
		HealthChecks:       checks,
		BirthdateLogin:     birthdateLogin,
		Log:                log,
		Validate:           validator.New(),
	}
}
