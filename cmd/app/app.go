package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"todoforum/internal/config"
	"todoforum/internal/database"
	handlers "todoforum/internal/handler"
	"todoforum/internal/repository"
	"todoforum/internal/repository/credfile"
	"todoforum/internal/repository/memory"
	"todoforum/internal/service"
	"todoforum/internal/session"
	"todoforum/internal/storage"
)

type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Handler  http.Handler
}

// New wires the application. The SQL drivers back every store; the memory driver keeps todos and the
// forum in process memory and reads users from the credential file.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	a := &App{}
	var checks []handlers.HealthCheck

	if cfg.UsesSQL() {
		db, err := database.ConnectDB(cfg, log)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.Repo = repository.NewRepository(db.DB)
		checks = append(checks, handlers.HealthCheck{
			Name:  "database",
			Check: func(context.Context) error { return db.HealthCheck() },
		})
	} else {
		blobs, err := credentialStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}

		users, err := credfile.Open(ctx, blobs, cfg.Credentials.Object, cfg.Admin.Username)
		if err != nil {
			return nil, err
		}

		a.Repo = memory.NewRepository(memory.NewStore())
		a.Repo.User = users
		checks = append(checks, handlers.HealthCheck{Name: "storage", Check: blobs.HealthCheck})
		log.WithField("backend", cfg.Credentials.Backend).Warn("todos and forum are kept in memory and lost on restart")
	}

	birthdateLogin := cfg.UsesSQL()
	a.Services = service.NewService(a.Repo, birthdateLogin, log)

	if err := a.Services.Auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		a.Close()
		return nil, err
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionDuration, cfg.SecureCookies)
	h := handlers.NewHandlers(a.Services, sessions, birthdateLogin, log, checks...)

	csrfSecret := cfg.CSRFKey
	if csrfSecret == "" {
		csrfSecret = cfg.SessionSecret
	}
	a.Handler = handlers.NewRouter(h, handlers.RouterOptions{CSRFSecret: csrfSecret, SecureCookies: cfg.SecureCookies})

	return a, nil
}

func credentialStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Credentials.Backend {
	case config.CredentialsFile:
		return storage.NewFileStorage(cfg.Credentials.Dir)
	case config.CredentialsMinIO:
		return storage.NewMinIOClient(ctx, cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported credentials backend %q", cfg.Credentials.Backend)
	}
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.CloseDB()
}
