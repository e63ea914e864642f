package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"todoforum/internal/models"
	"todoforum/internal/repository"
	"todoforum/internal/repository/credfile"
	"todoforum/internal/repository/memory"
	"todoforum/internal/session"
	"todoforum/internal/storage"
)

var admin = session.Identity{UserID: 1, Username: "admin", Admin: true}

func quietLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

// newTestRepository backs users with a credential file in a temp dir and everything else with memory.
func newTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	blobs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	users, err := credfile.Open(context.Background(), blobs, "users.json", "admin")
	require.NoError(t, err)

	repo := memory.NewRepository(memory.NewStore())
	repo.User = users
	return repo
}

func createUser(t *testing.T, repo *repository.Repository, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, LoginType: models.LoginTypeBirth}
	require.NoError(t, repo.User.CreateUser(context.Background(), user, "pw"))
	return user
}

func identity(user *models.User) session.Identity {
	return session.Identity{UserID: user.ID, Username: user.Username, Admin: user.IsAdmin()}
}
