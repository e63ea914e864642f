package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"todoforum/internal/repository"
)

type Service struct {
	Auth        AuthService
	Todo        TodoService
	Forum       ForumService
	Leaderboard LeaderboardService
	User        UserService
}

// NewService wires every service over one repository set. requireBirthdate selects the login variant.
func NewService(repo *repository.Repository, requireBirthdate bool, log logrus.FieldLogger) *Service {
	validate := validator.New()

	return &Service{
		Auth:        NewAuthService(repo.User, requireBirthdate, log),
		Todo:        NewTodoService(repo.Todo, validate),
		Forum:       NewForumService(repo),
		Leaderboard: NewLeaderboardService(repo),
		User:        NewUserService(repo, validate),
	}
}
