package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"todoforum/internal/models"
	"todoforum/internal/repository"
	"todoforum/internal/session"
)

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Birthdate string `json:"birthdate" validate:"required,datetime=2006-01-02"`
}

type UserService interface {
	ListManaged(ctx context.Context, actor session.Identity) ([]models.User, error)
	Create(ctx context.Context, actor session.Identity, req CreateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor session.Identity, username string) error
	Todos(ctx context.Context, actor session.Identity, username string) (*models.User, []models.Todo, error)
}

type userService struct {
	repo     *repository.Repository
	validate *validator.Validate
}

func NewUserService(repo *repository.Repository, validate *validator.Validate) UserService {
	return &userService{
		repo:     repo,
		validate: validate,
	}
}

func (s *userService) ListManaged(ctx context.Context, actor session.Identity) ([]models.User, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}
	return s.repo.User.ListUsersByLoginType(ctx, models.LoginTypeBirth)
}

func (s *userService) Create(ctx context.Context, actor session.Identity, req CreateUserRequest) (*models.User, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Birthdate = strings.TrimSpace(req.Birthdate)
	if req.Username == "" || req.Password == "" || req.Birthdate == "" {
		return nil, ErrMissingField
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, ErrInvalidBirthdate
	}

	if _, err := s.repo.User.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	createdBy := actor.Username
	birthdate := req.Birthdate
	user := &models.User{
		Username:  req.Username,
		LoginType: models.LoginTypeBirth,
		Birthdate: &birthdate,
		CreatedBy: &createdBy,
	}

	if err := s.repo.User.CreateUser(ctx, user, req.Password); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the account and everything it owns. Posts are removed together with the
// comments and reactions other users left on them.
func (s *userService) Delete(ctx context.Context, actor session.Identity, username string) error {
	if !actor.Admin {
		return ErrForbidden
	}
	if username == actor.Username {
		return ErrSelfDelete
	}

	user, err := s.repo.User.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.repo.InTx(ctx, func(repo *repository.Repository) error {
		if err := repo.Todo.DeleteByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete todos of %s: %w", username, err)
		}
		if err := repo.Like.DeleteByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete likes of %s: %w", username, err)
		}
		if err := repo.Complaint.DeleteByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete complaints of %s: %w", username, err)
		}
		if err := repo.Comment.DeleteByAuthor(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete comments of %s: %w", username, err)
		}

		posts, err := repo.Post.ListByAuthor(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, post := range posts {
			if err := deletePostCascade(ctx, repo, post.ID); err != nil {
				return err
			}
		}

		if err := repo.User.DeleteUser(ctx, user.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to delete user %s: %w", username, err)
		}
		return nil
	})
}

func (s *userService) Todos(ctx context.Context, actor session.Identity, username string) (*models.User, []models.Todo, error) {
	if !actor.Admin {
		return nil, nil, ErrForbidden
	}

	user, err := s.repo.User.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	todos, err := s.repo.Todo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, RankTodos(todos), nil
}
