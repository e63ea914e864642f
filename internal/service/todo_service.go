package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"todoforum/internal/models"
	"todoforum/internal/repository"
)

type AddTodoRequest struct {
	Task     string `json:"task" validate:"max=200"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time     string `json:"time" validate:"omitempty,datetime=15:04"`
	Priority string `json:"priority"`
}

type TodoService interface {
	List(ctx context.Context, userID int64) ([]models.Todo, error)
	Add(ctx context.Context, userID int64, req AddTodoRequest) (*models.Todo, error)
	Toggle(ctx context.Context, userID, todoID int64) error
	Delete(ctx context.Context, userID, todoID int64) error
}

type todoService struct {
	todoRepo repository.TodoRepository
	validate *validator.Validate
}

func NewTodoService(todoRepo repository.TodoRepository, validate *validator.Validate) TodoService {
	return &todoService{
		todoRepo: todoRepo,
		validate: validate,
	}
}

// RankTodos orders open todos before completed ones, then by priority, then newest first.
// The sort is stable, so equal keys keep their input order.
func RankTodos(todos []models.Todo) []models.Todo {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return todos
}

func (s *todoService) List(ctx context.Context, userID int64) ([]models.Todo, error) {
	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return RankTodos(todos), nil
}

// Add returns a nil todo without error when the task is empty.
func (s *todoService) Add(ctx context.Context, userID int64, req AddTodoRequest) (*models.Todo, error) {
	req.Task = strings.TrimSpace(req.Task)
	if req.Task == "" {
		return nil, nil
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid todo: %w", err)
	}

	todo := &models.Todo{
		Task:     req.Task,
		Date:     req.Date,
		Time:     req.Time,
		Priority: normalizePriority(req.Priority),
		UserID:   userID,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func normalizePriority(value string) models.Priority {
	switch p := models.Priority(value); p {
	case models.PriorityUrgent, models.PriorityMedium, models.PriorityLow:
		return p
	default:
		return models.PriorityMedium
	}
}

func (s *todoService) owned(ctx context.Context, userID, todoID int64) (*models.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if todo.UserID != userID {
		return nil, nil
	}
	return todo, nil
}

func (s *todoService) Toggle(ctx context.Context, userID, todoID int64) error {
	todo, err := s.owned(ctx, userID, todoID)
	if err != nil || todo == nil {
		return err
	}
	return s.todoRepo.SetCompleted(ctx, todo.ID, !todo.Completed)
}

func (s *todoService) Delete(ctx context.Context, userID, todoID int64) error {
	todo, err := s.owned(ctx, userID, todoID)
	if err != nil || todo == nil {
		return err
	}
	return s.todoRepo.Delete(ctx, todo.ID)
}
