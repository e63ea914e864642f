package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todoforum/internal/models"
)

type TodoRepositoryImpl struct {
	db DBTX
}

func NewTodoRepository(db DBTX) *TodoRepositoryImpl {
	return &TodoRepositoryImpl{db: db}
}

func (r *TodoRepositoryImpl) Create(ctx context.Context, todo *models.Todo) error {
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO todos (task, date, time, priority, completed, created_at, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.db.GetContext(ctx, &todo.ID, query,
		todo.Task, todo.Date, todo.Time, todo.Priority, todo.Completed, todo.CreatedAt, todo.UserID)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

func (r *TodoRepositoryImpl) GetByID(ctx context.Context, todoID int64) (*models.Todo, error) {
	var todo models.Todo

	err := r.db.GetContext(ctx, &todo, r.db.Rebind(`SELECT * FROM todos WHERE id = ?`), todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo %d: %w", todoID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return &todo, nil
}

// ListByUser returns the todos unordered; ranking happens in the service.
func (r *TodoRepositoryImpl) ListByUser(ctx context.Context, userID int64) ([]models.Todo, error) {
	var todos []models.Todo

	err := r.db.SelectContext(ctx, &todos, r.db.Rebind(`SELECT * FROM todos WHERE user_id = ?`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepositoryImpl) SetCompleted(ctx context.Context, todoID int64, completed bool) error {
	query := r.db.Rebind(`UPDATE todos SET completed = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, completed, todoID)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("todo %d: %w", todoID, ErrNotFound)
	}

	return nil
}

func (r *TodoRepositoryImpl) Delete(ctx context.Context, todoID int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM todos WHERE id = ?`), todoID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("todo %d: %w", todoID, ErrNotFound)
	}

	return nil
}

func (r *TodoRepositoryImpl) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM todos WHERE user_id = ?`), userID)
	if err != nil {
		return fmt.Errorf("failed to delete todos of user %d: %w", userID, err)
	}

	return nil
}
