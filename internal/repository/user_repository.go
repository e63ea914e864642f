package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todoforum/internal/models"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO users (username, password, login_type, birthdate, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err = r.db.GetContext(ctx, &user.ID, query,
		user.Username, user.PasswordHash, user.LoginType, user.Birthdate, user.CreatedBy, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Username, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	query := r.db.Rebind(`SELECT * FROM users WHERE id = ?`)

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	query := r.db.Rebind(`SELECT * FROM users WHERE username = ?`)

	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User

	err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) ListUsersByLoginType(ctx context.Context, loginType models.LoginType) ([]models.User, error) {
	var users []models.User

	query := r.db.Rebind(`SELECT * FROM users WHERE login_type = ? ORDER BY id`)

	err := r.db.SelectContext(ctx, &users, query, loginType)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s users: %w", loginType, err)
	}

	return users, nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	query := r.db.Rebind(`DELETE FROM users WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with id %d: %w", userID, ErrNotFound)
	}

	return nil
}

func (r *userRepository) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	return user, nil
}
