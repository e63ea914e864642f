package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"todoforum/internal/models"
)

var ErrNotFound = errors.New("not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUsersByLoginType(ctx context.Context, loginType models.LoginType) ([]models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	VerifyPassword(ctx context.Context, username, password string) (*models.User, error)
}

type TodoRepository interface {
	Create(ctx context.Context, todo *models.Todo) error
	GetByID(ctx context.Context, todoID int64) (*models.Todo, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Todo, error)
	SetCompleted(ctx context.Context, todoID int64, completed bool) error
	Delete(ctx context.Context, todoID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID int64) (*models.Post, error)
	ListRecent(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]models.Post, error)
	Delete(ctx context.Context, postID int64) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	DeleteByPost(ctx context.Context, postID int64) error
	DeleteByAuthor(ctx context.Context, authorID int64) error
}

// ReactionRepository is shared by likes and complaints: both are (post, user) pairs.
type ReactionRepository interface {
	Find(ctx context.Context, postID, userID int64) (*models.Reaction, error)
	Add(ctx context.Context, postID, userID int64) error
	Remove(ctx context.Context, reactionID int64) error
	CountByPost(ctx context.Context, postID int64) (int, error)
	DeleteByPost(ctx context.Context, postID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// TxFunc runs fn against a Repository whose stores share one transaction.
type TxFunc func(ctx context.Context, fn func(repo *Repository) error) error

type Repository struct {
	User      UserRepository
	Todo      TodoRepository
	Post      PostRepository
	Comment   CommentRepository
	Like      ReactionRepository
	Complaint ReactionRepository
	Atomic    TxFunc
}

// InTx runs fn atomically when the backing store supports it and directly otherwise.
func (r *Repository) InTx(ctx context.Context, fn func(repo *Repository) error) error {
	if r.Atomic == nil {
		return fn(r)
	}
	return r.Atomic(ctx, fn)
}

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// NewRepository wires the SQL implementations. The user store can be swapped afterwards.
func NewRepository(db *sqlx.DB) *Repository {
	repo := newSQLRepository(db)
	repo.Atomic = func(ctx context.Context, fn func(repo *Repository) error) error {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if err := fn(newSQLRepository(tx)); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}
	return repo
}

func newSQLRepository(db DBTX) *Repository {
	return &Repository{
		User:      NewUserRepository(db),
		Todo:      NewTodoRepository(db),
		Post:      NewPostRepository(db),
		Comment:   NewCommentRepository(db),
		Like:      NewLikeRepository(db),
		Complaint: NewComplaintRepository(db),
	}
}

var (
	_ TodoRepository     = (*TodoRepositoryImpl)(nil)
	_ PostRepository     = (*PostRepositoryImpl)(nil)
	_ CommentRepository  = (*CommentRepositoryImpl)(nil)
	_ ReactionRepository = (*ReactionRepositoryImpl)(nil)
)
