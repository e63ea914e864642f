package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todoforum/internal/models"
)

type PostRepositoryImpl struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO posts (content, author_id, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	err := r.db.GetContext(ctx, &post.ID, query, post.Content, post.AuthorID, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	var post models.Post

	err := r.db.GetContext(ctx, &post, r.db.Rebind(`SELECT * FROM posts WHERE id = ?`), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) ListRecent(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post

	err := r.db.SelectContext(ctx, &posts, `SELECT * FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) ListByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	var posts []models.Post

	err := r.db.SelectContext(ctx, &posts, r.db.Rebind(`SELECT * FROM posts WHERE author_id = ? ORDER BY id`), authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts of author %d: %w", authorID, err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM posts WHERE id = ?`), postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}

	return nil
}
