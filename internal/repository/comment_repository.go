package repository

import (
	"context"
	"fmt"
	"time"

	"todoforum/internal/models"
)

type CommentRepositoryImpl struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepositoryImpl {
	return &CommentRepositoryImpl{db: db}
}

func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *models.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO comments (content, post_id, author_id, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	err := r.db.GetContext(ctx, &comment.ID, query, comment.Content, comment.PostID, comment.AuthorID, comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *CommentRepositoryImpl) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment

	query := r.db.Rebind(`SELECT * FROM comments WHERE post_id = ? ORDER BY created_at, id`)

	err := r.db.SelectContext(ctx, &comments, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

func (r *CommentRepositoryImpl) DeleteByPost(ctx context.Context, postID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM comments WHERE post_id = ?`), postID)
	if err != nil {
		return fmt.Errorf("failed to delete comments of post %d: %w", postID, err)
	}

	return nil
}

func (r *CommentRepositoryImpl) DeleteByAuthor(ctx context.Context, authorID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM comments WHERE author_id = ?`), authorID)
	if err != nil {
		return fmt.Errorf("failed to delete comments of user %d: %w", authorID, err)
	}

	return nil
}
