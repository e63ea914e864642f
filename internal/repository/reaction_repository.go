package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todoforum/internal/models"
)

const (
	likesTable      = "likes"
	complaintsTable = "complaints"
)

// ReactionRepositoryImpl stores (post, user) pairs in either the likes or the complaints table.
type ReactionRepositoryImpl struct {
	db    DBTX
	table string
}

func NewLikeRepository(db DBTX) *ReactionRepositoryImpl {
	return &ReactionRepositoryImpl{db: db, table: likesTable}
}

func NewComplaintRepository(db DBTX) *ReactionRepositoryImpl {
	return &ReactionRepositoryImpl{db: db, table: complaintsTable}
}

func (r *ReactionRepositoryImpl) Find(ctx context.Context, postID, userID int64) (*models.Reaction, error) {
	var reaction models.Reaction

	query := r.db.Rebind(fmt.Sprintf(`SELECT * FROM %s WHERE post_id = ? AND user_id = ?`, r.table))

	err := r.db.GetContext(ctx, &reaction, query, postID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s for post %d by user %d: %w", r.table, postID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find %s: %w", r.table, err)
	}

	return &reaction, nil
}

// Add inserts the pair; an existing pair is left untouched by the unique constraint.
func (r *ReactionRepositoryImpl) Add(ctx context.Context, postID, userID int64) error {
	query := r.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (post_id, user_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`, r.table))

	_, err := r.db.ExecContext(ctx, query, postID, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", r.table, err)
	}

	return nil
}

func (r *ReactionRepositoryImpl) Remove(ctx context.Context, reactionID int64) error {
	query := r.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table))

	result, err := r.db.ExecContext(ctx, query, reactionID)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", r.table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", r.table, reactionID, ErrNotFound)
	}

	return nil
}

func (r *ReactionRepositoryImpl) CountByPost(ctx context.Context, postID int64) (int, error) {
	var count int

	query := r.db.Rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE post_id = ?`, r.table))

	if err := r.db.GetContext(ctx, &count, query, postID); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}

	return count, nil
}

func (r *ReactionRepositoryImpl) DeleteByPost(ctx context.Context, postID int64) error {
	query := r.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE post_id = ?`, r.table))

	if _, err := r.db.ExecContext(ctx, query, postID); err != nil {
		return fmt.Errorf("failed to delete %s of post %d: %w", r.table, postID, err)
	}

	return nil
}

func (r *ReactionRepositoryImpl) DeleteByUser(ctx context.Context, userID int64) error {
	query := r.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE user_id = ?`, r.table))

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete %s of user %d: %w", r.table, userID, err)
	}

	return nil
}
