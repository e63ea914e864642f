package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todoforum/internal/models"
	"todoforum/internal/repository"
	"todoforum/internal/session"
)

const unknownAuthor = "unknown"

type ForumService interface {
	Feed(ctx context.Context, viewerID int64) ([]models.PostView, error)
	CreatePost(ctx context.Context, authorID int64, content string) (*models.Post, error)
	CreateComment(ctx context.Context, postID, authorID int64, content string) (*models.Comment, error)
	ToggleLike(ctx context.Context, postID, userID int64) (bool, error)
	ToggleComplaint(ctx context.Context, postID, userID int64) (bool, error)
	DeletePost(ctx context.Context, actor session.Identity, postID int64) error
}

type forumService struct {
	repo *repository.Repository
}

func NewForumService(repo *repository.Repository) ForumService {
	return &forumService{repo: repo}
}

func (s *forumService) Feed(ctx context.Context, viewerID int64) ([]models.PostView, error) {
	posts, err := s.repo.Post.ListRecent(ctx)
	if err != nil {
		return nil, err
	}

	names := authorNames{users: s.repo.User, cache: make(map[int64]string)}
	feed := make([]models.PostView, 0, len(posts))

	for _, post := range posts {
		view := models.PostView{Post: post}

		if view.AuthorName, err = names.lookup(ctx, post.AuthorID); err != nil {
			return nil, err
		}
		if view.LikeCount, err = s.repo.Like.CountByPost(ctx, post.ID); err != nil {
			return nil, err
		}
		if view.ComplaintCount, err = s.repo.Complaint.CountByPost(ctx, post.ID); err != nil {
			return nil, err
		}
		if view.Liked, err = hasReaction(ctx, s.repo.Like, post.ID, viewerID); err != nil {
			return nil, err
		}
		if view.Complained, err = hasReaction(ctx, s.repo.Complaint, post.ID, viewerID); err != nil {
			return nil, err
		}

		comments, err := s.repo.Comment.ListByPost(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		view.Comments = make([]models.CommentView, 0, len(comments))
		for _, comment := range comments {
			name, err := names.lookup(ctx, comment.AuthorID)
			if err != nil {
				return nil, err
			}
			view.Comments = append(view.Comments, models.CommentView{Comment: comment, AuthorName: name})
		}

		feed = append(feed, view)
	}

	return feed, nil
}

type authorNames struct {
	users repository.UserRepository
	cache map[int64]string
}

func (a *authorNames) lookup(ctx context.Context, userID int64) (string, error) {
	if name, ok := a.cache[userID]; ok {
		return name, nil
	}

	user, err := a.users.GetUserByID(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		a.cache[userID] = unknownAuthor
	case err != nil:
		return "", err
	default:
		a.cache[userID] = user.Username
	}
	return a.cache[userID], nil
}

func hasReaction(ctx context.Context, reactions repository.ReactionRepository, postID, userID int64) (bool, error) {
	_, err := reactions.Find(ctx, postID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// postExists treats a missing post as a no-op target rather than an error.
func (s *forumService) postExists(ctx context.Context, postID int64) (bool, error) {
	_, err := s.repo.Post.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *forumService) CreatePost(ctx context.Context, authorID int64, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	post := &models.Post{Content: content, AuthorID: authorID}
	if err := s.repo.Post.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *forumService) CreateComment(ctx context.Context, postID, authorID int64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	exists, err := s.postExists(ctx, postID)
	if err != nil || !exists {
		return nil, err
	}

	comment := &models.Comment{Content: content, PostID: postID, AuthorID: authorID}
	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *forumService) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	return s.toggle(ctx, s.repo.Like, postID, userID)
}

func (s *forumService) ToggleComplaint(ctx context.Context, postID, userID int64) (bool, error) {
	return s.toggle(ctx, s.repo.Complaint, postID, userID)
}

// toggle reports whether the reaction is present afterwards.
func (s *forumService) toggle(ctx context.Context, reactions repository.ReactionRepository, postID, userID int64) (bool, error) {
	exists, err := s.postExists(ctx, postID)
	if err != nil || !exists {
		return false, err
	}

	reaction, err := reactions.Find(ctx, postID, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if err := reactions.Add(ctx, postID, userID); err != nil {
			return false, err
		}
		return true, nil
	case err != nil:
		return false, err
	}

	if err := reactions.Remove(ctx, reaction.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return true, err
	}
	return false, nil
}

func (s *forumService) DeletePost(ctx context.Context, actor session.Identity, postID int64) error {
	if !actor.Admin {
		return ErrForbidden
	}

	exists, err := s.postExists(ctx, postID)
	if err != nil || !exists {
		return err
	}

	return s.repo.InTx(ctx, func(repo *repository.Repository) error {
		return deletePostCascade(ctx, repo, postID)
	})
}

func deletePostCascade(ctx context.Context, repo *repository.Repository, postID int64) error {
	if err := repo.Comment.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete comments of post %d: %w", postID, err)
	}
	if err := repo.Like.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete likes of post %d: %w", postID, err)
	}
	if err := repo.Complaint.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete complaints of post %d: %w", postID, err)
	}
	if err := repo.Post.Delete(ctx, postID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete post %d: %w", postID, err)
	}
	return nil
}
