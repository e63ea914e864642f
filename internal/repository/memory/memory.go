// Package memory keeps todos and forum data in process memory. Everything is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"todoforum/internal/models"
	"todoforum/internal/repository"
)

type Store struct {
	mu         sync.RWMutex
	seq        int64
	now        func() time.Time
	todos      map[int64]models.Todo
	posts      map[int64]models.Post
	comments   map[int64]models.Comment
	likes      map[int64]models.Reaction
	complaints map[int64]models.Reaction
}

func NewStore() *Store {
	return &Store{
		now:        func() time.Time { return time.Now().UTC() },
		todos:      make(map[int64]models.Todo),
		posts:      make(map[int64]models.Post),
		comments:   make(map[int64]models.Comment),
		likes:      make(map[int64]models.Reaction),
		complaints: make(map[int64]models.Reaction),
	}
}

// NewRepository exposes the store through the repository interfaces. User is left for the caller.
func NewRepository(store *Store) *repository.Repository {
	return &repository.Repository{
		Todo:      &todoRepository{s: store},
		Post:      &postRepository{s: store},
		Comment:   &commentRepository{s: store},
		Like:      &reactionRepository{s: store, rows: store.likes, kind: "like"},
		Complaint: &reactionRepository{s: store, rows: store.complaints, kind: "complaint"},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

type todoRepository struct {
	s *Store
}

func (r *todoRepository) Create(_ context.Context, todo *models.Todo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	todo.ID = r.s.nextID()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = r.s.now()
	}
	r.s.todos[todo.ID] = *todo
	return nil
}

func (r *todoRepository) GetByID(_ context.Context, todoID int64) (*models.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	todo, ok := r.s.todos[todoID]
	if !ok {
		return nil, fmt.Errorf("todo %d: %w", todoID, repository.ErrNotFound)
	}
	return &todo, nil
}

func (r *todoRepository) ListByUser(_ context.Context, userID int64) ([]models.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var todos []models.Todo
	for _, todo := range r.s.todos {
		if todo.UserID == userID {
			todos = append(todos, todo)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (r *todoRepository) SetCompleted(_ context.Context, todoID int64, completed bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	todo, ok := r.s.todos[todoID]
	if !ok {
		return fmt.Errorf("todo %d: %w", todoID, repository.ErrNotFound)
	}
	todo.Completed = completed
	r.s.todos[todoID] = todo
	return nil
}

func (r *todoRepository) Delete(_ context.Context, todoID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.todos[todoID]; !ok {
		return fmt.Errorf("todo %d: %w", todoID, repository.ErrNotFound)
	}
	delete(r.s.todos, todoID)
	return nil
}

func (r *todoRepository) DeleteByUser(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, todo := range r.s.todos {
		if todo.UserID == userID {
			delete(r.s.todos, id)
		}
	}
	return nil
}

type postRepository struct {
	s *Store
}

func (r *postRepository) Create(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post.ID = r.s.nextID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = r.s.now()
	}
	r.s.posts[post.ID] = *post
	return nil
}

func (r *postRepository) GetByID(_ context.Context, postID int64) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	post, ok := r.s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", postID, repository.ErrNotFound)
	}
	return &post, nil
}

func (r *postRepository) ListRecent(_ context.Context) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := make([]models.Post, 0, len(r.s.posts))
	for _, post := range r.s.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func (r *postRepository) ListByAuthor(_ context.Context, authorID int64) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var posts []models.Post
	for _, post := range r.s.posts {
		if post.AuthorID == authorID {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (r *postRepository) Delete(_ context.Context, postID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[postID]; !ok {
		return fmt.Errorf("post %d: %w", postID, repository.ErrNotFound)
	}
	delete(r.s.posts, postID)
	return nil
}

type commentRepository struct {
	s *Store
}

func (r *commentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment.ID = r.s.nextID()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = r.s.now()
	}
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r *commentRepository) ListByPost(_ context.Context, postID int64) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var comments []models.Comment
	for _, comment := range r.s.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (r *commentRepository) DeleteByPost(_ context.Context, postID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, comment := range r.s.comments {
		if comment.PostID == postID {
			delete(r.s.comments, id)
		}
	}
	return nil
}

func (r *commentRepository) DeleteByAuthor(_ context.Context, authorID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, comment := range r.s.comments {
		if comment.AuthorID == authorID {
			delete(r.s.comments, id)
		}
	}
	return nil
}

type reactionRepository struct {
	s    *Store
	rows map[int64]models.Reaction
	kind string
}

func (r *reactionRepository) Find(_ context.Context, postID, userID int64) (*models.Reaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, reaction := range r.rows {
		if reaction.PostID == postID && reaction.UserID == userID {
			found := reaction
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%s for post %d by user %d: %w", r.kind, postID, userID, repository.ErrNotFound)
}

func (r *reactionRepository) Add(_ context.Context, postID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, reaction := range r.rows {
		if reaction.PostID == postID && reaction.UserID == userID {
			return nil
		}
	}
	id := r.s.nextID()
	r.rows[id] = models.Reaction{ID: id, PostID: postID, UserID: userID, CreatedAt: r.s.now()}
	return nil
}

func (r *reactionRepository) Remove(_ context.Context, reactionID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.rows[reactionID]; !ok {
		return fmt.Errorf("%s %d: %w", r.kind, reactionID, repository.ErrNotFound)
	}
	delete(r.rows, reactionID)
	return nil
}

func (r *reactionRepository) CountByPost(_ context.Context, postID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, reaction := range r.rows {
		if reaction.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *reactionRepository) DeleteByPost(_ context.Context, postID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, reaction := range r.rows {
		if reaction.PostID == postID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *reactionRepository) DeleteByUser(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, reaction := range r.rows {
		if reaction.UserID == userID {
			delete(r.rows, id)
		}
	}
	return nil
}
