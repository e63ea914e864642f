// Package credfile implements the user store as a flat JSON document mapping username to password hash.
package credfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"todoforum/internal/models"
	"todoforum/internal/repository"
	"todoforum/internal/storage"
)

// Store keeps the whole credential file in memory and rewrites it on every change.
// Ids are assigned in username order at load time, so they are only stable for the process lifetime.
type Store struct {
	mu            sync.RWMutex
	storage       storage.Storage
	object        string
	adminUsername string
	hashes        map[string]string
	ids           map[string]int64
	nextID        int64
}

var _ repository.UserRepository = (*Store)(nil)

func Open(ctx context.Context, blobs storage.Storage, object, adminUsername string) (*Store, error) {
	s := &Store{
		storage:       blobs,
		object:        object,
		adminUsername: adminUsername,
		hashes:        make(map[string]string),
		ids:           make(map[string]int64),
		nextID:        1,
	}

	data, err := blobs.Read(ctx, object)
	switch {
	case errors.Is(err, storage.ErrObjectNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load credential file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.hashes); err != nil {
			return nil, fmt.Errorf("credential file %s is malformed: %w", object, err)
		}
	}

	names := make([]string, 0, len(s.hashes))
	for name := range s.hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.ids[name] = s.nextID
		s.nextID++
	}

	return s, nil
}

func (s *Store) user(username string) models.User {
	loginType := models.LoginTypeBirth
	if username == s.adminUsername {
		loginType = models.LoginTypeAdmin
	}
	return models.User{
		ID:           s.ids[username],
		Username:     username,
		PasswordHash: s.hashes[username],
		LoginType:    loginType,
	}
}

func (s *Store) persist(ctx context.Context) error {
	data, err := json.MarshalIndent(s.hashes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential file: %w", err)
	}
	return s.storage.Write(ctx, s.object, data)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User, password string) error {
	hash, err := repository.HashPassword(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.hashes[user.Username]; exists {
		return fmt.Errorf("user %s: %w", user.Username, repository.ErrDuplicate)
	}

	s.hashes[user.Username] = hash
	if err := s.persist(ctx); err != nil {
		delete(s.hashes, user.Username)
		return err
	}

	s.ids[user.Username] = s.nextID
	s.nextID++

	*user = s.user(user.Username)
	return nil
}

func (s *Store) GetUserByID(_ context.Context, userID int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for name, id := range s.ids {
		if id == userID {
			user := s.user(name)
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with id %d: %w", userID, repository.ErrNotFound)
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.hashes[username]; !ok {
		return nil, fmt.Errorf("user %s: %w", username, repository.ErrNotFound)
	}
	user := s.user(username)
	return &user, nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.hashes))
	for name := range s.hashes {
		users = append(users, s.user(name))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Store) ListUsersByLoginType(ctx context.Context, loginType models.LoginType) ([]models.User, error) {
	all, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var users []models.User
	for _, user := range all {
		if user.LoginType == loginType {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, id := range s.ids {
		if id != userID {
			continue
		}
		hash := s.hashes[name]
		delete(s.hashes, name)
		if err := s.persist(ctx); err != nil {
			s.hashes[name] = hash
			return err
		}
		delete(s.ids, name)
		return nil
	}
	return fmt.Errorf("user with id %d: %w", userID, repository.ErrNotFound)
}

func (s *Store) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := repository.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return user, nil
}
