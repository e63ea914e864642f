package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"todoforum/internal/models"
	"todoforum/internal/service"
	"todoforum/internal/session"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req service.LoginRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, username string) (session.Identity, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(session.Identity), args.Error(1)
}

type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) List(ctx context.Context, userID int64) ([]models.Todo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Todo), args.Error(1)
}

func (m *MockTodoService) Add(ctx context.Context, userID int64, req service.AddTodoRequest) (*models.Todo, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Todo), args.Error(1)
}

func (m *MockTodoService) Toggle(ctx context.Context, userID, todoID int64) error {
	args := m.Called(ctx, userID, todoID)
	return args.Error(0)
}

func (m *MockTodoService) Delete(ctx context.Context, userID, todoID int64) error {
	args := m.Called(ctx, userID, todoID)
	return args.Error(0)
}

type MockForumService struct {
	mock.Mock
}

func (m *MockForumService) Feed(ctx context.Context, viewerID int64) ([]models.PostView, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

func (m *MockForumService) CreatePost(ctx context.Context, authorID int64, content string) (*models.Post, error) {
	args := m.Called(ctx, authorID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockForumService) CreateComment(ctx context.Context, postID, authorID int64, content string) (*models.Comment, error) {
	args := m.Called(ctx, postID, authorID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockForumService) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockForumService) ToggleComplaint(ctx context.Context, postID, userID int64) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockForumService) DeletePost(ctx context.Context, actor session.Identity, postID int64) error {
	args := m.Called(ctx, actor, postID)
	return args.Error(0)
}

type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Standings(ctx context.Context) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListManaged(ctx context.Context, actor session.Identity) ([]models.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, actor session.Identity, req service.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, actor session.Identity, username string) error {
	args := m.Called(ctx, actor, username)
	return args.Error(0)
}

func (m *MockUserService) Todos(ctx context.Context, actor session.Identity, username string) (*models.User, []models.Todo, error) {
	args := m.Called(ctx, actor, username)
	var user *models.User
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	var todos []models.Todo
	if args.Get(1) != nil {
		todos = args.Get(1).([]models.Todo)
	}
	return user, todos, args.Error(2)
}
