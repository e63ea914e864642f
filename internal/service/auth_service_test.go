package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todoforum/internal/models"
	"todoforum/internal/repository"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserRepository) ListUsersByLoginType(ctx context.Context, loginType models.LoginType) ([]models.User, error) {
	args := m.Called(ctx, loginType)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserRepository) DeleteUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockUserRepository) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_LoginAdmin(t *testing.T) {
	adminUser := &models.User{ID: 1, Username: "root", LoginType: models.LoginTypeAdmin}
	birthUser := &models.User{ID: 2, Username: "alice", LoginType: models.LoginTypeBirth}

	tests := []struct {
		name      string
		mockSetup func(repo *mockUserRepository)
		wantErr   error
	}{
		{
			name: "admin with right password",
			mockSetup: func(repo *mockUserRepository) {
				repo.On("VerifyPassword", mock.Anything, "root", "pw").Return(adminUser, nil)
			},
		},
		{
			name: "wrong password",
			mockSetup: func(repo *mockUserRepository) {
				repo.On("VerifyPassword", mock.Anything, "root", "pw").Return(nil, repository.ErrInvalidPassword)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "unknown user",
			mockSetup: func(repo *mockUserRepository) {
				repo.On("VerifyPassword", mock.Anything, "root", "pw").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "birth account cannot use admin login",
			mockSetup: func(repo *mockUserRepository) {
				repo.On("VerifyPassword", mock.Anything, "root", "pw").Return(birthUser, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepository)
			tt.mockSetup(repo)
			svc := NewAuthService(repo, true, quietLogger())

			user, err := svc.Login(context.Background(), LoginRequest{Username: "root", Password: "pw", Type: models.LoginTypeAdmin})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "root", user.Username)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginBirth(t *testing.T) {
	birthdate := "1999-04-12"
	alice := &models.User{ID: 2, Username: "alice", PasswordHash: hashFor(t, "pw"), LoginType: models.LoginTypeBirth, Birthdate: &birthdate}
	root := &models.User{ID: 1, Username: "root", PasswordHash: hashFor(t, "pw"), LoginType: models.LoginTypeAdmin}

	tests := []struct {
		name             string
		requireBirthdate bool
		req              LoginRequest
		user             *models.User
		lookupErr        error
		wantErr          error
	}{
		{name: "all fields match", requireBirthdate: true, req: LoginRequest{Username: "alice", Password: "pw", Birthdate: "1999-04-12"}, user: alice},
		{name: "wrong birthdate", requireBirthdate: true, req: LoginRequest{Username: "alice", Password: "pw", Birthdate: "1999-04-13"}, user: alice, wantErr: ErrInvalidBirthCredentials},
		{name: "wrong password", requireBirthdate: true, req: LoginRequest{Username: "alice", Password: "nope", Birthdate: "1999-04-12"}, user: alice, wantErr: ErrInvalidBirthCredentials},
		{name: "unknown username", requireBirthdate: true, req: LoginRequest{Username: "ghost", Password: "pw"}, lookupErr: repository.ErrNotFound, wantErr: ErrUnknownUsername},
		{name: "admin account via birth login", requireBirthdate: true, req: LoginRequest{Username: "root", Password: "pw"}, user: root, wantErr: ErrUnknownUsername},
		{name: "password only variant", requireBirthdate: false, req: LoginRequest{Username: "alice", Password: "pw"}, user: alice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepository)
			if tt.user != nil {
				repo.On("GetUserByUsername", mock.Anything, tt.req.Username).Return(tt.user, nil)
			} else {
				repo.On("GetUserByUsername", mock.Anything, tt.req.Username).Return(nil, tt.lookupErr)
			}
			svc := NewAuthService(repo, tt.requireBirthdate, quietLogger())

			user, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Username, user.Username)
		})
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetUserByUsername", mock.Anything, "root").Return(nil, repository.ErrNotFound)
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "root" && u.LoginType == models.LoginTypeAdmin
		}), "secret").Return(nil)

		err := NewAuthService(repo, true, quietLogger()).EnsureAdmin(context.Background(), "root", "secret")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("existing admin untouched", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetUserByUsername", mock.Anything, "root").Return(&models.User{Username: "root"}, nil)

		err := NewAuthService(repo, true, quietLogger()).EnsureAdmin(context.Background(), "root", "secret")

		require.NoError(t, err)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty password skips seeding", func(t *testing.T) {
		repo := new(mockUserRepository)

		err := NewAuthService(repo, true, quietLogger()).EnsureAdmin(context.Background(), "root", "")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("lookup failure", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetUserByUsername", mock.Anything, "root").Return(nil, errors.New("db down"))

		err := NewAuthService(repo, true, quietLogger()).EnsureAdmin(context.Background(), "root", "secret")

		assert.ErrorContains(t, err, "db down")
	})
}

func TestAuthService_CurrentUser(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetUserByUsername", mock.Anything, "root").Return(&models.User{ID: 9, Username: "root", LoginType: models.LoginTypeAdmin}, nil)
	repo.On("GetUserByUsername", mock.Anything, "gone").Return(nil, repository.ErrNotFound)
	svc := NewAuthService(repo, true, quietLogger())

	id, err := svc.CurrentUser(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, int64(9), id.UserID)
	assert.True(t, id.Admin)

	_, err = svc.CurrentUser(context.Background(), "gone")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
