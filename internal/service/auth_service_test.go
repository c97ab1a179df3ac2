package service

import (
	"testing"
	"time"

	"shopwise-web/internal/models"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// MockUserStore is a mock implementation of UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) Create(user *models.User) error {
	args := m.Called(user)
	if args.Error(0) == nil {
		user.ID = owner
	}
	return args.Error(0)
}

func (m *MockUserStore) EmailExists(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func hashedUser(t *testing.T, active bool) *models.User {
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	return &models.User{ID: owner, Email: "owner@shop.test", Password: hash, Role: "user", IsActive: active}
}

func TestLogin(t *testing.T) {
	users := new(MockUserStore)
	users.On("FindByEmail", "owner@shop.test").Return(hashedUser(t, true), nil)
	svc := NewAuthService(users, testSecret, time.Hour)

	resp, err := svc.Login(models.LoginRequest{Email: "owner@shop.test", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, owner, claims.UserID)
	assert.Equal(t, "owner@shop.test", claims.Email)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		findErr  error
		password string
		wantErr  error
	}{
		{"unknown email", nil, repository.ErrNotFound, "secret123", ErrInvalidCredentials},
		{"wrong password", hashedUser(t, true), nil, "nope", ErrInvalidCredentials},
		{"inactive", hashedUser(t, false), nil, "secret123", ErrInactiveUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserStore)
			if tt.user != nil {
				users.On("FindByEmail", "owner@shop.test").Return(tt.user, nil)
			} else {
				users.On("FindByEmail", "owner@shop.test").Return(nil, tt.findErr)
			}
			svc := NewAuthService(users, testSecret, time.Hour)

			_, err := svc.Login(models.LoginRequest{Email: "owner@shop.test", Password: tt.password})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegister(t *testing.T) {
	users := new(MockUserStore)
	users.On("EmailExists", "new@shop.test").Return(false, nil)
	users.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "new@shop.test" && u.Role == "user" && u.IsActive && u.Password != "secret123"
	})).Return(nil)
	svc := NewAuthService(users, testSecret, time.Hour)

	user, err := svc.Register(models.RegisterRequest{Email: "new@shop.test", FullName: "New Owner", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, owner, user.ID)
	assert.True(t, utils.CheckPasswordHash("secret123", user.Password))
	users.AssertExpectations(t)
}

func TestRegisterEmailTaken(t *testing.T) {
	users := new(MockUserStore)
	users.On("EmailExists", "owner@shop.test").Return(true, nil)
	svc := NewAuthService(users, testSecret, time.Hour)

	_, err := svc.Register(models.RegisterRequest{Email: "owner@shop.test", FullName: "Owner", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything)
}
