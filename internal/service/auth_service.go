package service

import (
	"errors"
	"fmt"
	"time"

	"shopwise-web/internal/models"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/utils"
)

// UserStore is the user storage used for authentication.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id string) (*models.User, error)
	Create(user *models.User) error
	EmailExists(email string) (bool, error)
}

type AuthService struct {
	userRepo  UserStore
	jwtSecret string
	expire    time.Duration
}

func NewAuthService(userRepo UserStore, jwtSecret string, expire time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		expire:    expire,
	}
}

func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, user.Role, s.jwtSecret, s.expire)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.expire.Seconds()),
		User:        user,
	}, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*utils.Claims, error) {
	return utils.ValidateToken(tokenString, s.jwtSecret)
}

func (s *AuthService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

// Register creates an active user with the default role.
func (s *AuthService) Register(req models.RegisterRequest) (*models.User, error) {
	exists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Password: hash,
		Role:     "user",
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
