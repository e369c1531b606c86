package services

import (
	"errors"
	"strings"
	"time"

	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/internal/services/dto"
	"scholarhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type AuthConfig struct {
	Secret           []byte
	TokenTTL         time.Duration // 0 - без срока действия
	DenyBlockedLogin bool
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	config   AuthConfig
}

func NewAuthService(userRepo repositories.UserRepository, config AuthConfig) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		config:   config,
	}
}

// Register - публичная регистрация, права администратора не выдаются никогда
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" || email == "" {
		return nil, apperrors.ErrInvalidInput("auth", "Username, email and password are required")
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	taken, err := s.userRepo.EmailTaken(db, email, "")
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, handleUserError(err)
	}

	logger.CtxInfo(db.Statement.Context, "User registered", "user_id", user.ID)
	return s.issue(user)
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.IsBlocked && s.config.DenyBlockedLogin {
		logger.CtxWarn(db.Statement.Context, "Blocked user login denied", "user_id", user.ID)
		return nil, apperrors.ErrUserBlocked
	}

	return s.issue(user)
}

func (s *AuthServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, s.config.Secret, s.config.TokenTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{Token: token, User: buildUserResponse(user)}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
