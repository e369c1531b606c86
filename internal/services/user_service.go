package services

import (
	"strings"

	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/internal/services/dto"
	"scholarhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	// Профиль текущего пользователя
	GetProfile(db *gorm.DB, principal auth.Principal) (*dto.UserResponse, error)
	UpdateProfile(db *gorm.DB, principal auth.Principal, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)

	// Администрирование
	ListUsers(db *gorm.DB, principal auth.Principal) ([]*dto.UserResponse, error)
	UpdateUser(db *gorm.DB, principal auth.Principal, userID string, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	ToggleBlock(db *gorm.DB, principal auth.Principal, userID string) (*dto.UserResponse, error)
	DeleteUser(db *gorm.DB, principal auth.Principal, userID string) error
}

type UserServiceImpl struct {
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
}

func NewUserService(userRepo repositories.UserRepository, notificationRepo repositories.NotificationRepository) UserService {
	return &UserServiceImpl{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *UserServiceImpl) GetProfile(db *gorm.DB, principal auth.Principal) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, principal.UserID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return buildUserResponse(user), nil
}

// UpdateProfile - требуется текущий пароль; пустые поля не меняются
func (s *UserServiceImpl) UpdateProfile(db *gorm.DB, principal auth.Principal, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, principal.UserID)
	if err != nil {
		return nil, handleUserError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCurrentPassword
	}

	if v := strings.TrimSpace(req.Username); v != "" {
		user.Username = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		user.Phone = v
	}
	if v := normalizeEmail(req.Email); v != "" && v != user.Email {
		if err := s.ensureEmailFree(db, v, user.ID); err != nil {
			return nil, err
		}
		user.Email = v
	}
	if req.Password != "" {
		if err := auth.ValidatePassword(req.Password); err != nil {
			return nil, apperrors.ErrWeakPassword
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.PasswordHash = hash
	}
	if req.ProfileImage != "" {
		user.ProfileImage = req.ProfileImage
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, handleUserError(err)
	}
	return buildUserResponse(user), nil
}

func (s *UserServiceImpl) ListUsers(db *gorm.DB, principal auth.Principal) ([]*dto.UserResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, buildUserResponse(&users[i]))
	}
	return resp, nil
}

func (s *UserServiceImpl) UpdateUser(db *gorm.DB, principal auth.Principal, userID string, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		if v := normalizeEmail(*req.Email); v != "" && v != user.Email {
			if err := s.ensureEmailFree(db, v, user.ID); err != nil {
				return nil, err
			}
			user.Email = v
		}
	}
	if req.IsAdmin != nil {
		if !*req.IsAdmin && user.ID == principal.UserID {
			return nil, apperrors.ErrConflict(nil, "users", "Administrators cannot revoke their own rights")
		}
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsBlocked != nil {
		if *req.IsBlocked && user.ID == principal.UserID {
			return nil, apperrors.ErrConflict(nil, "users", "Administrators cannot block themselves")
		}
		user.SetBlocked(*req.IsBlocked)
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, handleUserError(err)
	}

	logger.CtxInfo(db.Statement.Context, "User updated by admin", "target_user_id", user.ID)
	return buildUserResponse(user), nil
}

// ToggleBlock - блокировка меняет и status (Inactive/Active)
func (s *UserServiceImpl) ToggleBlock(db *gorm.DB, principal auth.Principal, userID string) (*dto.UserResponse, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if userID == principal.UserID {
		return nil, apperrors.ErrConflict(nil, "users", "Administrators cannot block themselves")
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	user.SetBlocked(!user.IsBlocked)
	if err := s.userRepo.Update(db, user); err != nil {
		return nil, handleUserError(err)
	}

	logger.CtxInfo(db.Statement.Context, "User block toggled", "target_user_id", user.ID, "blocked", user.IsBlocked)
	return buildUserResponse(user), nil
}

// DeleteUser удаляет пользователя и его доставки уведомлений; заявки остаются
func (s *UserServiceImpl) DeleteUser(db *gorm.DB, principal auth.Principal, userID string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if userID == principal.UserID {
		return apperrors.ErrConflict(nil, "users", "Administrators cannot delete themselves")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.notificationRepo.DeleteForUser(tx, userID); err != nil {
			return err
		}
		return s.userRepo.Delete(tx, userID)
	})
	if err != nil {
		return handleUserError(err)
	}

	logger.CtxInfo(db.Statement.Context, "User deleted", "target_user_id", userID)
	return nil
}

func (s *UserServiceImpl) ensureEmailFree(db *gorm.DB, email, excludeID string) error {
	taken, err := s.userRepo.EmailTaken(db, email, excludeID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if taken {
		return apperrors.ErrEmailAlreadyExists
	}
	return nil
}
