package services

import (
	"errors"

	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/pkg/apperrors"
)

// Перевод sentinel-ошибок репозиториев в AppError.
// Все, что не распознано, считается ошибкой хранилища.

func handleUserError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound.WithError(err)
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists.WithError(err)
	default:
		return apperrors.DatabaseError(err)
	}
}

func handleScholarshipError(err error) error {
	if errors.Is(err, repositories.ErrScholarshipNotFound) {
		return apperrors.ErrScholarshipNotFound.WithError(err)
	}
	return apperrors.DatabaseError(err)
}

func handleApplicationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrApplicationNotFound.WithError(err)
	case errors.Is(err, repositories.ErrDuplicateApplication):
		return apperrors.ErrDuplicateApplication.WithError(err)
	case errors.Is(err, repositories.ErrApplicationDecided):
		return apperrors.ErrApplicationLocked.WithError(err)
	default:
		return apperrors.DatabaseError(err)
	}
}

func handleNotificationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotificationNotFound),
		errors.Is(err, repositories.ErrUserNotificationNotFound):
		return apperrors.ErrNotificationNotFound.WithError(err)
	default:
		return apperrors.DatabaseError(err)
	}
}

func requireAdmin(p auth.Principal) error {
	if !p.IsAdmin {
		return apperrors.ErrInsufficientPermissions
	}
	return nil
}
