package apperrors

import (
	"net/http"
)

// =========================================================================
// Фабрики
// =========================================================================

// ErrNotFound - обертка для sentinel-ошибок репозитория (404)
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStatus - операция невозможна в текущем статусе (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// ErrInvalidInput - некорректные входные данные (400)
func ErrInvalidInput(domain, message string) *AppError {
	return New(CodeValidationFailed, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные ошибки
// =========================================================================

// --- Auth ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidCurrentPassword = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid current password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserBlocked = New(
	CodeForbidden,
	"auth",
	"Your account has been blocked",
	http.StatusForbidden,
)

// --- Users ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

// --- Scholarships ---

var ErrScholarshipNotFound = New(
	CodeNotFound,
	"scholarship",
	"Scholarship not found",
	http.StatusNotFound,
)

// --- Applications ---

var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound,
)

var ErrDuplicateApplication = New(
	CodeAlreadyExists,
	"application",
	"You already applied for this scholarship",
	http.StatusConflict,
)

var ErrApplicationAccessDenied = New(
	CodeForbidden,
	"application",
	"Not authorized to modify this application",
	http.StatusForbidden,
)

var ErrApplicationLocked = New(
	CodeInvalidStatus,
	"application",
	"Cannot update approved or rejected applications",
	http.StatusConflict,
)

var ErrApplicationNotWithdrawable = New(
	CodeInvalidStatus,
	"application",
	"Cannot withdraw this application anymore",
	http.StatusConflict,
)

var ErrInvalidApplicationStatus = New(
	CodeValidationFailed,
	"application",
	"Invalid application status",
	http.StatusBadRequest,
)

// --- Notifications ---

var ErrNotificationNotFound = New(
	CodeNotFound,
	"notification",
	"Notification not found",
	http.StatusNotFound,
)

var ErrNotificationAccessDenied = New(
	CodeForbidden,
	"notification",
	"Unauthorized",
	http.StatusForbidden,
)

var ErrEmptyNotification = New(
	CodeValidationFailed,
	"notification",
	"Message required",
	http.StatusBadRequest,
)

// ErrBroadcastRateLimited - предыдущая рассылка была меньше cooldown назад
var ErrBroadcastRateLimited = New(
	CodeRateLimited,
	"notification",
	"Duplicate notification prevented",
	http.StatusTooManyRequests,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeValidationFailed,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

var ErrTooManyFiles = New(
	CodeValidationFailed,
	"upload",
	"Too many files for this field",
	http.StatusBadRequest,
)

// --- HTTP ---

var ErrTooManyRequests = New(
	CodeRateLimited,
	"request",
	"Too many requests",
	http.StatusTooManyRequests,
)
