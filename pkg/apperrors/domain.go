package apperrors

import (
	"net/http"
)

/*
Предопределенные ошибки и фабрики для доменной логики.
Сервисы возвращают их напрямую, хендлеры отдают через HandleError.
*/

// --- Фабрики ---

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

// ErrWeakPassword - пароль короче минимальной длины
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

// ErrPasswordMismatch - пароль и подтверждение не совпадают
var ErrPasswordMismatch = New(
	CodeValidationFailed,
	"validation",
	"Passwords do not match",
	http.StatusBadRequest,
)

// ErrEmailOrPhoneTaken - email или телефон уже заняты
var ErrEmailOrPhoneTaken = New(
	CodeAlreadyExists,
	"auth",
	"Email or phone already in use",
	http.StatusConflict,
)

// ErrInvalidCredentials - неверный email/телефон или пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен (access, refresh)
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrEmailNotVerified - email не подтвержден
var ErrEmailNotVerified = New(
	CodeForbidden,
	"auth",
	"Please verify your email first",
	http.StatusForbidden,
)

// ErrPhoneNotVerified - требуется подтверждение и email, и телефона
var ErrPhoneNotVerified = New(
	CodeForbidden,
	"auth",
	"Please verify your email and phone first",
	http.StatusForbidden,
)

// ErrTooManyAttempts - превышен лимит неудачных попыток входа
var ErrTooManyAttempts = New(
	CodeTooManyAttempts,
	"auth",
	"Too many failed attempts. Try later.",
	http.StatusForbidden,
)

// ErrInvalidUserRole - роль вне допустимого перечня
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"auth",
	"Invalid role. Must be one of: jobseeker, employer, admin",
	http.StatusBadRequest,
)

// --- Verification ---

// ErrInvalidVerificationCode - код не совпал или уже использован
var ErrInvalidVerificationCode = New(
	CodeInvalidCode,
	"verification",
	"Invalid code",
	http.StatusBadRequest,
)

// ErrCodeExpired - срок действия кода истек
var ErrCodeExpired = New(
	CodeInvalidCode,
	"verification",
	"Invalid or expired code",
	http.StatusBadRequest,
)

// ErrUserNotFound - пользователь не найден
var ErrUserNotFound = New(
	CodeNotFound,
	"auth",
	"User not found",
	http.StatusNotFound,
)

// --- Chat ---

// ErrSelfChat - попытка открыть чат с самим собой
var ErrSelfChat = New(
	CodeInvalidOperation,
	"chat",
	"You cannot start a chat with yourself",
	http.StatusBadRequest,
)

// ErrChatNotFound - чат не найден
var ErrChatNotFound = New(
	CodeNotFound,
	"chat",
	"Chat not found",
	http.StatusNotFound,
)

// ErrChatAccessDenied - пользователь не является участником чата
var ErrChatAccessDenied = New(
	CodeForbidden,
	"chat",
	"Not authorized for this chat",
	http.StatusForbidden,
)

// ErrEmptyMessage - текст сообщения пуст после обрезки пробелов
var ErrEmptyMessage = New(
	CodeValidationFailed,
	"chat",
	"Message text is required",
	http.StatusBadRequest,
)

// --- Jobs & Applications ---

// ErrJobNotFound - вакансия не найдена
var ErrJobNotFound = New(
	CodeNotFound,
	"jobs",
	"Job not found",
	http.StatusNotFound,
)

// ErrDuplicateApplication - повторный отклик на ту же вакансию
var ErrDuplicateApplication = New(
	CodeAlreadyExists,
	"applications",
	"You have already applied to this job",
	http.StatusConflict,
)

// ErrItemNotFound - объявление не найдено
var ErrItemNotFound = New(
	CodeNotFound,
	"marketplace",
	"Item not found",
	http.StatusNotFound,
)

// ErrNotEmployer - операция доступна только работодателю
var ErrNotEmployer = New(
	CodeForbidden,
	"auth",
	"Not authorized as employer",
	http.StatusForbidden,
)
