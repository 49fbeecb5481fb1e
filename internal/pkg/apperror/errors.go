package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
	ErrCodeSaveLimit          ErrorCode = "SAVE_LIMIT_REACHED"
	ErrCodeDisclaimerRequired ErrorCode = "DISCLAIMER_REQUIRED"
	ErrCodeProRequired        ErrorCode = "PRO_REQUIRED"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
	// Details ошибки по отдельным полям запроса: поле -> сообщение.
	Details map[string]string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation создаёт ошибку валидации с описанием проблемных полей.
func Validation(message string, details map[string]string) *AppError {
	return &AppError{
		Code:       ErrCodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Database оборачивает ошибку хранилища. Клиент видит только общее сообщение.
func Database(err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, "сервис временно недоступен")
}

// Internal оборачивает непредвиденную ошибку.
func Internal(err error) *AppError {
	return Wrap(err, ErrCodeInternal, "внутренняя ошибка сервера")
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeSaveLimit, ErrCodeDisclaimerRequired, ErrCodeProRequired:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeDatabaseError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsSaveLimit(err error) bool {
	return hasCode(err, ErrCodeSaveLimit)
}

// CodeOf возвращает код ошибки или INTERNAL_ERROR для ошибок вне таксономии.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

var (
	ErrUserNotFound         = New(ErrCodeNotFound, "пользователь не найден")
	ErrTemplateNotFound     = New(ErrCodeNotFound, "шаблон не найден")
	ErrDocumentNotFound     = New(ErrCodeNotFound, "документ не найден")
	ErrChecklistNotFound    = New(ErrCodeNotFound, "чек-лист не найден")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden            = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials   = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrEmailTaken           = New(ErrCodeBadRequest, "пользователь с таким email уже существует")
	ErrSaveLimitReached     = New(ErrCodeSaveLimit, "достигнут лимит сохранённых документов на бесплатном тарифе")
	ErrDisclaimerRequired   = New(ErrCodeDisclaimerRequired, "необходимо принять отказ от ответственности")
	ErrProRequired          = New(ErrCodeProRequired, "функция доступна только на тарифе Pro")
	ErrInvalidSignature     = New(ErrCodeBadRequest, "неверная подпись вебхука")
	ErrInvalidRefreshToken  = New(ErrCodeUnauthorized, "refresh токен невалиден")
)
