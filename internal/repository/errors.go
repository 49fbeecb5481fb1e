package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrUserNotFound возвращается, когда запись пользователя не найдена.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken email уже занят другим пользователем.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSessionNotFound сессия по refresh токену не найдена или истекла.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTemplateNotFound активный шаблон не найден.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrDocumentNotFound документ не найден или принадлежит другому пользователю.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrChecklistNotFound чек-лист не найден.
	ErrChecklistNotFound = errors.New("checklist not found")
)

// uniqueViolation код ошибки PostgreSQL при нарушении уникальности.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
