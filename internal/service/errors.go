// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"

	"github.com/bigkaa/filmorate/internal/domain/validation"
	"github.com/bigkaa/filmorate/internal/storage"
)

var (
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующаяся связь).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrInvalidOperation — структурно недопустимая операция
	// (дружба с самим собой, снятие несуществующего лайка, неположительный лимит).
	ErrInvalidOperation = errors.New("недопустимая операция")
)

// mapErr переводит ошибки валидации и хранилища в ошибки сервисного слоя.
// Прочие ошибки (SQL, контекст) возвращаются как есть и считаются внутренними.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidOperation):
		return err
	case errors.Is(err, validation.ErrInvalid):
		return fmt.Errorf("%w: %w", ErrValidation, err) //nolint:errorlint // намеренный двойной wrap
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err) //nolint:errorlint // намеренный двойной wrap
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err) //nolint:errorlint // намеренный двойной wrap
	default:
		return err
	}
}

func filmNotFound(id int64) error {
	return fmt.Errorf("%w: фильм с id %d", ErrNotFound, id)
}

func userNotFound(id int64) error {
	return fmt.Errorf("%w: пользователь с id %d", ErrNotFound, id)
}
