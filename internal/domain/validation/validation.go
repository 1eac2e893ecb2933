// Пакет validation — проверка полей доменных моделей через go-playground/validator.
//
// Валидатор создаётся один раз (кэширует информацию о структурах) и
// дополняется доменными правилами:
//   - notblank      — строка не пустая и не из одних пробелов
//   - no_whitespace — строка без пробельных символов
//   - cinema_epoch  — дата не раньше 28.12.1895 (первый киносеанс)
//   - not_future    — дата не позже текущего дня
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/bigkaa/filmorate/internal/domain/model"
)

// ErrInvalid — базовая ошибка валидации. Все ошибки пакета оборачивают её.
var ErrInvalid = errors.New("некорректные данные")

// CinemaEpoch — минимально допустимая дата выхода фильма.
var CinemaEpoch = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// now — источник текущего времени (подменяется в тестах).
	now = time.Now
)

// FieldError — нарушение правила для одного поля.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// Error — ошибка валидации сущности со списком нарушений.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrInvalid).
func (e *Error) Unwrap() error {
	return ErrInvalid
}

// getValidator возвращает singleton валидатора с зарегистрированными правилами.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Ошибки регистрации возможны только при пустом имени тега
		_ = validate.RegisterValidation("notblank", notBlank)
		_ = validate.RegisterValidation("no_whitespace", noWhitespace)
		_ = validate.RegisterValidation("cinema_epoch", notBeforeCinemaEpoch)
		_ = validate.RegisterValidation("not_future", notFuture)
	})
	return validate
}

// ValidateFilm проверяет поля фильма.
func ValidateFilm(f *model.Film) error {
	return validateStruct(f)
}

// ValidateUser проверяет поля пользователя.
func ValidateUser(u *model.User) error {
	return validateStruct(u)
}

func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	result := &Error{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		result.Fields = append(result.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: translate(fe),
		})
	}
	return result
}

// messages — тексты ошибок по ключу "Структура.Поле.тег".
var messages = map[string]string{
	"Film.Name.notblank":            "название фильма не может быть пустым",
	"Film.Description.max":          "описание фильма не может быть длиннее 200 символов",
	"Film.ReleaseDate.cinema_epoch": "дата релиза не может быть раньше 28 декабря 1895 года",
	"Film.Duration.gt":              "продолжительность фильма должна быть положительным числом",
	"User.Email.notblank":           "электронная почта не может быть пустой",
	"User.Email.contains":           "электронная почта должна содержать символ @",
	"User.Login.notblank":           "логин не может быть пустым",
	"User.Login.no_whitespace":      "логин не может содержать пробелы",
	"User.Birthday.not_future":      "дата рождения не может быть в будущем",
}

func translate(fe validator.FieldError) string {
	// Namespace: "Film.Name" — без вложенности для плоских моделей
	key := fe.Namespace() + "." + fe.Tag()
	if msg, ok := messages[key]; ok {
		return msg
	}
	return fmt.Sprintf("поле %s не прошло проверку %s", fe.Field(), fe.Tag())
}

// --- Доменные правила ---

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func noWhitespace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func notBeforeCinemaEpoch(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !dateOf(t).Before(CinemaEpoch)
}

func notFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !dateOf(t).After(dateOf(now()))
}

// dateOf отбрасывает время суток, оставляя календарную дату в UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
