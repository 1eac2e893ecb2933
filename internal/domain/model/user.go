package model

import (
	"strings"
	"time"
)

// User — пользователь сервиса.
type User struct {
	// ID — идентификатор, назначается хранилищем при создании
	ID int64
	// Email — адрес электронной почты, должен содержать "@"
	Email string `validate:"notblank,contains=@"`
	// Login — логин без пробельных символов
	Login string `validate:"notblank,no_whitespace"`
	// Name — отображаемое имя; пустое заменяется логином
	Name string
	// Birthday — дата рождения, не в будущем
	Birthday *time.Time `validate:"omitempty,not_future"`
}

// DisplayName возвращает имя пользователя или логин, если имя пустое.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Name) == "" {
		return u.Login
	}
	return u.Name
}

// Normalize применяет значения по умолчанию: пустое имя заменяется логином.
func (u *User) Normalize() {
	u.Name = u.DisplayName()
}

// Clone возвращает глубокую копию пользователя.
func (u User) Clone() User {
	c := u
	if u.Birthday != nil {
		d := *u.Birthday
		c.Birthday = &d
	}
	return c
}
