// Пакет model — доменные модели Filmorate.
package model

import (
	"slices"
	"time"
)

// Film — фильм каталога.
// Лайки не хранятся в фильме: источник истины — журнал лайков (storage.LikeLedger).
type Film struct {
	// ID — идентификатор, назначается хранилищем при создании
	ID int64
	// Name — название, обязательное
	Name string `validate:"notblank"`
	// Description — описание, не длиннее 200 символов
	Description string `validate:"max=200"`
	// ReleaseDate — дата выхода, не раньше 28.12.1895
	ReleaseDate *time.Time `validate:"omitempty,cinema_epoch"`
	// Duration — продолжительность в минутах, строго положительная
	Duration int `validate:"gt=0"`
	// Genres — жанры фильма, упорядочены по ID
	Genres []Genre
	// Mpa — возрастной рейтинг MPA (nil, если не задан)
	Mpa *MpaRating
	// Likes — количество лайков, вычисляется при чтении, хранилищами игнорируется
	Likes int
}

// GenreIDs возвращает идентификаторы жанров фильма без повторов, по возрастанию.
func (f *Film) GenreIDs() []int64 {
	return GenreIDs(f.Genres)
}

// GenreIDs возвращает идентификаторы жанров без повторов, по возрастанию.
func GenreIDs(genres []Genre) []int64 {
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Clone возвращает глубокую копию фильма.
func (f Film) Clone() Film {
	c := f
	if f.ReleaseDate != nil {
		d := *f.ReleaseDate
		c.ReleaseDate = &d
	}
	if f.Genres != nil {
		c.Genres = append([]Genre(nil), f.Genres...)
	}
	if f.Mpa != nil {
		m := *f.Mpa
		c.Mpa = &m
	}
	return c
}
