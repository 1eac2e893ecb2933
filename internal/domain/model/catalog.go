package model

// Genre — жанр из закрытого справочника.
type Genre struct {
	ID   int64
	Name string
}

// MpaRating — возрастной рейтинг Motion Picture Association.
type MpaRating struct {
	ID   int64
	Name string
}

// DefaultGenres — начальное наполнение справочника жанров.
// Совпадает с сидами миграции 000001.
func DefaultGenres() []Genre {
	return []Genre{
		{ID: 1, Name: "Комедия"},
		{ID: 2, Name: "Драма"},
		{ID: 3, Name: "Мультфильм"},
		{ID: 4, Name: "Триллер"},
		{ID: 5, Name: "Документальный"},
	}
}

// DefaultMpaRatings — начальное наполнение справочника рейтингов MPA.
func DefaultMpaRatings() []MpaRating {
	return []MpaRating{
		{ID: 1, Name: "G"},
		{ID: 2, Name: "PG"},
		{ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"},
		{ID: 5, Name: "NC-17"},
	}
}
