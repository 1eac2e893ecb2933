// dto.go — JSON-представления ресурсов и их преобразование в доменные модели.
package handlers

import (
	"fmt"
	"time"

	"github.com/bigkaa/filmorate/internal/domain/model"
)

// dateLayout — формат дат в API.
const dateLayout = "2006-01-02"

// idRef — ссылка на запись справочника. Name заполняется только в ответах.
type idRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// filmDTO — фильм в запросах и ответах.
type filmDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReleaseDate *string `json:"releaseDate,omitempty"`
	Duration    int     `json:"duration"`
	Genres      []idRef `json:"genres"`
	Mpa         *idRef  `json:"mpa,omitempty"`
	Likes       int     `json:"likes"`
}

// userDTO — пользователь в запросах и ответах.
type userDTO struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday *string `json:"birthday,omitempty"`
}

// toModel преобразует запрос в доменную модель. Likes из запроса игнорируется.
func (d filmDTO) toModel() (model.Film, error) {
	releaseDate, err := parseDate(d.ReleaseDate)
	if err != nil {
		return model.Film{}, fmt.Errorf("releaseDate: %w", err)
	}

	f := model.Film{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ReleaseDate: releaseDate,
		Duration:    d.Duration,
	}
	for _, g := range d.Genres {
		f.Genres = append(f.Genres, model.Genre{ID: g.ID})
	}
	if d.Mpa != nil {
		f.Mpa = &model.MpaRating{ID: d.Mpa.ID}
	}
	return f, nil
}

func (d userDTO) toModel() (model.User, error) {
	birthday, err := parseDate(d.Birthday)
	if err != nil {
		return model.User{}, fmt.Errorf("birthday: %w", err)
	}
	return model.User{
		ID:       d.ID,
		Email:    d.Email,
		Login:    d.Login,
		Name:     d.Name,
		Birthday: birthday,
	}, nil
}

func filmToDTO(f model.Film) filmDTO {
	d := filmDTO{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		ReleaseDate: formatDate(f.ReleaseDate),
		Duration:    f.Duration,
		Genres:      make([]idRef, 0, len(f.Genres)),
		Likes:       f.Likes,
	}
	for _, g := range f.Genres {
		d.Genres = append(d.Genres, idRef{ID: g.ID, Name: g.Name})
	}
	if f.Mpa != nil {
		d.Mpa = &idRef{ID: f.Mpa.ID, Name: f.Mpa.Name}
	}
	return d
}

func filmsToDTO(films []model.Film) []filmDTO {
	result := make([]filmDTO, 0, len(films))
	for _, f := range films {
		result = append(result, filmToDTO(f))
	}
	return result
}

func userToDTO(u model.User) userDTO {
	return userDTO{
		ID:       u.ID,
		Email:    u.Email,
		Login:    u.Login,
		Name:     u.Name,
		Birthday: formatDate(u.Birthday),
	}
}

func usersToDTO(users []model.User) []userDTO {
	result := make([]userDTO, 0, len(users))
	for _, u := range users {
		result = append(result, userToDTO(u))
	}
	return result
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("ожидается дата в формате ГГГГ-ММ-ДД, получено %q", *s)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
