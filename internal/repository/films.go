package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/domain/validation"
	"github.com/bigkaa/filmorate/internal/storage"
)

// filmRepo — реализация storage.FilmStore (таблицы films, film_genres).
type filmRepo struct {
	db DBTX
}

// NewFilmRepository создаёт репозиторий фильмов.
func NewFilmRepository(db DBTX) storage.FilmStore {
	return &filmRepo{db: db}
}

const selectFilms = `
	SELECT f.id, f.name, f.description, f.release_date, f.duration, f.mpa_id, m.name
	FROM films f
	LEFT JOIN mpa_ratings m ON m.id = f.mpa_id`

func (r *filmRepo) Add(ctx context.Context, film model.Film) (model.Film, error) {
	if err := validation.ValidateFilm(&film); err != nil {
		return model.Film{}, err
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO films (name, description, release_date, duration, mpa_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		film.Name, film.Description, film.ReleaseDate, film.Duration, mpaID(film.Mpa),
	).Scan(&id)
	if err != nil {
		return model.Film{}, r.wrapWriteErr(err, "создания")
	}

	if err := r.insertGenres(ctx, id, film.Genres); err != nil {
		return model.Film{}, err
	}
	return r.mustGet(ctx, id)
}

func (r *filmRepo) Update(ctx context.Context, film model.Film) (model.Film, error) {
	if film.ID <= 0 {
		return model.Film{}, fmt.Errorf("%w: фильм без ID", storage.ErrNotFound)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM films WHERE id = $1)`, film.ID).Scan(&exists); err != nil {
		return model.Film{}, fmt.Errorf("ошибка проверки фильма: %w", err)
	}
	if !exists {
		return model.Film{}, fmt.Errorf("%w: фильм с id %d", storage.ErrNotFound, film.ID)
	}
	if err := validation.ValidateFilm(&film); err != nil {
		return model.Film{}, err
	}

	_, err := r.db.Exec(ctx, `
		UPDATE films
		SET name = $2, description = $3, release_date = $4, duration = $5, mpa_id = $6
		WHERE id = $1`,
		film.ID, film.Name, film.Description, film.ReleaseDate, film.Duration, mpaID(film.Mpa),
	)
	if err != nil {
		return model.Film{}, r.wrapWriteErr(err, "обновления")
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM film_genres WHERE film_id = $1`, film.ID); err != nil {
		return model.Film{}, fmt.Errorf("ошибка очистки жанров фильма: %w", err)
	}
	if err := r.insertGenres(ctx, film.ID, film.Genres); err != nil {
		return model.Film{}, err
	}
	return r.mustGet(ctx, film.ID)
}

func (r *filmRepo) GetByID(ctx context.Context, id int64) (model.Film, bool, error) {
	film, err := scanFilm(r.db.QueryRow(ctx, selectFilms+` WHERE f.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Film{}, false, nil
		}
		return model.Film{}, false, fmt.Errorf("ошибка получения фильма: %w", err)
	}

	genres, err := r.loadGenres(ctx, []int64{id})
	if err != nil {
		return model.Film{}, false, err
	}
	film.Genres = genres[id]
	return film, true, nil
}

func (r *filmRepo) GetAll(ctx context.Context) ([]model.Film, error) {
	rows, err := r.db.Query(ctx, selectFilms+` ORDER BY f.id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка фильмов: %w", err)
	}
	defer rows.Close()

	result := make([]model.Film, 0)
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования фильма: %w", err)
		}
		result = append(result, film)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	ids := make([]int64, 0, len(result))
	for _, f := range result {
		ids = append(ids, f.ID)
	}
	genres, err := r.loadGenres(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Genres = genres[result[i].ID]
	}
	return result, nil
}

func (r *filmRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления фильма: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: фильм с id %d", storage.ErrNotFound, id)
	}
	return nil
}

// mustGet перечитывает фильм после записи, чтобы вернуть названия жанров и рейтинга.
func (r *filmRepo) mustGet(ctx context.Context, id int64) (model.Film, error) {
	film, ok, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Film{}, err
	}
	if !ok {
		return model.Film{}, fmt.Errorf("%w: фильм с id %d", storage.ErrNotFound, id)
	}
	return film, nil
}

func (r *filmRepo) insertGenres(ctx context.Context, filmID int64, genres []model.Genre) error {
	for _, gid := range model.GenreIDs(genres) {
		_, err := r.db.Exec(ctx,
			`INSERT INTO film_genres (film_id, genre_id) VALUES ($1, $2)`, filmID, gid)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: жанр с id %d", storage.ErrNotFound, gid)
			}
			return fmt.Errorf("ошибка сохранения жанров фильма: %w", err)
		}
	}
	return nil
}

// loadGenres возвращает жанры фильмов, упорядоченные по ID жанра.
func (r *filmRepo) loadGenres(ctx context.Context, filmIDs []int64) (map[int64][]model.Genre, error) {
	result := make(map[int64][]model.Genre, len(filmIDs))
	if len(filmIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT fg.film_id, g.id, g.name
		FROM film_genres fg
		JOIN genres g ON g.id = fg.genre_id
		WHERE fg.film_id = ANY($1)
		ORDER BY fg.film_id, g.id`, filmIDs)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения жанров фильмов: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			filmID int64
			g      model.Genre
		)
		if err := rows.Scan(&filmID, &g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования жанра: %w", err)
		}
		result[filmID] = append(result[filmID], g)
	}
	return result, rows.Err()
}

func (r *filmRepo) wrapWriteErr(err error, op string) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: рейтинг MPA не найден", storage.ErrNotFound)
	}
	return wrapDataErr(err, "ошибка "+op+" фильма")
}

func scanFilm(row pgx.Row) (model.Film, error) {
	var (
		f           model.Film
		releaseDate *time.Time
		mpaID       *int64
		mpaName     *string
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &releaseDate, &f.Duration, &mpaID, &mpaName); err != nil {
		return model.Film{}, err
	}
	if releaseDate != nil {
		d := releaseDate.UTC()
		f.ReleaseDate = &d
	}
	if mpaID != nil {
		f.Mpa = &model.MpaRating{ID: *mpaID}
		if mpaName != nil {
			f.Mpa.Name = *mpaName
		}
	}
	return f, nil
}

func mpaID(m *model.MpaRating) *int64 {
	if m == nil {
		return nil
	}
	id := m.ID
	return &id
}
