package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/storage"
)

// catalogRepo — справочник (id, name) поверх одной таблицы.
type catalogRepo[T any] struct {
	db    DBTX
	table string
	build func(id int64, name string) T
}

// NewGenreRepository создаёт справочник жанров (таблица genres).
func NewGenreRepository(db DBTX) storage.GenreCatalog {
	return &catalogRepo[model.Genre]{
		db:    db,
		table: "genres",
		build: func(id int64, name string) model.Genre { return model.Genre{ID: id, Name: name} },
	}
}

// NewRatingRepository создаёт справочник рейтингов MPA (таблица mpa_ratings).
func NewRatingRepository(db DBTX) storage.RatingCatalog {
	return &catalogRepo[model.MpaRating]{
		db:    db,
		table: "mpa_ratings",
		build: func(id int64, name string) model.MpaRating { return model.MpaRating{ID: id, Name: name} },
	}
}

func (r *catalogRepo[T]) GetAll(ctx context.Context) ([]T, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, r.table))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения справочника %s: %w", r.table, err)
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования справочника %s: %w", r.table, err)
		}
		result = append(result, r.build(id, name))
	}
	return result, rows.Err()
}

func (r *catalogRepo[T]) GetByID(ctx context.Context, id int64) (T, bool, error) {
	var (
		zero T
		name string
	)
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT name FROM %s WHERE id = $1`, r.table), id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("ошибка чтения справочника %s: %w", r.table, err)
	}
	return r.build(id, name), true, nil
}
