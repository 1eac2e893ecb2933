package repository

import (
	"context"
	"fmt"

	"github.com/bigkaa/filmorate/internal/storage"
)

// likeRepo — реализация storage.LikeLedger (таблица film_likes).
type likeRepo struct {
	db DBTX
}

// NewLikeRepository создаёт репозиторий лайков.
func NewLikeRepository(db DBTX) storage.LikeLedger {
	return &likeRepo{db: db}
}

func (r *likeRepo) Like(ctx context.Context, filmID, userID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO film_likes (film_id, user_id) VALUES ($1, $2)`, filmID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: пользователь %d уже поставил лайк фильму %d", storage.ErrConflict, userID, filmID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: фильм %d или пользователь %d", storage.ErrNotFound, filmID, userID)
		}
		return fmt.Errorf("ошибка добавления лайка: %w", err)
	}
	return nil
}

func (r *likeRepo) Unlike(ctx context.Context, filmID, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM film_likes WHERE film_id = $1 AND user_id = $2`, filmID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления лайка: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: пользователь %d не ставил лайк фильму %d", storage.ErrNotFound, userID, filmID)
	}
	return nil
}

func (r *likeRepo) Count(ctx context.Context, filmID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM film_likes WHERE film_id = $1`, filmID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта лайков: %w", err)
	}
	return count, nil
}

func (r *likeRepo) Counts(ctx context.Context) (map[int64]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT film_id, COUNT(*) FROM film_likes GROUP BY film_id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта лайков: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]int)
	for rows.Next() {
		var (
			filmID int64
			count  int
		)
		if err := rows.Scan(&filmID, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования лайков: %w", err)
		}
		result[filmID] = count
	}
	return result, rows.Err()
}

func (r *likeRepo) RemoveFilm(ctx context.Context, filmID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM film_likes WHERE film_id = $1`, filmID); err != nil {
		return fmt.Errorf("ошибка удаления лайков фильма: %w", err)
	}
	return nil
}

func (r *likeRepo) RemoveUser(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM film_likes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("ошибка удаления лайков пользователя: %w", err)
	}
	return nil
}
