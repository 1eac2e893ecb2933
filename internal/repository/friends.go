package repository

import (
	"context"
	"fmt"

	"github.com/bigkaa/filmorate/internal/storage"
)

// friendRepo — реализация storage.FriendGraph (таблица friends).
// Строка (user_id, friend_id) — направленная связь user → friend.
type friendRepo struct {
	db DBTX
}

// NewFriendRepository создаёт репозиторий дружбы.
func NewFriendRepository(db DBTX) storage.FriendGraph {
	return &friendRepo{db: db}
}

func (r *friendRepo) AddFriend(ctx context.Context, ownerID, targetID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO friends (user_id, friend_id) VALUES ($1, $2)`, ownerID, targetID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: пользователь %d уже добавил в друзья %d", storage.ErrConflict, ownerID, targetID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: пользователь %d или %d", storage.ErrNotFound, ownerID, targetID)
		}
		return fmt.Errorf("ошибка добавления друга: %w", err)
	}
	return nil
}

func (r *friendRepo) RemoveFriend(ctx context.Context, ownerID, targetID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM friends WHERE user_id = $1 AND friend_id = $2`, ownerID, targetID)
	if err != nil {
		return fmt.Errorf("ошибка удаления друга: %w", err)
	}
	return nil
}

func (r *friendRepo) FriendIDs(ctx context.Context, ownerID int64) ([]int64, error) {
	return r.ids(ctx,
		`SELECT friend_id FROM friends WHERE user_id = $1 ORDER BY friend_id`, ownerID)
}

func (r *friendRepo) FollowerIDs(ctx context.Context, targetID int64) ([]int64, error) {
	return r.ids(ctx,
		`SELECT user_id FROM friends WHERE friend_id = $1 ORDER BY user_id`, targetID)
}

func (r *friendRepo) RemoveUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM friends WHERE user_id = $1 OR friend_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления связей пользователя: %w", err)
	}
	return nil
}

func (r *friendRepo) ids(ctx context.Context, query string, arg int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения друзей: %w", err)
	}
	defer rows.Close()

	result := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования друга: %w", err)
		}
		result = append(result, id)
	}
	return result, rows.Err()
}
