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

// userRepo — реализация storage.UserStore (таблица users).
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db DBTX) storage.UserStore {
	return &userRepo{db: db}
}

func (r *userRepo) Add(ctx context.Context, user model.User) (model.User, error) {
	if err := validation.ValidateUser(&user); err != nil {
		return model.User{}, err
	}
	user.Normalize()

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		user.Email, user.Login, user.Name, user.Birthday,
	).Scan(&user.ID)
	if err != nil {
		return model.User{}, wrapDataErr(err, "ошибка создания пользователя")
	}
	return user, nil
}

func (r *userRepo) Update(ctx context.Context, user model.User) (model.User, error) {
	if user.ID <= 0 {
		return model.User{}, fmt.Errorf("%w: пользователь без ID", storage.ErrNotFound)
	}
	if _, ok, err := r.GetByID(ctx, user.ID); err != nil {
		return model.User{}, err
	} else if !ok {
		return model.User{}, fmt.Errorf("%w: пользователь с id %d", storage.ErrNotFound, user.ID)
	}

	if err := validation.ValidateUser(&user); err != nil {
		return model.User{}, err
	}
	user.Normalize()

	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $2, login = $3, name = $4, birthday = $5
		WHERE id = $1`,
		user.ID, user.Email, user.Login, user.Name, user.Birthday,
	)
	if err != nil {
		return model.User{}, wrapDataErr(err, "ошибка обновления пользователя")
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (model.User, bool, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT id, email, login, name, birthday FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, false, nil
		}
		return model.User{}, false, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return u, true, nil
}

func (r *userRepo) GetAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, login, name, birthday FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	result := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: пользователь с id %d", storage.ErrNotFound, id)
	}
	return nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u        model.User
		birthday *time.Time
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Login, &u.Name, &birthday); err != nil {
		return model.User{}, err
	}
	if birthday != nil {
		d := birthday.UTC()
		u.Birthday = &d
	}
	return u, nil
}
