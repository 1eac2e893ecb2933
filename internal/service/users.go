// users.go — сервис пользователей: CRUD и направленный граф дружбы.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/domain/validation"
	"github.com/bigkaa/filmorate/internal/storage"
)

// UserService — операции над пользователями и дружбой.
// Дружба направленная: AddFriend(a, b) создаёт только связь a → b.
type UserService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(store storage.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// Add создаёт пользователя. Пустое имя заменяется логином.
func (s *UserService) Add(ctx context.Context, user model.User) (model.User, error) {
	if err := validation.ValidateUser(&user); err != nil {
		return model.User{}, mapErr(err)
	}

	var created model.User
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		var err error
		created, err = tx.Users().Add(ctx, user)
		return err
	})
	if err != nil {
		return model.User{}, mapErr(err)
	}

	s.logger.Info("Пользователь создан",
		slog.Int64("user_id", created.ID),
		slog.String("login", created.Login),
	)
	return created, nil
}

// Update заменяет изменяемые поля существующего пользователя.
func (s *UserService) Update(ctx context.Context, user model.User) (model.User, error) {
	var updated model.User
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		var err error
		updated, err = tx.Users().Update(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.User{}, userNotFound(user.ID)
		}
		return model.User{}, mapErr(err)
	}

	s.logger.Info("Пользователь обновлён", slog.Int64("user_id", updated.ID))
	return updated, nil
}

// GetByID возвращает пользователя по ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (model.User, error) {
	u, ok, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	if !ok {
		return model.User{}, userNotFound(id)
	}
	return u, nil
}

// GetAll возвращает всех пользователей.
func (s *UserService) GetAll(ctx context.Context) ([]model.User, error) {
	users, err := s.store.Users().GetAll(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return users, nil
}

// Delete удаляет пользователя вместе с его лайками и связями дружбы.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		if err := requireUsers(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Likes().RemoveUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Friends().RemoveUser(ctx, id); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return mapErr(err)
	}

	s.logger.Info("Пользователь удалён", slog.Int64("user_id", id))
	return nil
}

// AddFriend добавляет связь owner → target.
// ErrNotFound — пользователь не найден, ErrInvalidOperation — owner == target,
// ErrConflict — связь уже есть.
func (s *UserService) AddFriend(ctx context.Context, ownerID, targetID int64) error {
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		if err := requireUsers(ctx, tx, ownerID, targetID); err != nil {
			return err
		}
		if ownerID == targetID {
			return fmt.Errorf("%w: пользователь %d не может добавить в друзья самого себя", ErrInvalidOperation, ownerID)
		}
		if err := tx.Friends().AddFriend(ctx, ownerID, targetID); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return fmt.Errorf("%w: пользователь %d уже в друзьях у %d", ErrConflict, targetID, ownerID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return mapErr(err)
	}

	friendshipsTotal.WithLabelValues("add").Inc()
	s.logger.Info("Друг добавлен",
		slog.Int64("user_id", ownerID),
		slog.Int64("friend_id", targetID),
	)
	return nil
}

// RemoveFriend удаляет связь owner → target. Отсутствие связи — не ошибка.
func (s *UserService) RemoveFriend(ctx context.Context, ownerID, targetID int64) error {
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		if err := requireUsers(ctx, tx, ownerID, targetID); err != nil {
			return err
		}
		return tx.Friends().RemoveFriend(ctx, ownerID, targetID)
	})
	if err != nil {
		return mapErr(err)
	}

	friendshipsTotal.WithLabelValues("remove").Inc()
	s.logger.Info("Друг удалён",
		slog.Int64("user_id", ownerID),
		slog.Int64("friend_id", targetID),
	)
	return nil
}

// ListFriends возвращает друзей пользователя по возрастанию ID.
func (s *UserService) ListFriends(ctx context.Context, userID int64) ([]model.User, error) {
	if err := requireUsers(ctx, s.store, userID); err != nil {
		return nil, mapErr(err)
	}
	ids, err := s.store.Friends().FriendIDs(ctx, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.resolve(ctx, ids)
}

// ListFollowers возвращает пользователей, добавивших userID в друзья.
func (s *UserService) ListFollowers(ctx context.Context, userID int64) ([]model.User, error) {
	if err := requireUsers(ctx, s.store, userID); err != nil {
		return nil, mapErr(err)
	}
	ids, err := s.store.Friends().FollowerIDs(ctx, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.resolve(ctx, ids)
}

// CommonFriends возвращает пересечение друзей двух пользователей
// по возрастанию ID. Пустое пересечение — пустой срез, не ошибка.
func (s *UserService) CommonFriends(ctx context.Context, userID, otherID int64) ([]model.User, error) {
	if err := requireUsers(ctx, s.store, userID, otherID); err != nil {
		return nil, mapErr(err)
	}

	a, err := s.store.Friends().FriendIDs(ctx, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	b, err := s.store.Friends().FriendIDs(ctx, otherID)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.resolve(ctx, intersectSorted(a, b))
}

// resolve преобразует ID в пользователей, сохраняя порядок.
// Пользователи, удалённые между чтениями, пропускаются.
func (s *UserService) resolve(ctx context.Context, ids []int64) ([]model.User, error) {
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		u, ok, err := s.store.Users().GetByID(ctx, id)
		if err != nil {
			return nil, mapErr(err)
		}
		if ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// requireUsers возвращает ошибку ErrNotFound для первого несуществующего пользователя.
func requireUsers(ctx context.Context, tx storage.Tx, ids ...int64) error {
	for _, id := range ids {
		_, ok, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return userNotFound(id)
		}
	}
	return nil
}

// intersectSorted возвращает пересечение двух отсортированных срезов.
func intersectSorted(a, b []int64) []int64 {
	result := make([]int64, 0)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			result = append(result, a[i])
			i++
			j++
		}
	}
	return result
}
