// Пакет memory — потокобезопасный in-memory бэкенд хранилища Filmorate.
//
// Каждая структура защищена собственным sync.RWMutex: чтение конкурентное,
// запись эксклюзивная. Наружу отдаются только копии, поэтому вызывающий код
// не может изменить сохранённое состояние в обход хранилища.
// Не персистентный: при рестарте данные теряются.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/domain/validation"
	"github.com/bigkaa/filmorate/internal/storage"
)

// entityStore — обобщённое хранилище сущностей с int64 ID.
// Порядок GetAll совпадает с порядком добавления.
type entityStore[T any] struct {
	mu     sync.RWMutex
	items  map[int64]T
	order  []int64
	lastID int64 // наибольший когда-либо выданный ID, не уменьшается при удалении

	kind    string
	idOf    func(*T) int64
	setID   func(*T, int64)
	prepare func(*T) error // нормализация и валидация перед записью
	clone   func(T) T
}

// NewFilmStore создаёт in-memory хранилище фильмов.
func NewFilmStore() storage.FilmStore {
	return &entityStore[model.Film]{
		items:   make(map[int64]model.Film),
		kind:    "фильм",
		idOf:    func(f *model.Film) int64 { return f.ID },
		setID:   func(f *model.Film, id int64) { f.ID = id },
		prepare: prepareFilm,
		clone:   model.Film.Clone,
	}
}

// NewUserStore создаёт in-memory хранилище пользователей.
func NewUserStore() storage.UserStore {
	return &entityStore[model.User]{
		items:   make(map[int64]model.User),
		kind:    "пользователь",
		idOf:    func(u *model.User) int64 { return u.ID },
		setID:   func(u *model.User, id int64) { u.ID = id },
		prepare: prepareUser,
		clone:   model.User.Clone,
	}
}

func prepareFilm(f *model.Film) error {
	// Количество лайков вычисляется из журнала и не хранится
	f.Likes = 0
	return validation.ValidateFilm(f)
}

func prepareUser(u *model.User) error {
	if err := validation.ValidateUser(u); err != nil {
		return err
	}
	u.Normalize()
	return nil
}

func (s *entityStore[T]) Add(_ context.Context, entity T) (T, error) {
	var zero T

	e := s.clone(entity)
	if err := s.prepare(&e); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	s.setID(&e, s.lastID)
	s.items[s.lastID] = e
	s.order = append(s.order, s.lastID)

	return s.clone(e), nil
}

func (s *entityStore[T]) Update(_ context.Context, entity T) (T, error) {
	var zero T

	e := s.clone(entity)
	id := s.idOf(&e)
	if id <= 0 {
		return zero, fmt.Errorf("%w: %s без ID", storage.ErrNotFound, s.kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return zero, fmt.Errorf("%w: %s с id %d", storage.ErrNotFound, s.kind, id)
	}
	if err := s.prepare(&e); err != nil {
		return zero, err
	}

	s.items[id] = e
	return s.clone(e), nil
}

func (s *entityStore[T]) GetByID(_ context.Context, id int64) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	return s.clone(e), true, nil
}

func (s *entityStore[T]) GetAll(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.clone(s.items[id]))
	}
	return result, nil
}

func (s *entityStore[T]) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %s с id %d", storage.ErrNotFound, s.kind, id)
	}
	delete(s.items, id)

	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
