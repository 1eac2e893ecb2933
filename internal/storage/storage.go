// Пакет storage — контракты хранилища Filmorate.
//
// Два взаимозаменяемых бэкенда реализуют одни и те же интерфейсы:
// in-memory (storage/memory) и PostgreSQL (repository). Сервисный слой
// пишется только против интерфейсов Store и Tx, бэкенд выбирается при запуске.
package storage

import (
	"context"
	"errors"

	"github.com/bigkaa/filmorate/internal/domain/model"
)

// Ошибки слоя хранилища. Возвращаются обоими бэкендами.
var (
	// ErrNotFound — запись или связь не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — связь уже существует.
	ErrConflict = errors.New("конфликт — запись уже существует")
)

// EntityStore — CRUD над сущностями с идентификатором, назначаемым хранилищем.
type EntityStore[T any] interface {
	// Add валидирует сущность, назначает ID и сохраняет её.
	Add(ctx context.Context, entity T) (T, error)
	// Update заменяет изменяемые поля существующей сущности.
	// ErrNotFound, если ID не задан или неизвестен.
	Update(ctx context.Context, entity T) (T, error)
	// GetByID возвращает сущность и признак её наличия.
	GetByID(ctx context.Context, id int64) (T, bool, error)
	// GetAll возвращает все сущности.
	GetAll(ctx context.Context) ([]T, error)
	// Delete удаляет сущность. Связи (лайки, дружба) не затрагиваются.
	Delete(ctx context.Context, id int64) error
}

// FilmStore — хранилище фильмов.
type FilmStore = EntityStore[model.Film]

// UserStore — хранилище пользователей.
type UserStore = EntityStore[model.User]

// Catalog — справочник только для чтения.
type Catalog[T any] interface {
	// GetAll возвращает все записи, упорядоченные по ID.
	GetAll(ctx context.Context) ([]T, error)
	// GetByID возвращает запись и признак её наличия.
	GetByID(ctx context.Context, id int64) (T, bool, error)
}

// GenreCatalog — справочник жанров.
type GenreCatalog = Catalog[model.Genre]

// RatingCatalog — справочник рейтингов MPA.
type RatingCatalog = Catalog[model.MpaRating]

// FriendGraph — направленный граф дружбы между пользователями.
// Существование пользователей проверяет сервисный слой.
type FriendGraph interface {
	// AddFriend добавляет связь owner → target. ErrConflict, если связь уже есть.
	AddFriend(ctx context.Context, ownerID, targetID int64) error
	// RemoveFriend удаляет связь owner → target. Отсутствие связи — не ошибка.
	RemoveFriend(ctx context.Context, ownerID, targetID int64) error
	// FriendIDs возвращает цели связей владельца по возрастанию ID.
	FriendIDs(ctx context.Context, ownerID int64) ([]int64, error)
	// FollowerIDs возвращает владельцев связей, ведущих к пользователю, по возрастанию ID.
	FollowerIDs(ctx context.Context, targetID int64) ([]int64, error)
	// RemoveUser удаляет все связи, в которых участвует пользователь.
	RemoveUser(ctx context.Context, userID int64) error
}

// LikeLedger — журнал лайков (фильм, пользователь). Единственный источник истины о лайках.
type LikeLedger interface {
	// Like добавляет лайк. ErrConflict, если он уже есть.
	Like(ctx context.Context, filmID, userID int64) error
	// Unlike удаляет лайк. ErrNotFound, если его нет.
	Unlike(ctx context.Context, filmID, userID int64) error
	// Count возвращает количество лайков фильма.
	Count(ctx context.Context, filmID int64) (int, error)
	// Counts возвращает количество лайков по фильмам (фильмы без лайков отсутствуют).
	Counts(ctx context.Context) (map[int64]int, error)
	// RemoveFilm удаляет все лайки фильма.
	RemoveFilm(ctx context.Context, filmID int64) error
	// RemoveUser удаляет все лайки пользователя.
	RemoveUser(ctx context.Context, userID int64) error
}

// Tx — набор хранилищ, привязанных к одной логической операции.
type Tx interface {
	Films() FilmStore
	Users() UserStore
	Genres() GenreCatalog
	Ratings() RatingCatalog
	Friends() FriendGraph
	Likes() LikeLedger
}

// Store — корневое хранилище. Методы Tx вне RunInTx выполняются
// без общей транзакции (для чтения).
type Store interface {
	Tx
	// RunInTx выполняет fn атомарно: PostgreSQL — в транзакции,
	// in-memory — под эксклюзивной блокировкой хранилища.
	// При ошибке fn изменения PostgreSQL откатываются.
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
	// Close освобождает ресурсы бэкенда.
	Close()
}
