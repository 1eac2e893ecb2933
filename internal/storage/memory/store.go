package memory

import (
	"context"
	"sync"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/storage"
)

// Store — in-memory реализация storage.Store.
// Составные операции сервисного слоя сериализуются через txMu;
// отдельные чтения идут мимо неё и видят состояние до или после записи.
type Store struct {
	txMu sync.Mutex

	films   storage.FilmStore
	users   storage.UserStore
	genres  storage.GenreCatalog
	ratings storage.RatingCatalog
	friends storage.FriendGraph
	likes   storage.LikeLedger
}

// New создаёт пустое хранилище со справочниками по умолчанию.
func New() *Store {
	return &Store{
		films:   NewFilmStore(),
		users:   NewUserStore(),
		genres:  NewGenreCatalog(model.DefaultGenres()),
		ratings: NewRatingCatalog(model.DefaultMpaRatings()),
		friends: NewFriendGraph(),
		likes:   NewLikeLedger(),
	}
}

func (s *Store) Films() storage.FilmStore       { return s.films }
func (s *Store) Users() storage.UserStore       { return s.users }
func (s *Store) Genres() storage.GenreCatalog   { return s.genres }
func (s *Store) Ratings() storage.RatingCatalog { return s.ratings }
func (s *Store) Friends() storage.FriendGraph   { return s.friends }
func (s *Store) Likes() storage.LikeLedger      { return s.likes }

// RunInTx выполняет fn под эксклюзивной блокировкой хранилища.
// Отката нет: сервисный слой выполняет все проверки до первой записи.
func (s *Store) RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	return fn(s)
}

// Close — no-op для in-memory хранилища.
func (s *Store) Close() {}
