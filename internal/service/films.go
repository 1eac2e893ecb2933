// films.go — сервис фильмов: CRUD, лайки и рейтинг популярности.
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

// FilmService — операции над фильмами и журналом лайков.
// Все изменения выполняются внутри storage.Store.RunInTx.
type FilmService struct {
	store    storage.Store
	catalogs *CatalogService
	logger   *slog.Logger
}

// NewFilmService создаёт сервис фильмов.
func NewFilmService(store storage.Store, catalogs *CatalogService, logger *slog.Logger) *FilmService {
	return &FilmService{
		store:    store,
		catalogs: catalogs,
		logger:   logger.With(slog.String("component", "film_service")),
	}
}

// Add создаёт фильм: валидация полей → разрешение жанров и рейтинга → сохранение.
func (s *FilmService) Add(ctx context.Context, film model.Film) (model.Film, error) {
	if err := validation.ValidateFilm(&film); err != nil {
		return model.Film{}, mapErr(err)
	}
	if err := s.resolveRefs(ctx, &film); err != nil {
		return model.Film{}, err
	}

	var created model.Film
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		var err error
		created, err = tx.Films().Add(ctx, film)
		return err
	})
	if err != nil {
		return model.Film{}, mapErr(err)
	}

	created.Likes = 0
	s.logger.Info("Фильм создан",
		slog.Int64("film_id", created.ID),
		slog.String("name", created.Name),
	)
	return created, nil
}

// Update заменяет изменяемые поля существующего фильма.
func (s *FilmService) Update(ctx context.Context, film model.Film) (model.Film, error) {
	var updated model.Film
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		if _, ok, err := tx.Films().GetByID(ctx, film.ID); err != nil {
			return err
		} else if !ok {
			return filmNotFound(film.ID)
		}

		if err := validation.ValidateFilm(&film); err != nil {
			return err
		}
		if err := s.resolveRefs(ctx, &film); err != nil {
			return err
		}

		var err error
		if updated, err = tx.Films().Update(ctx, film); err != nil {
			return err
		}
		updated.Likes, err = tx.Likes().Count(ctx, updated.ID)
		return err
	})
	if err != nil {
		return model.Film{}, mapErr(err)
	}

	s.logger.Info("Фильм обновлён", slog.Int64("film_id", updated.ID))
	return updated, nil
}

// GetByID возвращает фильм с количеством лайков.
func (s *FilmService) GetByID(ctx context.Context, id int64) (model.Film, error) {
	film, ok, err := s.store.Films().GetByID(ctx, id)
	if err != nil {
		return model.Film{}, mapErr(err)
	}
	if !ok {
		return model.Film{}, filmNotFound(id)
	}

	if film.Likes, err = s.store.Likes().Count(ctx, id); err != nil {
		return model.Film{}, mapErr(err)
	}
	return film, nil
}

// GetAll возвращает все фильмы с количеством лайков.
func (s *FilmService) GetAll(ctx context.Context) ([]model.Film, error) {
	films, err := s.store.Films().GetAll(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	counts, err := s.store.Likes().Counts(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	for i := range films {
		films[i].Likes = counts[films[i].ID]
	}
	return films, nil
}

// Delete удаляет фильм вместе с его лайками.
func (s *FilmService) Delete(ctx context.Context, id int64) error {
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		if _, ok, err := tx.Films().GetByID(ctx, id); err != nil {
			return err
		} else if !ok {
			return filmNotFound(id)
		}
		if err := tx.Likes().RemoveFilm(ctx, id); err != nil {
			return err
		}
		return tx.Films().Delete(ctx, id)
	})
	if err != nil {
		return mapErr(err)
	}

	s.logger.Info("Фильм удалён", slog.Int64("film_id", id))
	return nil
}

// Like ставит лайк фильму от пользователя.
// ErrNotFound — фильм или пользователь не найден, ErrConflict — лайк уже есть.
func (s *FilmService) Like(ctx context.Context, filmID, userID int64) error {
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		if err := s.checkPair(ctx, tx, filmID, userID); err != nil {
			return err
		}
		if err := tx.Likes().Like(ctx, filmID, userID); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return fmt.Errorf("%w: пользователь %d уже поставил лайк фильму %d", ErrConflict, userID, filmID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return mapErr(err)
	}

	likesTotal.WithLabelValues("like").Inc()
	s.logger.Info("Лайк поставлен",
		slog.Int64("film_id", filmID),
		slog.Int64("user_id", userID),
	)
	return nil
}

// Unlike снимает лайк.
// ErrNotFound — фильм или пользователь не найден, ErrInvalidOperation — лайка не было.
func (s *FilmService) Unlike(ctx context.Context, filmID, userID int64) error {
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		if err := s.checkPair(ctx, tx, filmID, userID); err != nil {
			return err
		}
		if err := tx.Likes().Unlike(ctx, filmID, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: пользователь %d не ставил лайк фильму %d", ErrInvalidOperation, userID, filmID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return mapErr(err)
	}

	likesTotal.WithLabelValues("unlike").Inc()
	s.logger.Info("Лайк снят",
		slog.Int64("film_id", filmID),
		slog.Int64("user_id", userID),
	)
	return nil
}

// MostPopular возвращает limit самых популярных фильмов.
// Фильмы без лайков участвуют в рейтинге с нулевым счётом.
func (s *FilmService) MostPopular(ctx context.Context, limit int) ([]model.Film, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: размер выборки должен быть положительным, получено %d", ErrInvalidOperation, limit)
	}

	films, err := s.store.Films().GetAll(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	counts, err := s.store.Likes().Counts(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return RankByLikes(films, counts, limit), nil
}

// checkPair проверяет существование фильма и пользователя.
func (s *FilmService) checkPair(ctx context.Context, tx storage.Tx, filmID, userID int64) error {
	if _, ok, err := tx.Films().GetByID(ctx, filmID); err != nil {
		return err
	} else if !ok {
		return filmNotFound(filmID)
	}
	if _, ok, err := tx.Users().GetByID(ctx, userID); err != nil {
		return err
	} else if !ok {
		return userNotFound(userID)
	}
	return nil
}

// resolveRefs заменяет ссылки на жанры и рейтинг записями справочников.
func (s *FilmService) resolveRefs(ctx context.Context, film *model.Film) error {
	genres, err := s.catalogs.ResolveGenres(ctx, film.Genres)
	if err != nil {
		return err
	}
	mpa, err := s.catalogs.ResolveRating(ctx, film.Mpa)
	if err != nil {
		return err
	}
	film.Genres = genres
	film.Mpa = mpa
	return nil
}
