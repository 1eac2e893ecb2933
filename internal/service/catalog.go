// catalog.go — сервис справочников: жанры и рейтинги MPA.
// Используется HTTP-слоем для чтения и FilmService для разрешения ссылок фильма.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/storage"
)

// CatalogService — чтение справочников и разрешение ссылок на них.
type CatalogService struct {
	genres  storage.GenreCatalog
	ratings storage.RatingCatalog
	logger  *slog.Logger
}

// NewCatalogService создаёт сервис справочников.
// genres и ratings — обычно CatalogCache поверх хранилища.
func NewCatalogService(genres storage.GenreCatalog, ratings storage.RatingCatalog, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		genres:  genres,
		ratings: ratings,
		logger:  logger.With(slog.String("component", "catalog_service")),
	}
}

// ListGenres возвращает все жанры по возрастанию ID.
func (s *CatalogService) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.genres.GetAll(ctx)
}

// GetGenre возвращает жанр по ID.
func (s *CatalogService) GetGenre(ctx context.Context, id int64) (model.Genre, error) {
	g, ok, err := s.genres.GetByID(ctx, id)
	if err != nil {
		return model.Genre{}, err
	}
	if !ok {
		return model.Genre{}, fmt.Errorf("%w: жанр с id %d", ErrNotFound, id)
	}
	return g, nil
}

// ListRatings возвращает все рейтинги MPA по возрастанию ID.
func (s *CatalogService) ListRatings(ctx context.Context) ([]model.MpaRating, error) {
	return s.ratings.GetAll(ctx)
}

// GetRating возвращает рейтинг MPA по ID.
func (s *CatalogService) GetRating(ctx context.Context, id int64) (model.MpaRating, error) {
	r, ok, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return model.MpaRating{}, err
	}
	if !ok {
		return model.MpaRating{}, fmt.Errorf("%w: рейтинг MPA с id %d", ErrNotFound, id)
	}
	return r, nil
}

// ResolveGenres проверяет ссылки на жанры и заполняет их названия.
// Дубликаты схлопываются, результат упорядочен по ID.
func (s *CatalogService) ResolveGenres(ctx context.Context, refs []model.Genre) ([]model.Genre, error) {
	ids := model.GenreIDs(refs)

	result := make([]model.Genre, 0, len(ids))
	for _, id := range ids {
		g, err := s.GetGenre(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, nil
}

// ResolveRating проверяет ссылку на рейтинг MPA. nil — рейтинг не задан.
func (s *CatalogService) ResolveRating(ctx context.Context, ref *model.MpaRating) (*model.MpaRating, error) {
	if ref == nil {
		return nil, nil
	}
	r, err := s.GetRating(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
