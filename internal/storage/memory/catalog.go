package memory

import (
	"context"
	"slices"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/storage"
)

// catalog — справочник только для чтения. Заполняется при создании,
// поэтому блокировки не нужны.
type catalog[T any] struct {
	items []T
	byID  map[int64]T
}

func newCatalog[T any](seed []T, idOf func(T) int64) *catalog[T] {
	items := slices.Clone(seed)
	slices.SortFunc(items, func(a, b T) int {
		return cmpInt64(idOf(a), idOf(b))
	})

	byID := make(map[int64]T, len(items))
	for _, it := range items {
		byID[idOf(it)] = it
	}
	return &catalog[T]{items: items, byID: byID}
}

// NewGenreCatalog создаёт справочник жанров из начального набора.
func NewGenreCatalog(seed []model.Genre) storage.GenreCatalog {
	return newCatalog(seed, func(g model.Genre) int64 { return g.ID })
}

// NewRatingCatalog создаёт справочник рейтингов MPA из начального набора.
func NewRatingCatalog(seed []model.MpaRating) storage.RatingCatalog {
	return newCatalog(seed, func(r model.MpaRating) int64 { return r.ID })
}

func (c *catalog[T]) GetAll(_ context.Context) ([]T, error) {
	return slices.Clone(c.items), nil
}

func (c *catalog[T]) GetByID(_ context.Context, id int64) (T, bool, error) {
	it, ok := c.byID[id]
	return it, ok, nil
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
