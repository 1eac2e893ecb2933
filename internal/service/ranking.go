package service

import (
	"cmp"
	"slices"

	"github.com/bigkaa/filmorate/internal/domain/model"
)

// RankByLikes упорядочивает фильмы по убыванию числа лайков, при равенстве —
// по возрастанию ID, и обрезает результат до limit. Поле Likes каждого
// фильма заполняется из counts. Входной срез не изменяется.
// limit <= 0 даёт пустой результат.
func RankByLikes(films []model.Film, counts map[int64]int, limit int) []model.Film {
	if limit <= 0 {
		return []model.Film{}
	}

	ranked := make([]model.Film, len(films))
	for i, f := range films {
		ranked[i] = f.Clone()
		ranked[i].Likes = counts[f.ID]
	}

	slices.SortFunc(ranked, func(a, b model.Film) int {
		if c := cmp.Compare(b.Likes, a.Likes); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
