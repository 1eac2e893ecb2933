package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/storage"
)

// likeLedger — журнал лайков. counts кэширует количество лайков по фильму
// и всегда согласован с edges (обновляется под той же блокировкой).
type likeLedger struct {
	mu     sync.RWMutex
	edges  map[model.LikeEdge]struct{}
	counts map[int64]int
}

// NewLikeLedger создаёт пустой журнал лайков.
func NewLikeLedger() storage.LikeLedger {
	return &likeLedger{
		edges:  make(map[model.LikeEdge]struct{}),
		counts: make(map[int64]int),
	}
}

func (l *likeLedger) Like(_ context.Context, filmID, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	edge := model.LikeEdge{FilmID: filmID, UserID: userID}
	if _, ok := l.edges[edge]; ok {
		return fmt.Errorf("%w: пользователь %d уже поставил лайк фильму %d", storage.ErrConflict, userID, filmID)
	}
	l.edges[edge] = struct{}{}
	l.counts[filmID]++
	return nil
}

func (l *likeLedger) Unlike(_ context.Context, filmID, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	edge := model.LikeEdge{FilmID: filmID, UserID: userID}
	if _, ok := l.edges[edge]; !ok {
		return fmt.Errorf("%w: пользователь %d не ставил лайк фильму %d", storage.ErrNotFound, userID, filmID)
	}
	l.removeLocked(edge)
	return nil
}

func (l *likeLedger) Count(_ context.Context, filmID int64) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[filmID], nil
}

func (l *likeLedger) Counts(_ context.Context) (map[int64]int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.counts), nil
}

func (l *likeLedger) RemoveFilm(_ context.Context, filmID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for edge := range l.edges {
		if edge.FilmID == filmID {
			l.removeLocked(edge)
		}
	}
	return nil
}

func (l *likeLedger) RemoveUser(_ context.Context, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for edge := range l.edges {
		if edge.UserID == userID {
			l.removeLocked(edge)
		}
	}
	return nil
}

func (l *likeLedger) removeLocked(edge model.LikeEdge) {
	delete(l.edges, edge)
	l.counts[edge.FilmID]--
	if l.counts[edge.FilmID] <= 0 {
		delete(l.counts, edge.FilmID)
	}
}
