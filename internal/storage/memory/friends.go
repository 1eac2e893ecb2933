package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/bigkaa/filmorate/internal/storage"
)

// friendGraph — направленный граф дружбы.
// out: владелец → цели, in: цель → владельцы (для подписчиков и каскадного удаления).
type friendGraph struct {
	mu  sync.RWMutex
	out map[int64]map[int64]struct{}
	in  map[int64]map[int64]struct{}
}

// NewFriendGraph создаёт пустой граф дружбы.
func NewFriendGraph() storage.FriendGraph {
	return &friendGraph{
		out: make(map[int64]map[int64]struct{}),
		in:  make(map[int64]map[int64]struct{}),
	}
}

func (g *friendGraph) AddFriend(_ context.Context, ownerID, targetID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.out[ownerID][targetID]; ok {
		return fmt.Errorf("%w: пользователь %d уже добавил в друзья %d", storage.ErrConflict, ownerID, targetID)
	}
	link(g.out, ownerID, targetID)
	link(g.in, targetID, ownerID)
	return nil
}

func (g *friendGraph) RemoveFriend(_ context.Context, ownerID, targetID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	unlink(g.out, ownerID, targetID)
	unlink(g.in, targetID, ownerID)
	return nil
}

func (g *friendGraph) FriendIDs(_ context.Context, ownerID int64) ([]int64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.out[ownerID]), nil
}

func (g *friendGraph) FollowerIDs(_ context.Context, targetID int64) ([]int64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.in[targetID]), nil
}

func (g *friendGraph) RemoveUser(_ context.Context, userID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for target := range g.out[userID] {
		unlink(g.in, target, userID)
	}
	for owner := range g.in[userID] {
		unlink(g.out, owner, userID)
	}
	delete(g.out, userID)
	delete(g.in, userID)
	return nil
}

func link(adj map[int64]map[int64]struct{}, from, to int64) {
	set, ok := adj[from]
	if !ok {
		set = make(map[int64]struct{})
		adj[from] = set
	}
	set[to] = struct{}{}
}

func unlink(adj map[int64]map[int64]struct{}, from, to int64) {
	set, ok := adj[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(adj, from)
	}
}

func sortedKeys(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
