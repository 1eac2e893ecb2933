package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/domain/validation"
	"github.com/bigkaa/filmorate/internal/storage"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newFilm(name string) model.Film {
	return model.Film{
		Name:        name,
		Description: "описание",
		ReleaseDate: date(2000, time.January, 1),
		Duration:    100,
	}
}

func newUser(login string) model.User {
	return model.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: date(1990, time.May, 5),
	}
}

func TestFilmStore_AddAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := NewFilmStore()

	f1, err := s.Add(ctx, newFilm("Первый"))
	require.NoError(t, err)
	f2, err := s.Add(ctx, newFilm("Второй"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), f1.ID)
	assert.Equal(t, int64(2), f2.ID)
}

func TestFilmStore_IDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := NewFilmStore()

	f1, err := s.Add(ctx, newFilm("Первый"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, f1.ID))

	f2, err := s.Add(ctx, newFilm("Второй"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), f2.ID)
}

func TestFilmStore_AddInvalid(t *testing.T) {
	s := NewFilmStore()

	f := newFilm("")
	_, err := s.Add(context.Background(), f)
	require.ErrorIs(t, err, validation.ErrInvalid)

	all, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

// Длина названия, email и логина не ограничена: так же ведёт себя PostgreSQL (TEXT).
func TestStores_LongTextAccepted(t *testing.T) {
	ctx := context.Background()

	f, err := NewFilmStore().Add(ctx, newFilm(strings.Repeat("я", 300)))
	require.NoError(t, err)
	assert.Len(t, []rune(f.Name), 300)

	login := strings.Repeat("n", 300)
	u, err := NewUserStore().Add(ctx, newUser(login))
	require.NoError(t, err)
	assert.Equal(t, login, u.Name)
}

func TestFilmStore_LikesIgnored(t *testing.T) {
	ctx := context.Background()
	s := NewFilmStore()

	f := newFilm("Фильм")
	f.Likes = 42
	added, err := s.Add(ctx, f)
	require.NoError(t, err)
	assert.Zero(t, added.Likes)
}

func TestFilmStore_Update(t *testing.T) {
	ctx := context.Background()
	s := NewFilmStore()

	f, err := s.Add(ctx, newFilm("Старое"))
	require.NoError(t, err)

	f.Name = "Новое"
	updated, err := s.Update(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, "Новое", updated.Name)

	got, ok, err := s.GetByID(ctx, f.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Новое", got.Name)
}

func TestFilmStore_UpdateUnknown(t *testing.T) {
	ctx := context.Background()
	s := NewFilmStore()

	f := newFilm("Фильм")
	_, err := s.Update(ctx, f)
	require.ErrorIs(t, err, storage.ErrNotFound, "без ID")

	f.ID = 99
	_, err = s.Update(ctx, f)
	require.ErrorIs(t, err, storage.ErrNotFound, "неизвестный ID")
}

func TestFilmStore_UpdateInvalidKeepsOld(t *testing.T) {
	ctx := context.Background()
	s := NewFilmStore()

	f, err := s.Add(ctx, newFilm("Фильм"))
	require.NoError(t, err)

	bad := f
	bad.Duration = 0
	_, err = s.Update(ctx, bad)
	require.ErrorIs(t, err, validation.ErrInvalid)

	got, _, err := s.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Duration)
}

func TestFilmStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewFilmStore()

	f := newFilm("Фильм")
	f.Genres = []model.Genre{{ID: 1, Name: "Комедия"}}
	added, err := s.Add(ctx, f)
	require.NoError(t, err)

	added.Genres[0].Name = "испорчено"
	*added.ReleaseDate = time.Time{}

	got, _, err := s.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Комедия", got.Genres[0].Name)
	assert.Equal(t, 2000, got.ReleaseDate.Year())
}

func TestFilmStore_GetAllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewFilmStore()

	for _, name := range []string{"A", "B", "C"} {
		_, err := s.Add(ctx, newFilm(name))
		require.NoError(t, err)
	}
	require.NoError(t, s.Delete(ctx, 2))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "C", all[1].Name)
}

func TestFilmStore_DeleteUnknown(t *testing.T) {
	err := NewFilmStore().Delete(context.Background(), 7)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserStore_NameDefaultsToLogin(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	u, err := s.Add(ctx, newUser("neo"))
	require.NoError(t, err)
	assert.Equal(t, "neo", u.Name)

	u.Name = "  "
	u, err = s.Update(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "neo", u.Name)
}

func TestUserStore_AddInvalid(t *testing.T) {
	u := newUser("neo")
	u.Email = "neo.example.com"

	_, err := NewUserStore().Add(context.Background(), u)
	require.ErrorIs(t, err, validation.ErrInvalid)
}

func TestCatalog_SortedAndLookup(t *testing.T) {
	ctx := context.Background()
	c := NewGenreCatalog([]model.Genre{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}})

	all, err := c.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

	g, ok, err := c.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", g.Name)

	_, ok, err = c.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalog_Defaults(t *testing.T) {
	ctx := context.Background()
	s := New()

	genres, err := s.Genres().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 5)

	r, ok, err := s.Ratings().GetByID(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "PG-13", r.Name)
}

func TestFriendGraph_Directed(t *testing.T) {
	ctx := context.Background()
	g := NewFriendGraph()

	require.NoError(t, g.AddFriend(ctx, 1, 2))
	require.NoError(t, g.AddFriend(ctx, 1, 3))

	ids, err := g.FriendIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids)

	ids, err = g.FriendIDs(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, ids, "дружба направленная")

	ids, err = g.FollowerIDs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestFriendGraph_DuplicateConflict(t *testing.T) {
	ctx := context.Background()
	g := NewFriendGraph()

	require.NoError(t, g.AddFriend(ctx, 1, 2))
	err := g.AddFriend(ctx, 1, 2)
	require.ErrorIs(t, err, storage.ErrConflict)
}

func TestFriendGraph_RemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	g := NewFriendGraph()

	require.NoError(t, g.AddFriend(ctx, 1, 2))
	require.NoError(t, g.RemoveFriend(ctx, 1, 2))
	require.NoError(t, g.RemoveFriend(ctx, 1, 2))

	ids, err := g.FollowerIDs(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFriendGraph_RemoveUser(t *testing.T) {
	ctx := context.Background()
	g := NewFriendGraph()

	require.NoError(t, g.AddFriend(ctx, 1, 2))
	require.NoError(t, g.AddFriend(ctx, 2, 3))
	require.NoError(t, g.AddFriend(ctx, 3, 2))
	require.NoError(t, g.RemoveUser(ctx, 2))

	for _, id := range []int64{1, 3} {
		friends, err := g.FriendIDs(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, friends)

		followers, err := g.FollowerIDs(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, followers)
	}
}

func TestLikeLedger(t *testing.T) {
	ctx := context.Background()
	l := NewLikeLedger()

	require.NoError(t, l.Like(ctx, 1, 10))
	require.NoError(t, l.Like(ctx, 1, 11))
	require.NoError(t, l.Like(ctx, 2, 10))
	require.ErrorIs(t, l.Like(ctx, 1, 10), storage.ErrConflict)

	n, err := l.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, l.Unlike(ctx, 1, 11))
	require.ErrorIs(t, l.Unlike(ctx, 1, 11), storage.ErrNotFound)

	counts, err := l.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 1, 2: 1}, counts)
}

func TestLikeLedger_Cascade(t *testing.T) {
	ctx := context.Background()
	l := NewLikeLedger()

	require.NoError(t, l.Like(ctx, 1, 10))
	require.NoError(t, l.Like(ctx, 2, 10))
	require.NoError(t, l.Like(ctx, 2, 11))

	require.NoError(t, l.RemoveUser(ctx, 10))
	counts, err := l.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{2: 1}, counts)

	require.NoError(t, l.RemoveFilm(ctx, 2))
	counts, err = l.Counts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestLikeLedger_CountsIsCopy(t *testing.T) {
	ctx := context.Background()
	l := NewLikeLedger()
	require.NoError(t, l.Like(ctx, 1, 10))

	counts, err := l.Counts(ctx)
	require.NoError(t, err)
	counts[1] = 100

	n, err := l.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_RunInTx(t *testing.T) {
	s := New()
	sentinel := errors.New("сбой")

	err := s.RunInTx(context.Background(), func(tx storage.Tx) error {
		_, err := tx.Users().Add(context.Background(), newUser("neo"))
		require.NoError(t, err)
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
}

func TestStore_RunInTxCancelled(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.RunInTx(ctx, func(storage.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// TestStore_ConcurrentLikes проверяет, что конкурентные лайки
// разных пользователей не теряются.
func TestStore_ConcurrentLikes(t *testing.T) {
	ctx := context.Background()
	s := New()

	const users = 50
	var wg sync.WaitGroup
	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_ = s.RunInTx(ctx, func(tx storage.Tx) error {
				return tx.Likes().Like(ctx, 1, uid)
			})
		}(int64(i))
	}
	wg.Wait()

	n, err := s.Likes().Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, users, n)
}
