package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/bigkaa/filmorate/internal/domain/model"
	"github.com/bigkaa/filmorate/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type services struct {
	films    *FilmService
	users    *UserService
	catalogs *CatalogService
}

// newServices собирает сервисы поверх пустого in-memory хранилища.
func newServices(t *testing.T) services {
	t.Helper()

	store := memory.New()
	logger := testLogger()
	catalogs := NewCatalogService(
		NewCatalogCache("genres", store.Genres(), 16, time.Minute),
		NewCatalogCache("mpa", store.Ratings(), 16, time.Minute),
		logger,
	)
	return services{
		films:    NewFilmService(store, catalogs, logger),
		users:    NewUserService(store, logger),
		catalogs: catalogs,
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func film(name string) model.Film {
	return model.Film{Name: name, Duration: 100, ReleaseDate: date(2000, time.January, 1)}
}

func user(login string) model.User {
	return model.User{Email: login + "@example.com", Login: login}
}

func mustAddFilm(t *testing.T, s services, name string) model.Film {
	t.Helper()
	f, err := s.films.Add(context.Background(), film(name))
	if err != nil {
		t.Fatalf("Add(%q) ошибка: %v", name, err)
	}
	return f
}

func mustAddUser(t *testing.T, s services, login string) model.User {
	t.Helper()
	u, err := s.users.Add(context.Background(), user(login))
	if err != nil {
		t.Fatalf("Add(%q) ошибка: %v", login, err)
	}
	return u
}

func ids[T any](items []T, id func(T) int64) []int64 {
	result := make([]int64, 0, len(items))
	for _, it := range items {
		result = append(result, id(it))
	}
	return result
}

func filmIDs(films []model.Film) []int64 { return ids(films, func(f model.Film) int64 { return f.ID }) }
func userIDs(users []model.User) []int64 { return ids(users, func(u model.User) int64 { return u.ID }) }

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestScenario — сквозной сценарий: фильм, валидация, лайки, рейтинг.
func TestScenario(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	inception, err := s.films.Add(ctx, model.Film{
		Name:        "Inception",
		Duration:    148,
		ReleaseDate: date(2010, time.July, 16),
	})
	if err != nil {
		t.Fatalf("Add(Inception) ошибка: %v", err)
	}
	if inception.ID != 1 {
		t.Fatalf("ID = %d, ожидали 1", inception.ID)
	}

	_, err = s.films.Add(ctx, model.Film{Name: "", Duration: 100})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Add(без названия) = %v, ожидали ErrValidation", err)
	}

	if err := s.films.Like(ctx, 1, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Like(1, 42) без пользователя = %v, ожидали ErrNotFound", err)
	}

	// Создаём пользователей до id=42
	var u model.User
	for i := 0; i < 42; i++ {
		u = mustAddUser(t, s, "user"+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	if u.ID != 42 {
		t.Fatalf("ID пользователя = %d, ожидали 42", u.ID)
	}

	if err := s.films.Like(ctx, 1, 42); err != nil {
		t.Fatalf("Like(1, 42) ошибка: %v", err)
	}
	if err := s.films.Like(ctx, 1, 42); !errors.Is(err, ErrConflict) {
		t.Fatalf("повторный Like(1, 42) = %v, ожидали ErrConflict", err)
	}

	popular, err := s.films.MostPopular(ctx, 1)
	if err != nil {
		t.Fatalf("MostPopular(1) ошибка: %v", err)
	}
	if !equalIDs(filmIDs(popular), []int64{1}) {
		t.Errorf("MostPopular(1) = %v, ожидали [1]", filmIDs(popular))
	}
	if popular[0].Likes != 1 {
		t.Errorf("Likes = %d, ожидали 1", popular[0].Likes)
	}
}

func TestFilmService_IDsIncreaseAndNotReused(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	a := mustAddFilm(t, s, "A")
	b := mustAddFilm(t, s, "B")
	if b.ID != a.ID+1 {
		t.Errorf("ID = %d, ожидали %d", b.ID, a.ID+1)
	}

	if err := s.films.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}
	c := mustAddFilm(t, s, "C")
	if c.ID != b.ID+1 {
		t.Errorf("ID после удаления = %d, ожидали %d", c.ID, b.ID+1)
	}
}

func TestFilmService_GenresAndRating(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	f := film("Фильм")
	f.Genres = []model.Genre{{ID: 4}, {ID: 1}, {ID: 4}}
	f.Mpa = &model.MpaRating{ID: 3}

	created, err := s.films.Add(ctx, f)
	if err != nil {
		t.Fatalf("Add() ошибка: %v", err)
	}
	if !equalIDs(created.GenreIDs(), []int64{1, 4}) {
		t.Errorf("жанры = %v, ожидали [1 4]", created.GenreIDs())
	}
	if created.Genres[0].Name != "Комедия" || created.Genres[1].Name != "Триллер" {
		t.Errorf("названия жанров не заполнены: %+v", created.Genres)
	}
	if created.Mpa == nil || created.Mpa.Name != "PG-13" {
		t.Errorf("Mpa = %+v, ожидали PG-13", created.Mpa)
	}

	tests := []struct {
		name   string
		mutate func(f *model.Film)
	}{
		{"неизвестный жанр", func(f *model.Film) { f.Genres = []model.Genre{{ID: 99}} }},
		{"неизвестный рейтинг", func(f *model.Film) { f.Mpa = &model.MpaRating{ID: 99} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := film("Фильм")
			tt.mutate(&f)
			if _, err := s.films.Add(ctx, f); !errors.Is(err, ErrNotFound) {
				t.Errorf("Add() = %v, ожидали ErrNotFound", err)
			}

			f.ID = created.ID
			if _, err := s.films.Update(ctx, f); !errors.Is(err, ErrNotFound) {
				t.Errorf("Update() = %v, ожидали ErrNotFound", err)
			}
		})
	}

	// Неудачные операции не меняют состояние
	all, err := s.films.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() ошибка: %v", err)
	}
	if len(all) != 1 || all[0].Mpa.Name != "PG-13" {
		t.Errorf("состояние изменилось: %+v", all)
	}
}

func TestFilmService_Update(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	f := mustAddFilm(t, s, "Старое")
	f.Name = "Новое"
	updated, err := s.films.Update(ctx, f)
	if err != nil {
		t.Fatalf("Update() ошибка: %v", err)
	}
	if updated.Name != "Новое" || updated.ID != f.ID {
		t.Errorf("Update() = %+v", updated)
	}

	unknown := film("Фильм")
	unknown.ID = 999
	if _, err := s.films.Update(ctx, unknown); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() неизвестного = %v, ожидали ErrNotFound", err)
	}

	f.Duration = -1
	if _, err := s.films.Update(ctx, f); !errors.Is(err, ErrValidation) {
		t.Errorf("Update() невалидного = %v, ожидали ErrValidation", err)
	}
}

// Повторное сохранение без изменений возвращает ровно сохранённый фильм.
func TestFilmService_UpdateWithoutChangesIsIdentity(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	f := film("Фильм")
	f.Description = "описание"
	f.Genres = []model.Genre{{ID: 3}, {ID: 1}, {ID: 3}}
	f.Mpa = &model.MpaRating{ID: 2}

	created, err := s.films.Add(ctx, f)
	if err != nil {
		t.Fatalf("Add() ошибка: %v", err)
	}
	updated, err := s.films.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update() ошибка: %v", err)
	}
	if !reflect.DeepEqual(updated, created) {
		t.Errorf("Update(Add(x)) = %+v, ожидали %+v", updated, created)
	}

	stored, err := s.films.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if !reflect.DeepEqual(stored, created) {
		t.Errorf("GetByID() = %+v, ожидали %+v", stored, created)
	}
}

// Имя, подставленное из логина, сохраняется при повторном сохранении.
func TestUserService_UpdateWithoutChangesIsIdentity(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	u := user("neo")
	u.Birthday = date(1964, time.September, 2)

	created, err := s.users.Add(ctx, u)
	if err != nil {
		t.Fatalf("Add() ошибка: %v", err)
	}
	updated, err := s.users.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update() ошибка: %v", err)
	}
	if !reflect.DeepEqual(updated, created) {
		t.Errorf("Update(Add(x)) = %+v, ожидали %+v", updated, created)
	}

	stored, err := s.users.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if !reflect.DeepEqual(stored, created) {
		t.Errorf("GetByID() = %+v, ожидали %+v", stored, created)
	}
}

func TestFilmService_Unlike(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	f := mustAddFilm(t, s, "Фильм")
	u := mustAddUser(t, s, "neo")

	if err := s.films.Unlike(ctx, f.ID, u.ID); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Unlike() без лайка = %v, ожидали ErrInvalidOperation", err)
	}
	if err := s.films.Unlike(ctx, f.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Unlike() с неизвестным пользователем = %v, ожидали ErrNotFound", err)
	}

	if err := s.films.Like(ctx, f.ID, u.ID); err != nil {
		t.Fatalf("Like() ошибка: %v", err)
	}
	if err := s.films.Unlike(ctx, f.ID, u.ID); err != nil {
		t.Fatalf("Unlike() ошибка: %v", err)
	}

	got, err := s.films.GetByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.Likes != 0 {
		t.Errorf("Likes = %d после Unlike, ожидали 0", got.Likes)
	}
}

func TestFilmService_MostPopular(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	films := []model.Film{mustAddFilm(t, s, "A"), mustAddFilm(t, s, "B"), mustAddFilm(t, s, "C"), mustAddFilm(t, s, "D")}
	users := []model.User{mustAddUser(t, s, "u1"), mustAddUser(t, s, "u2"), mustAddUser(t, s, "u3")}

	// C — 3 лайка, B и D — по 1, A — 0
	likes := map[int]int{2: 3, 1: 1, 3: 1}
	for fi, n := range likes {
		for ui := 0; ui < n; ui++ {
			if err := s.films.Like(ctx, films[fi].ID, users[ui].ID); err != nil {
				t.Fatalf("Like() ошибка: %v", err)
			}
		}
	}

	tests := []struct {
		limit int
		want  []int64
	}{
		{1, []int64{3}},
		{3, []int64{3, 2, 4}},
		{4, []int64{3, 2, 4, 1}},
		{100, []int64{3, 2, 4, 1}},
	}
	for _, tt := range tests {
		got, err := s.films.MostPopular(ctx, tt.limit)
		if err != nil {
			t.Fatalf("MostPopular(%d) ошибка: %v", tt.limit, err)
		}
		if !equalIDs(filmIDs(got), tt.want) {
			t.Errorf("MostPopular(%d) = %v, ожидали %v", tt.limit, filmIDs(got), tt.want)
		}
	}

	for _, limit := range []int{0, -1} {
		if _, err := s.films.MostPopular(ctx, limit); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("MostPopular(%d) = %v, ожидали ErrInvalidOperation", limit, err)
		}
	}
}

func TestFilmService_DeleteCascadesLikes(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	f := mustAddFilm(t, s, "Фильм")
	u := mustAddUser(t, s, "neo")

	if err := s.films.Like(ctx, f.ID, u.ID); err != nil {
		t.Fatalf("Like() ошибка: %v", err)
	}
	if err := s.films.Delete(ctx, f.ID); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}
	if _, err := s.films.GetByID(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() удалённого = %v, ожидали ErrNotFound", err)
	}
	if err := s.films.Delete(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный Delete() = %v, ожидали ErrNotFound", err)
	}

	popular, err := s.films.MostPopular(ctx, 10)
	if err != nil {
		t.Fatalf("MostPopular() ошибка: %v", err)
	}
	if len(popular) != 0 {
		t.Errorf("MostPopular() после удаления = %v", filmIDs(popular))
	}
}

func TestUserService_NameDefaultsToLogin(t *testing.T) {
	s := newServices(t)
	u := mustAddUser(t, s, "neo")
	if u.Name != "neo" {
		t.Errorf("Name = %q, ожидали логин", u.Name)
	}

	bad := user("neo")
	bad.Login = "n e o"
	if _, err := s.users.Add(context.Background(), bad); !errors.Is(err, ErrValidation) {
		t.Errorf("Add() логина с пробелами = %v, ожидали ErrValidation", err)
	}
}

func TestUserService_UpdateUnknown(t *testing.T) {
	s := newServices(t)
	u := user("neo")
	u.ID = 5
	if _, err := s.users.Update(context.Background(), u); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() = %v, ожидали ErrNotFound", err)
	}
}

func TestUserService_FriendshipDirected(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	a := mustAddUser(t, s, "a")
	b := mustAddUser(t, s, "b")

	if err := s.users.AddFriend(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("AddFriend() ошибка: %v", err)
	}

	friendsA, _ := s.users.ListFriends(ctx, a.ID)
	friendsB, _ := s.users.ListFriends(ctx, b.ID)
	if !equalIDs(userIDs(friendsA), []int64{b.ID}) {
		t.Errorf("друзья a = %v, ожидали [%d]", userIDs(friendsA), b.ID)
	}
	if len(friendsB) != 0 {
		t.Errorf("друзья b = %v, ожидали пусто", userIDs(friendsB))
	}

	followers, err := s.users.ListFollowers(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListFollowers() ошибка: %v", err)
	}
	if !equalIDs(userIDs(followers), []int64{a.ID}) {
		t.Errorf("подписчики b = %v, ожидали [%d]", userIDs(followers), a.ID)
	}
}

func TestUserService_AddFriendErrors(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	a := mustAddUser(t, s, "a")
	b := mustAddUser(t, s, "b")

	if err := s.users.AddFriend(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("AddFriend() ошибка: %v", err)
	}

	tests := []struct {
		name   string
		owner  int64
		target int64
		want   error
	}{
		{"повторная связь", a.ID, b.ID, ErrConflict},
		{"сам с собой", a.ID, a.ID, ErrInvalidOperation},
		{"неизвестный владелец", 999, b.ID, ErrNotFound},
		{"неизвестная цель", a.ID, 999, ErrNotFound},
		{"неизвестный сам с собой", 999, 999, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.users.AddFriend(ctx, tt.owner, tt.target); !errors.Is(err, tt.want) {
				t.Errorf("AddFriend(%d, %d) = %v, ожидали %v", tt.owner, tt.target, err, tt.want)
			}
		})
	}
}

func TestUserService_RemoveFriend(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	a := mustAddUser(t, s, "a")
	b := mustAddUser(t, s, "b")

	// Отсутствующая связь — не ошибка
	if err := s.users.RemoveFriend(ctx, a.ID, b.ID); err != nil {
		t.Errorf("RemoveFriend() без связи = %v", err)
	}
	if err := s.users.RemoveFriend(ctx, a.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveFriend() с неизвестным = %v, ожидали ErrNotFound", err)
	}

	if err := s.users.AddFriend(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("AddFriend() ошибка: %v", err)
	}
	if err := s.users.AddFriend(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("AddFriend() ошибка: %v", err)
	}
	if err := s.users.RemoveFriend(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("RemoveFriend() ошибка: %v", err)
	}

	// Обратная связь сохраняется
	friendsB, _ := s.users.ListFriends(ctx, b.ID)
	if !equalIDs(userIDs(friendsB), []int64{a.ID}) {
		t.Errorf("друзья b = %v, ожидали [%d]", userIDs(friendsB), a.ID)
	}
}

func TestUserService_CommonFriends(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	a := mustAddUser(t, s, "a")
	b := mustAddUser(t, s, "b")
	c := mustAddUser(t, s, "c")
	d := mustAddUser(t, s, "d")

	common, err := s.users.CommonFriends(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("CommonFriends() ошибка: %v", err)
	}
	if common == nil || len(common) != 0 {
		t.Errorf("CommonFriends() без друзей = %#v, ожидали пустой срез", common)
	}

	for _, pair := range [][2]int64{{a.ID, c.ID}, {a.ID, d.ID}, {b.ID, d.ID}, {b.ID, c.ID}, {a.ID, b.ID}} {
		if err := s.users.AddFriend(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("AddFriend(%d, %d) ошибка: %v", pair[0], pair[1], err)
		}
	}

	common, err = s.users.CommonFriends(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("CommonFriends() ошибка: %v", err)
	}
	if !equalIDs(userIDs(common), []int64{c.ID, d.ID}) {
		t.Errorf("CommonFriends() = %v, ожидали [%d %d]", userIDs(common), c.ID, d.ID)
	}

	if _, err := s.users.CommonFriends(ctx, a.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("CommonFriends() с неизвестным = %v, ожидали ErrNotFound", err)
	}
}

func TestUserService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	a := mustAddUser(t, s, "a")
	b := mustAddUser(t, s, "b")
	f := mustAddFilm(t, s, "Фильм")

	if err := s.users.AddFriend(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("AddFriend() ошибка: %v", err)
	}
	if err := s.users.AddFriend(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("AddFriend() ошибка: %v", err)
	}
	if err := s.films.Like(ctx, f.ID, a.ID); err != nil {
		t.Fatalf("Like() ошибка: %v", err)
	}

	if err := s.users.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}

	friendsB, _ := s.users.ListFriends(ctx, b.ID)
	followersB, _ := s.users.ListFollowers(ctx, b.ID)
	if len(friendsB) != 0 || len(followersB) != 0 {
		t.Errorf("связи с удалённым пользователем остались: друзья %v, подписчики %v",
			userIDs(friendsB), userIDs(followersB))
	}

	got, err := s.films.GetByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.Likes != 0 {
		t.Errorf("Likes = %d после удаления пользователя, ожидали 0", got.Likes)
	}
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	genres, err := s.catalogs.ListGenres(ctx)
	if err != nil {
		t.Fatalf("ListGenres() ошибка: %v", err)
	}
	if len(genres) != 5 {
		t.Errorf("жанров %d, ожидали 5", len(genres))
	}

	if _, err := s.catalogs.GetRating(ctx, 6); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRating(6) = %v, ожидали ErrNotFound", err)
	}

	r, err := s.catalogs.ResolveRating(ctx, nil)
	if err != nil || r != nil {
		t.Errorf("ResolveRating(nil) = %v, %v", r, err)
	}
}
