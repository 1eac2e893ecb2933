// Пакет repository — PostgreSQL-бэкенд хранилища Filmorate.
// Все запросы — чистый SQL через pgx, без ORM.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigkaa/filmorate/internal/domain/validation"
	"github.com/bigkaa/filmorate/internal/storage"
)

// Коды ошибок PostgreSQL.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeStringTruncation    = "22001"
)

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner позволяет выполнять операции в транзакции.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner создаёт TxRunner для управления транзакциями.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInTx выполняет fn внутри транзакции.
// При ошибке fn — транзакция откатывается.
// При успехе — коммитится.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // откат после коммита — no-op

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// repos — набор репозиториев поверх одного DBTX (пул или транзакция).
type repos struct {
	films   storage.FilmStore
	users   storage.UserStore
	genres  storage.GenreCatalog
	ratings storage.RatingCatalog
	friends storage.FriendGraph
	likes   storage.LikeLedger
}

func newRepos(db DBTX) repos {
	return repos{
		films:   NewFilmRepository(db),
		users:   NewUserRepository(db),
		genres:  NewGenreRepository(db),
		ratings: NewRatingRepository(db),
		friends: NewFriendRepository(db),
		likes:   NewLikeRepository(db),
	}
}

func (r repos) Films() storage.FilmStore       { return r.films }
func (r repos) Users() storage.UserStore       { return r.users }
func (r repos) Genres() storage.GenreCatalog   { return r.genres }
func (r repos) Ratings() storage.RatingCatalog { return r.ratings }
func (r repos) Friends() storage.FriendGraph   { return r.friends }
func (r repos) Likes() storage.LikeLedger      { return r.likes }

// Store — реализация storage.Store поверх pgxpool.
// Методы Tx вне RunInTx работают напрямую с пулом.
type Store struct {
	repos
	pool     *pgxpool.Pool
	txRunner *TxRunner
}

// NewStore создаёт PostgreSQL-хранилище.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		repos:    newRepos(pool),
		pool:     pool,
		txRunner: NewTxRunner(pool),
	}
}

// RunInTx выполняет fn в транзакции с репозиториями, привязанными к ней.
func (s *Store) RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	return s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		return fn(newRepos(tx))
	})
}

// Close закрывает пул подключений.
func (s *Store) Close() {
	s.pool.Close()
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникальности PostgreSQL.
func isUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// isForeignKeyViolation проверяет, ссылается ли запись на несуществующую строку.
func isForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// wrapDataErr переводит нарушение CHECK-ограничения или длины значения
// в ошибку валидации. Остальные ошибки оборачиваются как есть.
func wrapDataErr(err error, msg string) error {
	if hasCode(err, codeCheckViolation) || hasCode(err, codeStringTruncation) {
		return fmt.Errorf("%w: значение поля нарушает ограничение БД", validation.ErrInvalid)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
