package chairs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/Lelo88/isuumo-api-golang/internal/search"
)

var sampleChair = Chair{
	ID:          7,
	Name:        "ゲーミングチェア",
	Description: "長時間座っても疲れない",
	Thumbnail:   "/images/chair/7.png",
	Price:       4500,
	Height:      120,
	Width:       60,
	Depth:       65,
	Color:       "黒",
	Features:    "肘掛け,キャスター",
	Kind:        "ゲーミングチェア",
	Popularity:  300,
	Stock:       4,
}

func TestRepository_Count(t *testing.T) {
	database := &fakeDB{}
	repository := NewRepository(database)
	database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
		return &fakeRow{values: []any{int64(12)}}
	}

	query := search.Query{Where: "price >= $1 AND stock > 0", Args: []any{int64(3000)}}
	count, err := repository.Count(context.Background(), query)

	require.NoError(t, err)
	require.Equal(t, int64(12), count)
	require.Equal(t, "SELECT COUNT(*) FROM chair WHERE price >= $1 AND stock > 0", database.lastQuery)
	require.Equal(t, []any{int64(3000)}, database.lastArgs)
}

func TestRepository_Search(t *testing.T) {
	t.Run("ordered and paginated", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)
		rows := &fakeRows{rows: [][]any{chairRow(sampleChair)}}
		database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return rows, nil
		}

		query := search.Query{Where: "color = $1 AND stock > 0", Args: []any{"黒"}}
		chairs, err := repository.Search(context.Background(), query, search.Page{Number: 2, PerPage: 10})

		require.NoError(t, err)
		require.Equal(t, []Chair{sampleChair}, chairs)
		require.True(t, rows.closed)
		require.True(t, strings.HasSuffix(normalizeSQL(database.lastQuery),
			"FROM chair WHERE color = $1 AND stock > 0 ORDER BY popularity DESC, id ASC LIMIT $2 OFFSET $3"))
		require.Equal(t, []any{"黒", 10, 20}, database.lastArgs)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)
		database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &fakeRows{}, nil
		}

		chairs, err := repository.Search(context.Background(), search.Query{Where: "kind = $1", Args: []any{"x"}}, search.Page{PerPage: 5})

		require.NoError(t, err)
		require.NotNil(t, chairs)
		require.Empty(t, chairs)
	})

	t.Run("query error", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)
		dbErr := errors.New("db down")
		database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return nil, dbErr
		}

		_, err := repository.Search(context.Background(), search.Query{Where: "kind = $1", Args: []any{"x"}}, search.Page{PerPage: 5})

		require.ErrorIs(t, err, dbErr)
	})

	t.Run("scan error closes rows", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)
		scanErr := errors.New("scan failed")
		rows := &fakeRows{rows: [][]any{chairRow(sampleChair)}, scanErr: scanErr}
		database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return rows, nil
		}

		_, err := repository.Search(context.Background(), search.Query{Where: "kind = $1", Args: []any{"x"}}, search.Page{PerPage: 5})

		require.ErrorIs(t, err, scanErr)
		require.True(t, rows.closed)
	})

	t.Run("rows error", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)
		rowsErr := errors.New("connection reset")
		database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &fakeRows{err: rowsErr}, nil
		}

		_, err := repository.Search(context.Background(), search.Query{Where: "kind = $1", Args: []any{"x"}}, search.Page{PerPage: 5})

		require.ErrorIs(t, err, rowsErr)
	})
}

func TestRepository_Listings(t *testing.T) {
	tests := []struct {
		name    string
		call    func(repository *Repository) ([]Chair, error)
		orderBy string
	}{
		{
			name:    "low priced",
			call:    func(repository *Repository) ([]Chair, error) { return repository.LowPriced(context.Background(), 20) },
			orderBy: "WHERE stock > 0 ORDER BY price ASC, id ASC LIMIT $1",
		},
		{
			name:    "popular",
			call:    func(repository *Repository) ([]Chair, error) { return repository.Popular(context.Background(), 20) },
			orderBy: "WHERE stock > 0 ORDER BY popularity DESC, id ASC LIMIT $1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database := &fakeDB{}
			repository := NewRepository(database)
			database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
				return &fakeRows{rows: [][]any{chairRow(sampleChair)}}, nil
			}

			chairs, err := tt.call(repository)

			require.NoError(t, err)
			require.Equal(t, []Chair{sampleChair}, chairs)
			require.True(t, strings.HasSuffix(database.lastQuery, tt.orderBy))
			require.Equal(t, []any{20}, database.lastArgs)
		})
	}
}

func TestRepository_GetAvailable(t *testing.T) {
	t.Run("found increments popularity", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)
		database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{values: chairRow(sampleChair)}
		}

		chair, err := repository.GetAvailable(context.Background(), 7)

		require.NoError(t, err)
		require.Equal(t, sampleChair, chair)
		normalized := normalizeSQL(database.lastQuery)
		require.Contains(t, normalized, "SET popularity = popularity + 1")
		require.Contains(t, normalized, "WHERE id = $1 AND stock > 0")
		require.Equal(t, []any{int64(7)}, database.lastArgs)
	})

	t.Run("absent or out of stock", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)
		database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{err: pgx.ErrNoRows}
		}

		_, err := repository.GetAvailable(context.Background(), 7)

		require.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)
		dbErr := errors.New("db down")
		database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{err: dbErr}
		}

		_, err := repository.GetAvailable(context.Background(), 7)

		require.ErrorIs(t, err, dbErr)
		require.NotErrorIs(t, err, ErrorNotFound)
	})
}

func TestRepository_Buy(t *testing.T) {
	newTx := func(stockRow *fakeRow) (*fakeDB, *fakeTx) {
		tx := &fakeTx{queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return stockRow
		}}
		database := &fakeDB{beginFn: func(ctx context.Context) (pgx.Tx, error) { return tx, nil }}
		return database, tx
	}

	t.Run("success commits", func(t *testing.T) {
		database, tx := newTx(&fakeRow{values: []any{int64(1)}})

		err := NewRepository(database).Buy(context.Background(), 7)

		require.NoError(t, err)
		require.True(t, tx.committed)
		require.Len(t, tx.queries, 2)
		require.Equal(t, "SELECT stock FROM chair WHERE id = $1 FOR UPDATE", tx.queries[0])
		require.Equal(t, "UPDATE chair SET stock = stock - 1 WHERE id = $1", tx.queries[1])
	})

	t.Run("missing chair rolls back", func(t *testing.T) {
		database, tx := newTx(&fakeRow{err: pgx.ErrNoRows})

		err := NewRepository(database).Buy(context.Background(), 7)

		require.ErrorIs(t, err, ErrorNotFound)
		require.False(t, tx.committed)
		require.True(t, tx.rollbackCalled)
		require.Len(t, tx.queries, 1)
	})

	t.Run("zero stock rolls back", func(t *testing.T) {
		database, tx := newTx(&fakeRow{values: []any{int64(0)}})

		err := NewRepository(database).Buy(context.Background(), 7)

		require.ErrorIs(t, err, ErrorNotFound)
		require.False(t, tx.committed)
		require.True(t, tx.rollbackCalled)
		require.Len(t, tx.queries, 1, "no update must be issued")
	})

	t.Run("update error rolls back", func(t *testing.T) {
		database, tx := newTx(&fakeRow{values: []any{int64(3)}})
		execErr := errors.New("update failed")
		tx.execFn = func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, execErr
		}

		err := NewRepository(database).Buy(context.Background(), 7)

		require.ErrorIs(t, err, execErr)
		require.False(t, tx.committed)
		require.True(t, tx.rollbackCalled)
	})

	t.Run("commit error", func(t *testing.T) {
		database, tx := newTx(&fakeRow{values: []any{int64(3)}})
		commitErr := errors.New("commit failed")
		tx.commitErr = commitErr

		err := NewRepository(database).Buy(context.Background(), 7)

		require.ErrorIs(t, err, commitErr)
		require.True(t, tx.rollbackCalled)
	})

	t.Run("begin error", func(t *testing.T) {
		beginErr := errors.New("pool exhausted")
		database := &fakeDB{beginFn: func(ctx context.Context) (pgx.Tx, error) { return nil, beginErr }}

		err := NewRepository(database).Buy(context.Background(), 7)

		require.ErrorIs(t, err, beginErr)
	})
}

// lockingStore simula una fila con lock exclusivo: el lock se toma en
// SELECT ... FOR UPDATE y se libera en Commit o Rollback.
type lockingStore struct {
	rowLock sync.Mutex
	stock   int64
}

func (store *lockingStore) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &fakeRow{err: errors.New("unexpected QueryRow call")}
}

func (store *lockingStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query call")
}

func (store *lockingStore) Begin(ctx context.Context) (pgx.Tx, error) {
	return &lockingTx{store: store}, nil
}

type lockingTx struct {
	pgx.Tx

	store   *lockingStore
	locked  bool
	pending int64
}

func (tx *lockingTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	tx.store.rowLock.Lock()
	tx.locked = true
	return &fakeRow{values: []any{tx.store.stock}}
}

func (tx *lockingTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.pending--
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (tx *lockingTx) Commit(ctx context.Context) error {
	tx.store.stock += tx.pending
	tx.release()
	return nil
}

func (tx *lockingTx) Rollback(ctx context.Context) error {
	tx.release()
	return nil
}

func (tx *lockingTx) release() {
	if tx.locked {
		tx.locked = false
		tx.store.rowLock.Unlock()
	}
}

func TestRepository_Buy_ConcurrentLastUnit(t *testing.T) {
	store := &lockingStore{stock: 1}
	repository := NewRepository(store)

	const buyers = 8
	results := make(chan error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repository.Buy(context.Background(), 7)
		}()
	}
	wg.Wait()
	close(results)

	successes, notFound := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrorNotFound):
			notFound++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, successes)
	require.Equal(t, buyers-1, notFound)
	require.Equal(t, int64(0), store.stock)
}
