package chairs

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeDB struct {
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	beginFn    func(ctx context.Context) (pgx.Tx, error)

	lastQuery      string
	lastArgs       []any
	queryRowCalled bool
	queryCalled    bool
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.queryRowCalled = true
	db.lastQuery = sql
	db.lastArgs = args
	if db.queryRowFn == nil {
		return &fakeRow{err: errors.New("unexpected QueryRow call")}
	}
	return db.queryRowFn(ctx, sql, args...)
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.queryCalled = true
	db.lastQuery = sql
	db.lastArgs = args
	if db.queryFn == nil {
		return nil, errors.New("unexpected Query call")
	}
	return db.queryFn(ctx, sql, args...)
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if db.beginFn == nil {
		return nil, errors.New("unexpected Begin call")
	}
	return db.beginFn(ctx)
}

// fakeTx implementa solo lo que Buy usa; el resto de pgx.Tx queda nil.
type fakeTx struct {
	pgx.Tx

	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	commitErr  error

	queries        []string
	committed      bool
	rollbackCalled bool
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	tx.queries = append(tx.queries, sql)
	return tx.queryRowFn(ctx, sql, args...)
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.queries = append(tx.queries, sql)
	if tx.execFn == nil {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return tx.execFn(ctx, sql, args...)
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.commitErr != nil {
		return tx.commitErr
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	tx.rollbackCalled = true
	if tx.committed {
		return pgx.ErrTxClosed
	}
	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (row *fakeRow) Scan(dest ...any) error {
	if row.err != nil {
		return row.err
	}
	return assignValues(dest, row.values)
}

type fakeRows struct {
	rows    [][]any
	idx     int
	closed  bool
	err     error
	scanErr error
}

func (rows *fakeRows) Close() {
	rows.closed = true
}

func (rows *fakeRows) Err() error {
	return rows.err
}

func (rows *fakeRows) CommandTag() pgconn.CommandTag {
	return pgconn.CommandTag{}
}

func (rows *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}

func (rows *fakeRows) Next() bool {
	if rows.closed || rows.idx >= len(rows.rows) {
		return false
	}
	rows.idx++
	return true
}

func (rows *fakeRows) Scan(dest ...any) error {
	if rows.scanErr != nil {
		return rows.scanErr
	}
	if rows.idx == 0 || rows.idx > len(rows.rows) {
		return errors.New("scan called without next")
	}
	return assignValues(dest, rows.rows[rows.idx-1])
}

func (rows *fakeRows) Values() ([]any, error) {
	return nil, errors.New("not implemented")
}

func (rows *fakeRows) RawValues() [][]byte {
	return nil
}

func (rows *fakeRows) Conn() *pgx.Conn {
	return nil
}

func assignValues(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("dest len %d does not match values len %d", len(dest), len(values))
	}
	for i, d := range dest {
		valueOf := reflect.ValueOf(d)
		if valueOf.Kind() != reflect.Ptr {
			return fmt.Errorf("dest %d is not pointer", i)
		}
		valueOf.Elem().Set(reflect.ValueOf(values[i]).Convert(valueOf.Elem().Type()))
	}
	return nil
}

func chairRow(chair Chair) []any {
	return []any{
		chair.ID, chair.Name, chair.Description, chair.Thumbnail,
		chair.Price, chair.Height, chair.Width, chair.Depth,
		chair.Color, chair.Features, chair.Kind, chair.Popularity, chair.Stock,
	}
}

func normalizeSQL(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
