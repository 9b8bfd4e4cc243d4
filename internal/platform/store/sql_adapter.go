package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"protokoll/internal/platform/store/sqlite"
)

// sqliteAdapter wraps sqlite.DB and implements RowQuerier + TxRunner
// it also emits query trace events when a tracer is configured on sqlite.DB
type sqliteAdapter struct {
	d *sqlite.DB
}

func newSQLiteAdapter(d *sqlite.DB) *sqliteAdapter { return &sqliteAdapter{d: d} }

func (a *sqliteAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("sqlite: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *sqliteAdapter) Close() error { a.d.Close(); return nil }

func (a *sqliteAdapter) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := a.d.SQL.ExecContext(ctx, query, args...)
	a.emit(ctx, query, args, start, err)
	return newTag(res, err), err
}

func (a *sqliteAdapter) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.d.SQL.QueryContext(ctx, query, args...)
	// emit on open; if you want end-to-end timing across scan, wrap Close and emit there instead
	a.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	return &rows{r: rs}, nil
}

func (a *sqliteAdapter) QueryRow(ctx context.Context, query string, args ...any) Row {
	start := time.Now()
	r := a.d.SQL.QueryRowContext(ctx, query, args...)
	// wrap to emit after Scan completes, capturing error from Scan
	return row{
		r: r,
		after: func(scanErr error) {
			a.emit(ctx, query, args, start, scanErr)
		},
	}
}

func (a *sqliteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	q := txQuerier{
		tx:     tx,
		tracer: a.d.Tracer,
		slowUS: int64(a.d.SlowMs) * 1000,
	}
	if err := fn(q); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// emit sends a query event to the configured tracer
func (a *sqliteAdapter) emit(ctx context.Context, query string, args []any, start time.Time, err error) {
	if a == nil || a.d == nil || a.d.Tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	slow := a.d.SlowMs >= 0 && elapsedUS >= int64(a.d.SlowMs)*1000
	a.d.Tracer.OnQuery(ctx, sqlite.QueryEvent{
		SQL:       query,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      slow,
	})
}

// adapters for database/sql to our tiny Row/Rows/CommandTag

type row struct {
	r     *sql.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct {
	r    *sql.Rows
	cols []string
}

func (x *rows) Next() bool            { return x.r.Next() }
func (x *rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *rows) Err() error            { return x.r.Err() }
func (x *rows) Close()                { _ = x.r.Close() }
func (x *rows) Columns() []string {
	if x.cols == nil {
		cols, err := x.r.Columns()
		if err != nil {
			return nil
		}
		x.cols = cols
	}
	return x.cols
}

// tag freezes the affected count up front so CommandTag reads never race the driver
type tag struct{ affected int64 }

func newTag(res sql.Result, err error) tag {
	if err != nil || res == nil {
		return tag{affected: -1}
	}
	n, aerr := res.RowsAffected()
	if aerr != nil {
		return tag{affected: -1}
	}
	return tag{affected: n}
}

func (t tag) String() string      { return fmt.Sprintf("rows affected: %d", t.affected) }
func (t tag) RowsAffected() int64 { return t.affected }

// txQuerier uses *sql.Tx to satisfy RowQuerier inside a Tx
// it mirrors sqliteAdapter emit behavior so queries inside transactions are also traced
type txQuerier struct {
	tx     *sql.Tx
	tracer sqlite.QueryTracer
	slowUS int64
}

func (t txQuerier) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.emit(ctx, query, args, start, err)
	return newTag(res, err), err
}

func (t txQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.tx.QueryContext(ctx, query, args...)
	t.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	return &rows{r: rs}, nil
}

func (t txQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	start := time.Now()
	r := t.tx.QueryRowContext(ctx, query, args...)
	return row{
		r: r,
		after: func(scanErr error) {
			t.emit(ctx, query, args, start, scanErr)
		},
	}
}

func (t txQuerier) emit(ctx context.Context, query string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	slow := t.slowUS >= 0 && elapsedUS >= t.slowUS
	t.tracer.OnQuery(ctx, sqlite.QueryEvent{
		SQL:       query,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      slow,
	})
}
