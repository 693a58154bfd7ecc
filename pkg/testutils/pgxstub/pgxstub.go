// Package pgxstub provides in-memory stand-ins for repo.Tx and pgx result sets so
// repositories can be exercised without a database.
package pgxstub

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Call struct {
	SQL  string
	Args []any
}

type Tx struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	Calls []Call
}

func (s *Tx) record(sql string, args []any) {
	s.Calls = append(s.Calls, Call{SQL: sql, Args: args})
}

func (s *Tx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("copy not implemented")
}

func (s *Tx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	var results pgx.BatchResults
	return results
}

func (s *Tx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.record(sql, args)
	if s.ExecFunc == nil {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return s.ExecFunc(ctx, sql, args...)
}

func (s *Tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.record(sql, args)
	if s.QueryFunc == nil {
		return nil, errors.New("query not implemented")
	}
	return s.QueryFunc(ctx, sql, args...)
}

func (s *Tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	s.record(sql, args)
	if s.QueryRowFunc == nil {
		return Row{Err: errors.New("query row not implemented")}
	}
	return s.QueryRowFunc(ctx, sql, args...)
}

// Txn is a full pgx.Tx over Tx that records how it was started and ended.
type Txn struct {
	Tx

	Opts       pgx.TxOptions
	Committed  bool
	RolledBack bool
}

func (t *Txn) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not implemented")
}

func (t *Txn) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *Txn) Rollback(ctx context.Context) error {
	t.RolledBack = true
	return nil
}

func (t *Txn) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *Txn) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("prepare not implemented")
}

func (t *Txn) Conn() *pgx.Conn { return nil }

// Beginner hands out a new Txn per BeginTx call. Setup, when set, scripts each Txn
// before it is returned.
type Beginner struct {
	Setup   func(*Txn)
	Err     error
	Started []*Txn
}

func (b *Beginner) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	txn := &Txn{Opts: opts}
	if b.Setup != nil {
		b.Setup(txn)
	}
	b.Started = append(b.Started, txn)
	return txn, nil
}

// Rows serves Data one row at a time; each value is assigned to the matching
// Scan destination.
type Rows struct {
	Data [][]any
	Fail error
	idx  int
}

func (r *Rows) Next() bool {
	if r.idx >= len(r.Data) {
		return false
	}
	r.idx++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.Data) {
		return errors.New("no current row to scan")
	}
	return assign(r.Data[r.idx-1], dest)
}

func (r *Rows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.Data) {
		return nil, errors.New("no current row")
	}
	return r.Data[r.idx-1], nil
}

func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Err() error                                   { return r.Fail }
func (r *Rows) Close()                                       {}
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }

// Row is a single-row result. Err, when set, is returned from Scan instead of Values.
type Row struct {
	Values []any
	Err    error
}

func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(r.Values, dest)
}

func assign(row []any, dest []any) error {
	if len(dest) != len(row) {
		return fmt.Errorf("destination length %d does not match row length %d", len(dest), len(row))
	}
	for i, target := range dest {
		ptr := reflect.ValueOf(target)
		if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
			return fmt.Errorf("scan target %d is %T, want a non-nil pointer", i, target)
		}
		elem := ptr.Elem()
		if row[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		v := reflect.ValueOf(row[i])
		switch {
		case v.Type().AssignableTo(elem.Type()):
			elem.Set(v)
		case v.Type().ConvertibleTo(elem.Type()):
			elem.Set(v.Convert(elem.Type()))
		default:
			return fmt.Errorf("cannot scan %T into %T", row[i], target)
		}
	}
	return nil
}
