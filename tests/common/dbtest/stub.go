//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call is one statement received by a StubDB.
type Call struct {
	SQL  string
	Args []any
}

// StubDB satisfies db.DBTX for repository unit tests. Unset funcs fail the call.
type StubDB struct {
	ExecFunc     func(sql string, args []any) (pgconn.CommandTag, error)
	QueryRowFunc func(sql string, args []any) pgx.Row
	QueryErr     error

	Calls []Call
}

func (s *StubDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.Calls = append(s.Calls, Call{SQL: sql, Args: args})
	if s.ExecFunc == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected Exec")
	}
	return s.ExecFunc(sql, args)
}

func (s *StubDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.Calls = append(s.Calls, Call{SQL: sql, Args: args})
	if s.QueryErr != nil {
		return nil, s.QueryErr
	}
	return nil, fmt.Errorf("unexpected Query")
}

func (s *StubDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	s.Calls = append(s.Calls, Call{SQL: sql, Args: args})
	if s.QueryRowFunc == nil {
		return Row{Err: fmt.Errorf("unexpected QueryRow")}
	}
	return s.QueryRowFunc(sql, args)
}

// Affected returns an ExecFunc reporting n affected rows.
func Affected(n int) func(string, []any) (pgconn.CommandTag, error) {
	return func(string, []any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", n)), nil
	}
}

// Failing returns an ExecFunc that always fails with err.
func Failing(err error) func(string, []any) (pgconn.CommandTag, error) {
	return func(string, []any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, err
	}
}

// Row scans Values into the destinations positionally; types must match exactly.
type Row struct {
	Values []any
	Err    error
}

func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(dest) != len(r.Values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.Values))
	}
	for i, v := range r.Values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}
