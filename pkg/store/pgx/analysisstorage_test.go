package pgx

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sage/pkg/store"
)

// fakeConn records Exec calls and answers with a canned command tag.
type fakeConn struct {
	tag  pgconn.CommandTag
	sql  string
	args []any
}

func (f *fakeConn) Exec(_ context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = arguments
	return f.tag, nil
}

func (f *fakeConn) Query(context.Context, string, ...any) (pgxv5.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeConn) QueryRow(context.Context, string, ...any) pgxv5.Row {
	panic("not implemented")
}

func (f *fakeConn) Begin(context.Context) (pgxv5.Tx, error) {
	return nil, errors.New("not implemented")
}

func TestUpdateAnalysisStatusLeavesOutputColumnsAlone(t *testing.T) {
	conn := &fakeConn{tag: pgconn.NewCommandTag("UPDATE 1")}
	storage := NewAnalysisDBStorageWithConnection(conn)

	err := storage.UpdateAnalysisStatus(context.Background(), "abc123", store.StatusFailed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, column := range []string{"raw_output", "analysis ="} {
		if strings.Contains(conn.sql, column) {
			t.Errorf("status update must not write %q, got:\n%s", column, conn.sql)
		}
	}
	want := []any{"abc123", store.StatusFailed}
	if !reflect.DeepEqual(conn.args, want) {
		t.Errorf("args = %v, want %v", conn.args, want)
	}
}

func TestUpdateAnalysisStatusNotFound(t *testing.T) {
	conn := &fakeConn{tag: pgconn.NewCommandTag("UPDATE 0")}
	storage := NewAnalysisDBStorageWithConnection(conn)

	err := storage.UpdateAnalysisStatus(context.Background(), "missing", store.StatusFailed)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected store.ErrNotFound, got %v", err)
	}
}
