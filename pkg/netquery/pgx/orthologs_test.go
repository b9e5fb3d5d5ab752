package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// failingConn rejects every query, driving GetBatch down its degraded
// path where all tags keep their seeded lists.
type failingConn struct{}

func (failingConn) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("connection refused")
}

func (failingConn) Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error) {
	return nil, errors.New("connection refused")
}

func (failingConn) QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row {
	return nil
}

func (failingConn) Begin(ctx context.Context) (pgxv5.Tx, error) {
	return nil, errors.New("connection refused")
}

func TestGetBatchFailedChunkYieldsEmptyLists(t *testing.T) {
	q := NewNetworkDBQuery(failingConn{})

	got, err := q.GetBatch(context.Background(), []string{"B0001", "B0002"}, "")
	if err != nil {
		t.Fatalf("GetBatch() error = %v, want degraded nil", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetBatch() returned %d entries, want 2", len(got))
	}

	for tag, rels := range got {
		if rels == nil {
			t.Errorf("tag %s has nil relationship list, want empty", tag)
		}
		if len(rels) != 0 {
			t.Errorf("tag %s has %d relationships, want 0", tag, len(rels))
		}
	}

	// No-data tags serialize as [] so API clients never see null.
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	for tag, raw := range decoded {
		if string(raw) != "[]" {
			t.Errorf("tag %s serialized as %s, want []", tag, raw)
		}
	}
}

func TestGetBatchEmptyInput(t *testing.T) {
	q := NewNetworkDBQuery(failingConn{})

	got, err := q.GetBatch(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("GetBatch() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetBatch() returned %d entries for empty input, want 0", len(got))
	}
}
