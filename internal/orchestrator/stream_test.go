package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"mcs-mcp/pkg/rowsource"
)

func rowChan(n int) <-chan rowsource.ParsedRow {
	out := make(chan rowsource.ParsedRow, n)
	for i := 0; i < n; i++ {
		out <- rowsource.ParsedRow{Index: uint64(i)}
	}
	close(out)
	return out
}

func TestStreamRowsDrainsUntilChannelCloses(t *testing.T) {
	rows := rowChan(5)
	errs := make(chan error, 1)

	var seen []uint64
	err := streamRows(context.Background(), rows, errs, func(row rowsource.ParsedRow) bool {
		seen = append(seen, row.Index)
		return true
	})
	if err != nil {
		t.Fatalf("streamRows() error = %v", err)
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(seen))
	}
}

func TestStreamRowsStopsWhenCallbackReturnsFalse(t *testing.T) {
	rows := rowChan(10)
	errs := make(chan error, 1)

	var seen int
	err := streamRows(context.Background(), rows, errs, func(row rowsource.ParsedRow) bool {
		seen++
		return seen < 3
	})
	if err != nil {
		t.Fatalf("streamRows() error = %v", err)
	}
	if seen != 3 {
		t.Errorf("expected exactly 3 rows before stopping, got %d", seen)
	}
}

func TestStreamRowsPropagatesStreamError(t *testing.T) {
	rows := make(chan rowsource.ParsedRow)
	errs := make(chan error, 1)
	boom := errors.New("boom")
	close(rows)
	errs <- boom

	err := streamRows(context.Background(), rows, errs, func(row rowsource.ParsedRow) bool { return true })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestStreamRowsReturnsContextErrOnCancellation(t *testing.T) {
	rows := make(chan rowsource.ParsedRow)
	errs := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := streamRows(ctx, rows, errs, func(row rowsource.ParsedRow) bool { return true })
	if !isContextErr(err) {
		t.Errorf("expected a context error, got %v", err)
	}
}

func TestIsContextErr(t *testing.T) {
	if !isContextErr(context.Canceled) {
		t.Error("context.Canceled should be a context error")
	}
	if !isContextErr(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded should be a context error")
	}
	if isContextErr(errors.New("other")) {
		t.Error("an unrelated error should not be a context error")
	}
}

func TestStreamRowsNoDeadlockWhenErrsNeverSent(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		rows := rowChan(2)
		errs := make(chan error, 1)
		_ = streamRows(context.Background(), rows, errs, func(row rowsource.ParsedRow) bool {
			return true
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("streamRows did not return; possible deadlock")
	}
}
