package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"todo-api/config"
	"todo-api/models"
)

func TestTracedRecordsSpanPerPrimitive(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	traced := Traced(openTempSQLite(t), "sqlite")
	traced.tracer = tp.Tracer(tracerName)

	ctx := context.Background()
	_ = traced.PutItem(ctx, models.Task{ID: "1", Title: "a"})
	_ = traced.UpdateItem(ctx, "1", "a", true)
	_, _ = traced.Scan(ctx)
	_ = traced.DeleteItem(ctx, "")

	spans := recorder.Ended()
	want := []string{"table.put_item", "table.update_item", "table.scan", "table.delete_item"}
	if len(spans) != len(want) {
		t.Fatalf("spans = %d, want %d", len(spans), len(want))
	}
	for i, name := range want {
		if spans[i].Name() != name {
			t.Fatalf("span %d = %q, want %q", i, spans[i].Name(), name)
		}
	}
	if spans[3].Status().Code != codes.Error {
		t.Fatalf("delete span status = %v, want error", spans[3].Status().Code)
	}
	if spans[0].Status().Code == codes.Error {
		t.Fatal("put span should not be marked as error")
	}
}

func TestTracedPassesErrorsThrough(t *testing.T) {
	t.Parallel()

	traced := Traced(openTempSQLite(t), "sqlite")
	if err := traced.UpdateItem(context.Background(), "", "x", false); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("err = %v, want %v", err, ErrMissingKey)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Backend = config.BackendSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "todos.db")

	table, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer table.Close()
	if _, ok := table.(*TracedTable); !ok {
		t.Fatalf("table = %T, want *TracedTable", table)
	}

	cfg.Backend = "redis"
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("expected unknown backend error")
	}
}
