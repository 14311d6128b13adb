package storage

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"todo-api/models"
)

const tracerName = "todo-api/storage"

// TracedTable records one span per table primitive.
type TracedTable struct {
	next    Table
	backend string
	tracer  trace.Tracer
}

// Traced wraps next so each call is traced against the global tracer
// provider. backend is reported as the db.system attribute.
func Traced(next Table, backend string) *TracedTable {
	return &TracedTable{
		next:    next,
		backend: backend,
		tracer:  otel.Tracer(tracerName),
	}
}

func (t *TracedTable) Scan(ctx context.Context) ([]models.Task, error) {
	ctx, span := t.start(ctx, "table.scan")
	defer span.End()

	tasks, err := t.next.Scan(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("todo.count", len(tasks)))
	return tasks, nil
}

func (t *TracedTable) PutItem(ctx context.Context, task models.Task) error {
	ctx, span := t.start(ctx, "table.put_item", attribute.String("todo.id", task.ID))
	defer span.End()

	err := t.next.PutItem(ctx, task)
	recordError(span, err)
	return err
}

func (t *TracedTable) UpdateItem(ctx context.Context, id, title string, completed bool) error {
	ctx, span := t.start(ctx, "table.update_item",
		attribute.String("todo.id", id),
		attribute.Bool("todo.completed", completed),
	)
	defer span.End()

	err := t.next.UpdateItem(ctx, id, title, completed)
	recordError(span, err)
	return err
}

func (t *TracedTable) DeleteItem(ctx context.Context, id string) error {
	ctx, span := t.start(ctx, "table.delete_item", attribute.String("todo.id", id))
	defer span.End()

	err := t.next.DeleteItem(ctx, id)
	recordError(span, err)
	return err
}

func (t *TracedTable) Close() error {
	return t.next.Close()
}

func (t *TracedTable) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", t.backend))
	return t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
