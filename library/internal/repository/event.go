package repository

import (
	"context"

	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/jackc/pgx/v5"
)

// SaveEvent is idempotent on event_id so redelivered kafka messages are harmless.
func (r *repository) SaveEvent(ctx context.Context, event model.IssueEvent) error {
	q := `insert into issue_events (event_id, event_type, request_id, loan_id, student_id, book_id, count, timestamp)
	values (@event_id, @event_type, @request_id, @loan_id, @student_id, @book_id, @count, @timestamp)
	on conflict (event_id) do nothing`
	args := pgx.NamedArgs{
		"event_id":   event.EventID,
		"event_type": event.Type,
		"request_id": event.RequestID,
		"loan_id":    event.LoanID,
		"student_id": event.StudentID,
		"book_id":    event.BookID,
		"count":      event.Count,
		"timestamp":  event.Timestamp,
	}
	_, err := r.db.Exec(ctx, q, args)
	return translate(err, "issue event")
}

func (r *repository) ListEvents(ctx context.Context, limit int) ([]model.IssueEvent, error) {
	b := qb.Select("event_id", "event_type", "request_id", "loan_id", "student_id", "book_id", "count", "timestamp").
		From(eventsTableName).
		OrderBy("timestamp desc", "event_id desc")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.IssueEvent](ctx, r.db, "issue event", query, args...)
}
