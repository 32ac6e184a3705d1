package repository

import (
	"context"
	"fmt"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MessageFilter narrows ListMessages; nil fields are ignored.
type MessageFilter struct {
	// Participant matches messages sent or received by the user.
	Participant   *uuid.UUID
	ReceiverID    *uuid.UUID
	ExcludeSender *uuid.UUID
	NewestFirst   bool
}

var messageColumns = []string{"id", "sender_id", "receiver_id", "content", "is_reply", "replied_to", "created_at"}

func (r *repository) CreateMessages(ctx context.Context, msgs ...model.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	b := qb.Insert(messagesTableName).Columns(messageColumns...)
	for _, m := range msgs {
		b = b.Values(m.ID, m.SenderID, m.ReceiverID, m.Content, m.IsReply, m.RepliedTo, m.CreatedAt)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return translate(err, "message")
	}
	return nil
}

func (r *repository) GetMessage(ctx context.Context, id uuid.UUID) (model.Message, error) {
	query, args, err := qb.Select(messageColumns...).
		From(messagesTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Message{}, err
	}
	return collectOne[model.Message](ctx, r.db, "message", query, args...)
}

func (r *repository) ListMessages(ctx context.Context, f MessageFilter) ([]model.MessageView, error) {
	b := qb.Select(
		"m.id", "m.sender_id", "m.receiver_id", "m.content", "m.is_reply", "m.replied_to", "m.created_at",
		"s.name as sender_name", "rc.name as receiver_name",
	).
		From(messagesTableName + " m").
		LeftJoin(fmt.Sprintf("%s s on s.id = m.sender_id", usersTableName)).
		LeftJoin(fmt.Sprintf("%s rc on rc.id = m.receiver_id", usersTableName))

	if f.Participant != nil {
		b = b.Where(sq.Or{sq.Eq{"m.sender_id": *f.Participant}, sq.Eq{"m.receiver_id": *f.Participant}})
	}
	if f.ReceiverID != nil {
		b = b.Where(sq.Eq{"m.receiver_id": *f.ReceiverID})
	}
	if f.ExcludeSender != nil {
		b = b.Where(sq.NotEq{"m.sender_id": *f.ExcludeSender})
	}
	if f.NewestFirst {
		b = b.OrderBy("m.created_at desc", "m.id")
	} else {
		b = b.OrderBy("m.created_at", "m.id")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.MessageView](ctx, r.db, "message", query, args...)
}

func (r *repository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	query, args, err := qb.Delete(messagesTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, "message")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(errs.ErrNotFound, "message")
	}
	return nil
}
