package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var requestColumns = []string{
	"id", "student_id", "book_id",
	"student_name", "student_branch", "book_title", "book_author",
	"status", "created_at", "updated_at",
}

const requestReturning = `returning id, student_id, book_id, student_name, student_branch, book_title, book_author, status, created_at, updated_at`

func (r *repository) CreateRequest(ctx context.Context, req model.IssueRequest) (model.IssueRequest, error) {
	query, args, err := qb.Insert(requestsTableName).
		Columns(requestColumns...).
		Values(
			req.ID, req.StudentID, req.BookID,
			req.StudentName, req.StudentBranch, req.BookTitle, req.BookAuthor,
			req.Status, req.CreatedAt, req.UpdatedAt,
		).
		Suffix(requestReturning).
		ToSql()
	if err != nil {
		return model.IssueRequest{}, err
	}
	created, err := collectOne[model.IssueRequest](ctx, r.db, "issue request", query, args...)
	if err != nil {
		r.log.Error("CreateRequest", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.IssueRequest{}, err
	}
	return created, nil
}

// GetRequest optionally takes a row lock held until the surrounding transaction ends.
func (r *repository) GetRequest(ctx context.Context, id uuid.UUID, forUpdate bool) (model.IssueRequest, error) {
	b := qb.Select(requestColumns...).
		From(requestsTableName).
		Where(sq.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("for update")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.IssueRequest{}, err
	}
	return collectOne[model.IssueRequest](ctx, r.db, "issue request", query, args...)
}

func (r *repository) FindPendingFor(ctx context.Context, studentID, bookID uuid.UUID) (model.IssueRequest, bool, error) {
	query, args, err := qb.Select(requestColumns...).
		From(requestsTableName).
		Where(sq.Eq{
			"student_id": studentID,
			"book_id":    bookID,
			"status":     model.StatusPending,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.IssueRequest{}, false, err
	}
	req, err := collectOne[model.IssueRequest](ctx, r.db, "issue request", query, args...)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.IssueRequest{}, false, nil
		}
		return model.IssueRequest{}, false, err
	}
	return req, true, nil
}

func (r *repository) ListRequests(ctx context.Context) ([]model.IssueRequest, error) {
	query, args, err := qb.Select(requestColumns...).
		From(requestsTableName).
		OrderBy("created_at desc", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.IssueRequest](ctx, r.db, "issue request", query, args...)
}

// UpdateStatus writes the status as given; legality of the transition is checked by the caller.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status, at time.Time) (model.IssueRequest, error) {
	query, args, err := qb.Update(requestsTableName).
		Set("status", status).
		Set("updated_at", at).
		Where(sq.Eq{"id": id}).
		Suffix(requestReturning).
		ToSql()
	if err != nil {
		return model.IssueRequest{}, err
	}
	return collectOne[model.IssueRequest](ctx, r.db, "issue request", query, args...)
}

func (r *repository) DeleteWhereStatusIn(ctx context.Context, statuses []model.Status) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	query, args, err := qb.Delete(requestsTableName).
		Where(sq.Eq{"status": statuses}).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, translate(err, "issue request")
	}
	return tag.RowsAffected(), nil
}

func (r *repository) CountRequests(ctx context.Context, status model.Status) (int64, error) {
	return count(ctx, r.db, qb.Select("count(*)").From(requestsTableName).Where(sq.Eq{"status": status}))
}
