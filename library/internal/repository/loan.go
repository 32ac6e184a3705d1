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

var loanColumns = []string{"id", "request_id", "student_id", "book_id", "issue_date", "return_date"}

const loanReturning = "returning id, request_id, student_id, book_id, issue_date, return_date"

func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Insert(loansTableName).
		Columns(loanColumns...).
		Values(loan.ID, loan.RequestID, loan.StudentID, loan.BookID, loan.IssueDate, loan.ReturnDate).
		Suffix(loanReturning).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	return collectOne[model.Loan](ctx, r.db, "loan", query, args...)
}

func (r *repository) GetLoan(ctx context.Context, id uuid.UUID, forUpdate bool) (model.Loan, error) {
	b := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("for update")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	return collectOne[model.Loan](ctx, r.db, "loan", query, args...)
}

func loanViewQuery() sq.SelectBuilder {
	return qb.Select(
		"l.id", "l.request_id", "l.student_id", "l.book_id", "l.issue_date", "l.return_date",
		"u.name as student_name", "u.branch as student_branch",
		"b.title as book_title", "b.author as book_author", "b.genre as book_genre", "b.publisher as book_publisher",
	).
		From(loansTableName + " l").
		LeftJoin(fmt.Sprintf("%s u on u.id = l.student_id", usersTableName)).
		LeftJoin(fmt.Sprintf("%s b on b.id = l.book_id", booksTableName)).
		OrderBy("l.issue_date desc", "l.id")
}

func (r *repository) FindLoansByStudent(ctx context.Context, studentID uuid.UUID) ([]model.LoanView, error) {
	query, args, err := loanViewQuery().Where(sq.Eq{"l.student_id": studentID}).ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.LoanView](ctx, r.db, "loan", query, args...)
}

func (r *repository) ListLoans(ctx context.Context) ([]model.LoanView, error) {
	query, args, err := loanViewQuery().ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.LoanView](ctx, r.db, "loan", query, args...)
}

func (r *repository) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	query, args, err := qb.Delete(loansTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, "loan")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(errs.ErrNotFound, "loan")
	}
	return nil
}

func (r *repository) CountLoans(ctx context.Context) (int64, error) {
	return count(ctx, r.db, qb.Select("count(*)").From(loansTableName))
}
