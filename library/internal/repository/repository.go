package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Repository interface {
	// InTx runs fn inside one database transaction; fn must only use the repo it receives.
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	CatalogStore
	IdentityStore
	RequestLedger
	LoanTracker
	MessageStore
	EventStore
}

type CatalogStore interface {
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	// UpdateBook leaves quantity as stored unless in.Quantity is set.
	UpdateBook(ctx context.Context, id uuid.UUID, in model.BookInput) (model.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	// AdjustQuantity fails with errs.ErrUnavailable when the result would be negative.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (model.Book, error)
	CountBooks(ctx context.Context) (int64, error)
}

type IdentityStore interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	FirstUserWithRole(ctx context.Context, role auth.Role) (model.User, error)
	ListUsers(ctx context.Context, role auth.Role) ([]model.User, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID, role auth.Role) error
	CountUsers(ctx context.Context, role auth.Role) (int64, error)
}

type RequestLedger interface {
	CreateRequest(ctx context.Context, req model.IssueRequest) (model.IssueRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID, forUpdate bool) (model.IssueRequest, error)
	FindPendingFor(ctx context.Context, studentID, bookID uuid.UUID) (model.IssueRequest, bool, error)
	ListRequests(ctx context.Context) ([]model.IssueRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status, at time.Time) (model.IssueRequest, error)
	DeleteWhereStatusIn(ctx context.Context, statuses []model.Status) (int64, error)
	CountRequests(ctx context.Context, status model.Status) (int64, error)
}

type LoanTracker interface {
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetLoan(ctx context.Context, id uuid.UUID, forUpdate bool) (model.Loan, error)
	FindLoansByStudent(ctx context.Context, studentID uuid.UUID) ([]model.LoanView, error)
	ListLoans(ctx context.Context) ([]model.LoanView, error)
	DeleteLoan(ctx context.Context, id uuid.UUID) error
	CountLoans(ctx context.Context) (int64, error)
}

type MessageStore interface {
	CreateMessages(ctx context.Context, msgs ...model.Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (model.Message, error)
	ListMessages(ctx context.Context, f MessageFilter) ([]model.MessageView, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type EventStore interface {
	SaveEvent(ctx context.Context, event model.IssueEvent) error
	ListEvents(ctx context.Context, limit int) ([]model.IssueEvent, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db   querier
	pool *pgxpool.Pool // nil inside a transaction
	log  *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:   db,
		pool: db,
		log:  log.Named("repo"),
	}, nil
}

var _ Repository = (*repository)(nil)

const (
	usersTableName    = `users`
	booksTableName    = `books`
	requestsTableName = `issue_requests`
	loansTableName    = `loans`
	messagesTableName = `messages`
	eventsTableName   = `issue_events`

	booksQuantityCheck = `books_quantity_check`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, log: r.log})
	})
}

// translate maps driver errors onto the errs taxonomy.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrap(errs.ErrNotFound, entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return errors.Wrapf(errs.ErrConflict, "%s: %s", entity, pgErr.ConstraintName)
		case pgerrcode.CheckViolation:
			if pgErr.ConstraintName == booksQuantityCheck {
				return errors.Wrap(errs.ErrUnavailable, entity)
			}
			return errors.Wrapf(errs.ErrInvalidArgument, "%s: %s", entity, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return errors.Wrapf(errs.ErrNotFound, "%s: %s", entity, pgErr.ConstraintName)
		}
	}
	return err
}

func collectOne[T any](ctx context.Context, db querier, entity, query string, args ...any) (T, error) {
	var zero T
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return zero, translate(err, entity)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, translate(err, entity)
	}
	return item, nil
}

func collectAll[T any](ctx context.Context, db querier, entity, query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, entity)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return items, nil
}

func count(ctx context.Context, db querier, b sq.SelectBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
