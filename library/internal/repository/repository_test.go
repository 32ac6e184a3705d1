package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/library/migrations"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/Astemirdum/library-issue-service/pkg/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDSNEnv = "LIBRARY_TEST_DSN"

// newTestRepo connects to the database named by LIBRARY_TEST_DSN and migrates it.
func newTestRepo(t *testing.T) *repository {
	t.Helper()
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", testDSNEnv)
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(pool, migrations.MigrationFiles))

	repo, err := NewRepository(pool, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func seedBook(t *testing.T, r *repository, qty int) model.Book {
	t.Helper()
	book, err := r.CreateBook(context.Background(), model.Book{
		ID:       uuid.New(),
		Title:    "The Left Hand of Darkness",
		Author:   "Ursula K. Le Guin",
		Quantity: qty,
	})
	require.NoError(t, err)
	return book
}

func seedStudent(t *testing.T, r *repository) model.User {
	t.Helper()
	id := uuid.New()
	u, err := r.CreateUser(context.Background(), model.User{
		ID:           id,
		Name:         "student " + id.String()[:8],
		Email:        id.String() + "@library.test",
		Branch:       "CSE",
		Role:         auth.RoleStudent,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return u
}

func seedRequest(t *testing.T, r Repository, student model.User, book model.Book) model.IssueRequest {
	t.Helper()
	now := time.Now().UTC()
	req, err := r.CreateRequest(context.Background(), model.IssueRequest{
		ID:              uuid.New(),
		StudentID:       student.ID,
		BookID:          book.ID,
		RequestSnapshot: model.NewRequestSnapshot(student, book),
		Status:          model.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	return req
}

func TestRepository_AdjustQuantity(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 1)

	got, err := r.AdjustQuantity(ctx, book.ID, -1)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)

	_, err = r.AdjustQuantity(ctx, book.ID, -1)
	require.ErrorIs(t, err, errs.ErrUnavailable)

	_, err = r.AdjustQuantity(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, errs.ErrNotFound)

	got, err = r.AdjustQuantity(ctx, book.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, got.Quantity)
}

func TestRepository_AdjustQuantityConcurrent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	const copies, callers = 3, 10
	book := seedBook(t, r, copies)

	var (
		wg                   sync.WaitGroup
		mu                   sync.Mutex
		success, unavailable int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.AdjustQuantity(ctx, book.ID, -1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, errs.ErrUnavailable):
				unavailable++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, copies, success)
	require.Equal(t, callers-copies, unavailable)
	got, err := r.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)
}

func TestRepository_PendingUniqueness(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 1)
	student := seedStudent(t, r)

	req := seedRequest(t, r, student, book)
	found, ok, err := r.FindPendingFor(ctx, student.ID, book.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, req.ID, found.ID)

	_, err = r.CreateRequest(ctx, model.IssueRequest{
		ID:              uuid.New(),
		StudentID:       student.ID,
		BookID:          book.ID,
		RequestSnapshot: req.RequestSnapshot,
		Status:          model.StatusPending,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	})
	require.ErrorIs(t, err, errs.ErrConflict)

	_, err = r.UpdateStatus(ctx, req.ID, model.StatusRejected, time.Now().UTC())
	require.NoError(t, err)
	_, ok, err = r.FindPendingFor(ctx, student.ID, book.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRepository_InTxRollback(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 1)
	student := seedStudent(t, r)
	req := seedRequest(t, r, student, book)
	boom := errors.New("abort")

	err := r.InTx(ctx, func(ctx context.Context, tx Repository) error {
		if _, err := tx.GetRequest(ctx, req.ID, true); err != nil {
			return err
		}
		if _, err := tx.AdjustQuantity(ctx, book.ID, -1); err != nil {
			return err
		}
		if _, err := tx.UpdateStatus(ctx, req.ID, model.StatusApproved, time.Now().UTC()); err != nil {
			return err
		}
		if _, err := tx.CreateLoan(ctx, model.Loan{
			ID:        uuid.New(),
			RequestID: req.ID,
			StudentID: student.ID,
			BookID:    book.ID,
			IssueDate: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := r.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Quantity)
	stored, err := r.GetRequest(ctx, req.ID, false)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, stored.Status)
	loans, err := r.FindLoansByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Empty(t, loans)
}

func TestRepository_LoanView(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 1)
	student := seedStudent(t, r)
	req := seedRequest(t, r, student, book)

	loan, err := r.CreateLoan(ctx, model.Loan{
		ID:        uuid.New(),
		RequestID: req.ID,
		StudentID: student.ID,
		BookID:    book.ID,
		IssueDate: time.Now().UTC(),
	})
	require.NoError(t, err)

	loans, err := r.FindLoansByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	require.Equal(t, loan.ID, loans[0].ID)
	require.Equal(t, book.Title, *loans[0].BookTitle)
	require.Equal(t, student.Name, *loans[0].StudentName)

	require.NoError(t, r.DeleteBook(ctx, book.ID))
	loans, err = r.FindLoansByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	require.Nil(t, loans[0].BookTitle)

	require.NoError(t, r.DeleteLoan(ctx, loan.ID))
	require.ErrorIs(t, r.DeleteLoan(ctx, loan.ID), errs.ErrNotFound)
}

func TestRepository_Events(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	id := uuid.New()
	event := model.IssueEvent{
		EventID:   "01HF" + id.String()[:8] + "00000000000000",
		Type:      "REQUEST_SUBMITTED",
		RequestID: &id,
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, r.SaveEvent(ctx, event))
	require.NoError(t, r.SaveEvent(ctx, event))

	list, err := r.ListEvents(ctx, 1000)
	require.NoError(t, err)
	var found int
	for _, e := range list {
		if e.EventID == event.EventID {
			found++
		}
	}
	require.Equal(t, 1, found)
}

func TestRepository_UpdateBookKeepsQuantity(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 1)

	_, err := r.AdjustQuantity(ctx, book.ID, -1)
	require.NoError(t, err)

	got, err := r.UpdateBook(ctx, book.ID, model.BookInput{Title: "Revised", Author: book.Author})
	require.NoError(t, err)
	require.Equal(t, "Revised", got.Title)
	require.Equal(t, 0, got.Quantity)

	qty := 5
	got, err = r.UpdateBook(ctx, book.ID, model.BookInput{Title: "Revised", Author: book.Author, Quantity: &qty})
	require.NoError(t, err)
	require.Equal(t, 5, got.Quantity)

	_, err = r.UpdateBook(ctx, uuid.New(), model.BookInput{Title: "Missing", Author: "nobody"})
	require.ErrorIs(t, err, errs.ErrNotFound)
}
