package service

import (
	"context"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/library/internal/repository"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/Astemirdum/library-issue-service/pkg/kafka"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SubmitRequest opens a Pending request for the student, capturing the snapshot from the current records.
func (s *Service) SubmitRequest(ctx context.Context, studentID, bookID uuid.UUID) (model.IssueRequest, error) {
	var created model.IssueRequest
	err := s.repo.InTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		book, err := repo.GetBook(ctx, bookID)
		if err != nil {
			return err
		}
		student, err := s.student(ctx, repo, studentID)
		if err != nil {
			return err
		}
		if _, found, err := repo.FindPendingFor(ctx, studentID, bookID); err != nil {
			return err
		} else if found {
			return errors.Wrap(errs.ErrConflict, "a pending request for this book already exists")
		}

		now := s.now()
		created, err = repo.CreateRequest(ctx, model.IssueRequest{
			ID:              uuid.New(),
			StudentID:       studentID,
			BookID:          bookID,
			RequestSnapshot: model.NewRequestSnapshot(student, book),
			Status:          model.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		return err
	})
	if err != nil {
		return model.IssueRequest{}, err
	}

	s.events.Publish(ctx, requestEvent(s.newEvent(kafka.EventRequestSubmitted), created))
	return created, nil
}

// ApproveRequest moves a Pending request to Approved, takes one copy off the shelf and opens a loan.
// All three writes commit together or not at all.
func (s *Service) ApproveRequest(ctx context.Context, requestID uuid.UUID) (model.Loan, error) {
	var loan model.Loan
	var req model.IssueRequest
	err := s.repo.InTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		var err error
		req, err = repo.GetRequest(ctx, requestID, true)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(model.StatusApproved) {
			return errors.Wrapf(errs.ErrConflict, "request already %s", req.Status)
		}
		if _, err = s.student(ctx, repo, req.StudentID); err != nil {
			return err
		}
		if _, err = repo.AdjustQuantity(ctx, req.BookID, -1); err != nil {
			return err
		}
		if req, err = repo.UpdateStatus(ctx, req.ID, model.StatusApproved, s.now()); err != nil {
			return err
		}
		loan, err = repo.CreateLoan(ctx, model.Loan{
			ID:        uuid.New(),
			RequestID: req.ID,
			StudentID: req.StudentID,
			BookID:    req.BookID,
			IssueDate: s.now(),
		})
		return err
	})
	if err != nil {
		return model.Loan{}, err
	}

	e := requestEvent(s.newEvent(kafka.EventRequestApproved), req)
	e.LoanID = loan.ID.String()
	s.events.Publish(ctx, e)
	return loan, nil
}

func (s *Service) RejectRequest(ctx context.Context, requestID uuid.UUID) (model.IssueRequest, error) {
	var req model.IssueRequest
	err := s.repo.InTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		var err error
		req, err = repo.GetRequest(ctx, requestID, true)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(model.StatusRejected) {
			return errors.Wrapf(errs.ErrConflict, "request already %s", req.Status)
		}
		req, err = repo.UpdateStatus(ctx, req.ID, model.StatusRejected, s.now())
		return err
	})
	if err != nil {
		return model.IssueRequest{}, err
	}

	s.events.Publish(ctx, requestEvent(s.newEvent(kafka.EventRequestRejected), req))
	return req, nil
}

// CancelLoan returns the copy: the originating request becomes Returned, the loan is removed
// and the book quantity goes back up by one. Students may only cancel their own loans.
func (s *Service) CancelLoan(ctx context.Context, principal auth.Principal, loanID uuid.UUID) (model.Loan, error) {
	var loan model.Loan
	var req model.IssueRequest
	err := s.repo.InTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		var err error
		loan, err = repo.GetLoan(ctx, loanID, true)
		if err != nil {
			return err
		}
		if principal.Role != auth.RoleAdmin && loan.StudentID != principal.ID {
			return errors.Wrap(errs.ErrForbidden, "loan belongs to another student")
		}

		req, err = repo.GetRequest(ctx, loan.RequestID, true)
		if err != nil {
			return errors.Wrap(err, "approved request for loan")
		}
		if req.Status != model.StatusApproved {
			return errors.Wrapf(errs.ErrNotFound, "approved request for loan (request is %s)", req.Status)
		}

		if _, err = repo.AdjustQuantity(ctx, loan.BookID, 1); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				s.log.Error("loan references a missing book",
					zap.Stringer("loanId", loan.ID),
					zap.Stringer("bookId", loan.BookID),
					zap.Stringer("requestId", req.ID))
				return errors.Wrapf(errs.ErrInconsistent, "book %s of loan %s", loan.BookID, loan.ID)
			}
			return err
		}
		if req, err = repo.UpdateStatus(ctx, req.ID, model.StatusReturned, s.now()); err != nil {
			return err
		}
		return repo.DeleteLoan(ctx, loan.ID)
	})
	if err != nil {
		return model.Loan{}, err
	}

	e := requestEvent(s.newEvent(kafka.EventLoanCancelled), req)
	e.LoanID = loan.ID.String()
	s.events.Publish(ctx, e)
	return loan, nil
}

// PurgeFinalized deletes requests in the given terminal statuses, Returned when none are given.
// Zero matches is not an error.
func (s *Service) PurgeFinalized(ctx context.Context, statuses []model.Status) (int64, error) {
	if len(statuses) == 0 {
		statuses = []model.Status{model.StatusReturned}
	}
	for _, st := range statuses {
		if !st.Terminal() {
			return 0, errors.Wrapf(errs.ErrInvalidArgument, "status %q is not final", st)
		}
	}

	n, err := s.repo.DeleteWhereStatusIn(ctx, statuses)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e := s.newEvent(kafka.EventRequestsPurged)
		e.Count = n
		s.events.Publish(ctx, e)
	}
	return n, nil
}

func (s *Service) ListRequests(ctx context.Context) ([]model.IssueRequest, error) {
	return s.repo.ListRequests(ctx)
}

func (s *Service) ListLoans(ctx context.Context) ([]model.LoanView, error) {
	return s.repo.ListLoans(ctx)
}

func (s *Service) StudentLoans(ctx context.Context, studentID uuid.UUID) ([]model.LoanView, error) {
	return s.repo.FindLoansByStudent(ctx, studentID)
}

func (s *Service) student(ctx context.Context, repo repository.IdentityStore, id uuid.UUID) (model.User, error) {
	u, err := repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, errors.Wrap(err, "student")
	}
	if u.Role != auth.RoleStudent {
		return model.User{}, errors.Wrap(errs.ErrNotFound, "student")
	}
	return u, nil
}
