package handler

import (
	"context"

	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/library/internal/service"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/google/uuid"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ LibraryService = (*service.Service)(nil)

type LibraryService interface {
	// issue lifecycle
	SubmitRequest(ctx context.Context, studentID, bookID uuid.UUID) (model.IssueRequest, error)
	ApproveRequest(ctx context.Context, requestID uuid.UUID) (model.Loan, error)
	RejectRequest(ctx context.Context, requestID uuid.UUID) (model.IssueRequest, error)
	CancelLoan(ctx context.Context, principal auth.Principal, loanID uuid.UUID) (model.Loan, error)
	PurgeFinalized(ctx context.Context, statuses []model.Status) (int64, error)
	ListRequests(ctx context.Context) ([]model.IssueRequest, error)
	ListLoans(ctx context.Context) ([]model.LoanView, error)
	StudentLoans(ctx context.Context, studentID uuid.UUID) ([]model.LoanView, error)
	ListEvents(ctx context.Context, limit int) ([]model.IssueEvent, error)

	// catalog
	CreateBook(ctx context.Context, in model.BookInput) (model.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, in model.BookInput) (model.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error

	// identity
	SignUp(ctx context.Context, req model.SignUpRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	Profile(ctx context.Context, id uuid.UUID) (model.User, error)
	ListStudents(ctx context.Context) ([]model.User, error)
	CreateStudent(ctx context.Context, in model.StudentInput) (model.User, error)
	UpdateStudent(ctx context.Context, id uuid.UUID, in model.StudentUpdate) (model.User, error)
	DeleteStudent(ctx context.Context, id uuid.UUID) error

	// messaging
	SendToAdmin(ctx context.Context, from uuid.UUID, content string) (model.Message, error)
	Reply(ctx context.Context, from, messageID uuid.UUID, content string) (model.Message, error)
	SendToAll(ctx context.Context, from uuid.UUID, content string) (int, error)
	SendToStudent(ctx context.Context, from, studentID uuid.UUID, content string) (model.Message, error)
	Inbox(ctx context.Context, userID uuid.UUID) ([]model.MessageView, error)
	Received(ctx context.Context, userID uuid.UUID) ([]model.MessageView, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error

	Statistics(ctx context.Context) (model.Statistics, error)
}
