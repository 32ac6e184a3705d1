package model

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusReturned Status = "Returned"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusReturned},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusReturned:
		return true
	}
	return false
}

// Terminal statuses never transition again.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusReturned
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// RequestSnapshot holds the student and book details as they were when the request was submitted.
// It is written once with the request and never re-derived from the live records.
type RequestSnapshot struct {
	StudentName   string `json:"studentName" db:"student_name"`
	StudentBranch string `json:"studentBranch" db:"student_branch"`
	BookTitle     string `json:"bookTitle" db:"book_title"`
	BookAuthor    string `json:"bookAuthor" db:"book_author"`
}

func NewRequestSnapshot(student User, book Book) RequestSnapshot {
	return RequestSnapshot{
		StudentName:   student.Name,
		StudentBranch: student.Branch,
		BookTitle:     book.Title,
		BookAuthor:    book.Author,
	}
}

type IssueRequest struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StudentID uuid.UUID `json:"studentId" db:"student_id"`
	BookID    uuid.UUID `json:"bookId" db:"book_id"`
	RequestSnapshot
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Loan struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	RequestID  uuid.UUID  `json:"requestId" db:"request_id"`
	StudentID  uuid.UUID  `json:"studentId" db:"student_id"`
	BookID     uuid.UUID  `json:"bookId" db:"book_id"`
	IssueDate  time.Time  `json:"issueDate" db:"issue_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
}

// LoanView is a loan joined with the current student and book records.
// Joined fields are nil when the referenced record no longer exists.
type LoanView struct {
	Loan
	StudentName   *string `json:"studentName" db:"student_name"`
	StudentBranch *string `json:"studentBranch" db:"student_branch"`
	BookTitle     *string `json:"bookTitle" db:"book_title"`
	BookAuthor    *string `json:"bookAuthor" db:"book_author"`
	BookGenre     *string `json:"bookGenre" db:"book_genre"`
	BookPublisher *string `json:"bookPublisher" db:"book_publisher"`
}

type SubmitRequest struct {
	BookID uuid.UUID `json:"bookId" validate:"required"`
}

type RequestIDRequest struct {
	RequestID uuid.UUID `json:"requestId" validate:"required"`
}

type CancelLoanRequest struct {
	IssueID uuid.UUID `json:"issueId" validate:"required"`
}

type PurgeRequest struct {
	Statuses []Status `json:"statuses"`
}

type PurgeResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type IssueEvent struct {
	EventID   string     `json:"eventId" db:"event_id"`
	Type      string     `json:"type" db:"event_type"`
	RequestID *uuid.UUID `json:"requestId,omitempty" db:"request_id"`
	LoanID    *uuid.UUID `json:"loanId,omitempty" db:"loan_id"`
	StudentID *uuid.UUID `json:"studentId,omitempty" db:"student_id"`
	BookID    *uuid.UUID `json:"bookId,omitempty" db:"book_id"`
	Count     int64      `json:"count,omitempty" db:"count"`
	Timestamp time.Time  `json:"timestamp" db:"timestamp"`
}

type ActionResponse struct {
	Message string        `json:"message"`
	Request *IssueRequest `json:"request,omitempty"`
	Loan    *Loan         `json:"loan,omitempty"`
}
