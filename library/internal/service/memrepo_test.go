package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/library/internal/repository"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// memState is one snapshot of every table.
type memState struct {
	books    map[uuid.UUID]model.Book
	users    map[uuid.UUID]model.User
	requests map[uuid.UUID]model.IssueRequest
	loans    map[uuid.UUID]model.Loan
	messages map[uuid.UUID]model.Message
	events   map[string]model.IssueEvent
}

func newMemState() *memState {
	return &memState{
		books:    map[uuid.UUID]model.Book{},
		users:    map[uuid.UUID]model.User{},
		requests: map[uuid.UUID]model.IssueRequest{},
		loans:    map[uuid.UUID]model.Loan{},
		messages: map[uuid.UUID]model.Message{},
		events:   map[string]model.IssueEvent{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *memState) clone() *memState {
	return &memState{
		books:    cloneMap(st.books),
		users:    cloneMap(st.users),
		requests: cloneMap(st.requests),
		loans:    cloneMap(st.loans),
		messages: cloneMap(st.messages),
		events:   cloneMap(st.events),
	}
}

// memStore is an in-memory Repository. Transactions are serialized and work on a copy
// of the state that replaces the committed one only when fn succeeds.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   *memState

	failMu sync.Mutex
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{st: newMemState(), failOn: map[string]error{}}
}

// failInTx makes the named method fail whenever it runs inside a transaction.
func (s *memStore) failInTx(method string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failOn[method] = err
}

func (s *memStore) injected(method string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.failOn[method]
}

func (s *memStore) repo() *memRepo {
	return &memRepo{store: s}
}

// snapshot returns a copy of the committed state for assertions.
func (s *memStore) snapshot() *memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

type memRepo struct {
	store *memStore
	tx    *memState
}

var _ repository.Repository = (*memRepo)(nil)

func (r *memRepo) state(method string) (*memState, func(), error) {
	if r.tx != nil {
		if err := r.store.injected(method); err != nil {
			return nil, nil, err
		}
		return r.tx, func() {}, nil
	}
	r.store.mu.Lock()
	return r.store.st, r.store.mu.Unlock, nil
}

func (r *memRepo) InTx(ctx context.Context, fn func(ctx context.Context, repo repository.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	work := r.store.snapshot()
	if err := fn(ctx, &memRepo{store: r.store, tx: work}); err != nil {
		return err
	}
	r.store.mu.Lock()
	r.store.st = work
	r.store.mu.Unlock()
	return nil
}

func notFound(entity string) error {
	return errors.Wrap(errs.ErrNotFound, entity)
}

// catalog

func (r *memRepo) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	st, done, err := r.state("CreateBook")
	if err != nil {
		return model.Book{}, err
	}
	defer done()
	if _, ok := st.books[book.ID]; ok {
		return model.Book{}, errors.Wrap(errs.ErrConflict, "book")
	}
	if book.Quantity < 0 {
		return model.Book{}, errors.Wrap(errs.ErrUnavailable, "book")
	}
	st.books[book.ID] = book
	return book, nil
}

func (r *memRepo) GetBook(_ context.Context, id uuid.UUID) (model.Book, error) {
	st, done, err := r.state("GetBook")
	if err != nil {
		return model.Book{}, err
	}
	defer done()
	b, ok := st.books[id]
	if !ok {
		return model.Book{}, notFound("book")
	}
	return b, nil
}

func (r *memRepo) ListBooks(_ context.Context) ([]model.Book, error) {
	st, done, err := r.state("ListBooks")
	if err != nil {
		return nil, err
	}
	defer done()
	out := make([]model.Book, 0, len(st.books))
	for _, b := range st.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memRepo) UpdateBook(_ context.Context, id uuid.UUID, in model.BookInput) (model.Book, error) {
	st, done, err := r.state("UpdateBook")
	if err != nil {
		return model.Book{}, err
	}
	defer done()
	current, ok := st.books[id]
	if !ok {
		return model.Book{}, notFound("book")
	}
	book := in.Book(id)
	if in.Quantity == nil {
		book.Quantity = current.Quantity
	}
	st.books[id] = book
	return book, nil
}

func (r *memRepo) DeleteBook(_ context.Context, id uuid.UUID) error {
	st, done, err := r.state("DeleteBook")
	if err != nil {
		return err
	}
	defer done()
	if _, ok := st.books[id]; !ok {
		return notFound("book")
	}
	delete(st.books, id)
	return nil
}

func (r *memRepo) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) (model.Book, error) {
	st, done, err := r.state("AdjustQuantity")
	if err != nil {
		return model.Book{}, err
	}
	defer done()
	b, ok := st.books[id]
	if !ok {
		return model.Book{}, notFound("book")
	}
	if b.Quantity+delta < 0 {
		return model.Book{}, errors.Wrap(errs.ErrUnavailable, "book")
	}
	b.Quantity += delta
	st.books[id] = b
	return b, nil
}

func (r *memRepo) CountBooks(_ context.Context) (int64, error) {
	st, done, err := r.state("CountBooks")
	if err != nil {
		return 0, err
	}
	defer done()
	return int64(len(st.books)), nil
}

// identity

func (r *memRepo) CreateUser(_ context.Context, user model.User) (model.User, error) {
	st, done, err := r.state("CreateUser")
	if err != nil {
		return model.User{}, err
	}
	defer done()
	for _, u := range st.users {
		if u.Email == user.Email {
			return model.User{}, errors.Wrap(errs.ErrConflict, "user: users_email_key")
		}
	}
	st.users[user.ID] = user
	return user, nil
}

func (r *memRepo) GetUser(_ context.Context, id uuid.UUID) (model.User, error) {
	st, done, err := r.state("GetUser")
	if err != nil {
		return model.User{}, err
	}
	defer done()
	u, ok := st.users[id]
	if !ok {
		return model.User{}, notFound("user")
	}
	return u, nil
}

func (r *memRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	st, done, err := r.state("GetUserByEmail")
	if err != nil {
		return model.User{}, err
	}
	defer done()
	for _, u := range st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, notFound("user")
}

func (r *memRepo) FirstUserWithRole(_ context.Context, role auth.Role) (model.User, error) {
	st, done, err := r.state("FirstUserWithRole")
	if err != nil {
		return model.User{}, err
	}
	defer done()
	var (
		first model.User
		found bool
	)
	for _, u := range st.users {
		if u.Role == role && (!found || u.CreatedAt.Before(first.CreatedAt)) {
			first, found = u, true
		}
	}
	if !found {
		return model.User{}, notFound("user")
	}
	return first, nil
}

func (r *memRepo) ListUsers(_ context.Context, role auth.Role) ([]model.User, error) {
	st, done, err := r.state("ListUsers")
	if err != nil {
		return nil, err
	}
	defer done()
	out := make([]model.User, 0)
	for _, u := range st.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRepo) UpdateUser(_ context.Context, user model.User) (model.User, error) {
	st, done, err := r.state("UpdateUser")
	if err != nil {
		return model.User{}, err
	}
	defer done()
	if _, ok := st.users[user.ID]; !ok {
		return model.User{}, notFound("user")
	}
	st.users[user.ID] = user
	return user, nil
}

func (r *memRepo) DeleteUser(_ context.Context, id uuid.UUID, role auth.Role) error {
	st, done, err := r.state("DeleteUser")
	if err != nil {
		return err
	}
	defer done()
	u, ok := st.users[id]
	if !ok || u.Role != role {
		return notFound("user")
	}
	delete(st.users, id)
	return nil
}

func (r *memRepo) CountUsers(_ context.Context, role auth.Role) (int64, error) {
	st, done, err := r.state("CountUsers")
	if err != nil {
		return 0, err
	}
	defer done()
	var n int64
	for _, u := range st.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// request ledger

func (r *memRepo) CreateRequest(_ context.Context, req model.IssueRequest) (model.IssueRequest, error) {
	st, done, err := r.state("CreateRequest")
	if err != nil {
		return model.IssueRequest{}, err
	}
	defer done()
	if req.Status == model.StatusPending {
		for _, other := range st.requests {
			if other.Status == model.StatusPending && other.StudentID == req.StudentID && other.BookID == req.BookID {
				return model.IssueRequest{}, errors.Wrap(errs.ErrConflict, "issue request: issue_requests_one_pending_idx")
			}
		}
	}
	st.requests[req.ID] = req
	return req, nil
}

func (r *memRepo) GetRequest(_ context.Context, id uuid.UUID, _ bool) (model.IssueRequest, error) {
	st, done, err := r.state("GetRequest")
	if err != nil {
		return model.IssueRequest{}, err
	}
	defer done()
	req, ok := st.requests[id]
	if !ok {
		return model.IssueRequest{}, notFound("issue request")
	}
	return req, nil
}

func (r *memRepo) FindPendingFor(_ context.Context, studentID, bookID uuid.UUID) (model.IssueRequest, bool, error) {
	st, done, err := r.state("FindPendingFor")
	if err != nil {
		return model.IssueRequest{}, false, err
	}
	defer done()
	for _, req := range st.requests {
		if req.Status == model.StatusPending && req.StudentID == studentID && req.BookID == bookID {
			return req, true, nil
		}
	}
	return model.IssueRequest{}, false, nil
}

func (r *memRepo) ListRequests(_ context.Context) ([]model.IssueRequest, error) {
	st, done, err := r.state("ListRequests")
	if err != nil {
		return nil, err
	}
	defer done()
	out := make([]model.IssueRequest, 0, len(st.requests))
	for _, req := range st.requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.Status, at time.Time) (model.IssueRequest, error) {
	st, done, err := r.state("UpdateStatus")
	if err != nil {
		return model.IssueRequest{}, err
	}
	defer done()
	req, ok := st.requests[id]
	if !ok {
		return model.IssueRequest{}, notFound("issue request")
	}
	req.Status = status
	req.UpdatedAt = at
	st.requests[id] = req
	return req, nil
}

func (r *memRepo) DeleteWhereStatusIn(_ context.Context, statuses []model.Status) (int64, error) {
	st, done, err := r.state("DeleteWhereStatusIn")
	if err != nil {
		return 0, err
	}
	defer done()
	var n int64
	for id, req := range st.requests {
		for _, s := range statuses {
			if req.Status == s {
				delete(st.requests, id)
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *memRepo) CountRequests(_ context.Context, status model.Status) (int64, error) {
	st, done, err := r.state("CountRequests")
	if err != nil {
		return 0, err
	}
	defer done()
	var n int64
	for _, req := range st.requests {
		if req.Status == status {
			n++
		}
	}
	return n, nil
}

// loan tracker

func (r *memRepo) CreateLoan(_ context.Context, loan model.Loan) (model.Loan, error) {
	st, done, err := r.state("CreateLoan")
	if err != nil {
		return model.Loan{}, err
	}
	defer done()
	if _, ok := st.requests[loan.RequestID]; !ok {
		return model.Loan{}, notFound("loan: loans_request_id_fkey")
	}
	for _, l := range st.loans {
		if l.RequestID == loan.RequestID {
			return model.Loan{}, errors.Wrap(errs.ErrConflict, "loan: loans_request_id_key")
		}
	}
	st.loans[loan.ID] = loan
	return loan, nil
}

func (r *memRepo) GetLoan(_ context.Context, id uuid.UUID, _ bool) (model.Loan, error) {
	st, done, err := r.state("GetLoan")
	if err != nil {
		return model.Loan{}, err
	}
	defer done()
	l, ok := st.loans[id]
	if !ok {
		return model.Loan{}, notFound("loan")
	}
	return l, nil
}

func (st *memState) loanView(l model.Loan) model.LoanView {
	v := model.LoanView{Loan: l}
	if u, ok := st.users[l.StudentID]; ok {
		v.StudentName, v.StudentBranch = &u.Name, &u.Branch
	}
	if b, ok := st.books[l.BookID]; ok {
		v.BookTitle, v.BookAuthor, v.BookGenre, v.BookPublisher = &b.Title, &b.Author, &b.Genre, &b.Publisher
	}
	return v
}

func (r *memRepo) FindLoansByStudent(_ context.Context, studentID uuid.UUID) ([]model.LoanView, error) {
	st, done, err := r.state("FindLoansByStudent")
	if err != nil {
		return nil, err
	}
	defer done()
	out := make([]model.LoanView, 0)
	for _, l := range st.loans {
		if l.StudentID == studentID {
			out = append(out, st.loanView(l))
		}
	}
	return out, nil
}

func (r *memRepo) ListLoans(_ context.Context) ([]model.LoanView, error) {
	st, done, err := r.state("ListLoans")
	if err != nil {
		return nil, err
	}
	defer done()
	out := make([]model.LoanView, 0, len(st.loans))
	for _, l := range st.loans {
		out = append(out, st.loanView(l))
	}
	return out, nil
}

func (r *memRepo) DeleteLoan(_ context.Context, id uuid.UUID) error {
	st, done, err := r.state("DeleteLoan")
	if err != nil {
		return err
	}
	defer done()
	if _, ok := st.loans[id]; !ok {
		return notFound("loan")
	}
	delete(st.loans, id)
	return nil
}

func (r *memRepo) CountLoans(_ context.Context) (int64, error) {
	st, done, err := r.state("CountLoans")
	if err != nil {
		return 0, err
	}
	defer done()
	return int64(len(st.loans)), nil
}

// messages

func (r *memRepo) CreateMessages(_ context.Context, msgs ...model.Message) error {
	st, done, err := r.state("CreateMessages")
	if err != nil {
		return err
	}
	defer done()
	for _, m := range msgs {
		if _, ok := st.users[m.ReceiverID]; !ok {
			return notFound("message: messages_receiver_id_fkey")
		}
	}
	for _, m := range msgs {
		st.messages[m.ID] = m
	}
	return nil
}

func (r *memRepo) GetMessage(_ context.Context, id uuid.UUID) (model.Message, error) {
	st, done, err := r.state("GetMessage")
	if err != nil {
		return model.Message{}, err
	}
	defer done()
	m, ok := st.messages[id]
	if !ok {
		return model.Message{}, notFound("message")
	}
	return m, nil
}

func (r *memRepo) ListMessages(_ context.Context, f repository.MessageFilter) ([]model.MessageView, error) {
	st, done, err := r.state("ListMessages")
	if err != nil {
		return nil, err
	}
	defer done()
	out := make([]model.MessageView, 0)
	for _, m := range st.messages {
		if f.Participant != nil && m.SenderID != *f.Participant && m.ReceiverID != *f.Participant {
			continue
		}
		if f.ReceiverID != nil && m.ReceiverID != *f.ReceiverID {
			continue
		}
		if f.ExcludeSender != nil && m.SenderID == *f.ExcludeSender {
			continue
		}
		v := model.MessageView{Message: m}
		if u, ok := st.users[m.SenderID]; ok {
			v.SenderName = &u.Name
		}
		if u, ok := st.users[m.ReceiverID]; ok {
			v.ReceiverName = &u.Name
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.NewestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memRepo) DeleteMessage(_ context.Context, id uuid.UUID) error {
	st, done, err := r.state("DeleteMessage")
	if err != nil {
		return err
	}
	defer done()
	if _, ok := st.messages[id]; !ok {
		return notFound("message")
	}
	delete(st.messages, id)
	return nil
}

// events

func (r *memRepo) SaveEvent(_ context.Context, event model.IssueEvent) error {
	st, done, err := r.state("SaveEvent")
	if err != nil {
		return err
	}
	defer done()
	if _, ok := st.events[event.EventID]; !ok {
		st.events[event.EventID] = event
	}
	return nil
}

func (r *memRepo) ListEvents(_ context.Context, limit int) ([]model.IssueEvent, error) {
	st, done, err := r.state("ListEvents")
	if err != nil {
		return nil, err
	}
	defer done()
	out := make([]model.IssueEvent, 0, len(st.events))
	for _, e := range st.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID > out[j].EventID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
