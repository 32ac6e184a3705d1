package service

import (
	"context"

	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/google/uuid"
)

func (s *Service) CreateBook(ctx context.Context, in model.BookInput) (model.Book, error) {
	return s.repo.CreateBook(ctx, in.Book(uuid.New()))
}

func (s *Service) GetBook(ctx context.Context, id uuid.UUID) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

// UpdateBook replaces the metadata; quantity is kept unless the input sets it.
func (s *Service) UpdateBook(ctx context.Context, id uuid.UUID, in model.BookInput) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, in)
}

func (s *Service) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBook(ctx, id)
}
