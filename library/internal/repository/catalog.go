package repository

import (
	"context"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var bookColumns = []string{"id", "title", "author", "genre", "sub_genre", "publisher", "height", "quantity"}

const bookReturning = "returning id, title, author, genre, sub_genre, publisher, height, quantity"

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns(bookColumns...).
		Values(book.ID, book.Title, book.Author, book.Genre, book.SubGenre, book.Publisher, book.Height, book.Quantity).
		Suffix(bookReturning).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	created, err := collectOne[model.Book](ctx, r.db, "book", query, args...)
	if err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) GetBook(ctx context.Context, id uuid.UUID) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return collectOne[model.Book](ctx, r.db, "book", query, args...)
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("title", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.Book](ctx, r.db, "book", query, args...)
}

// UpdateBook rewrites the metadata in a single statement. Quantity is only touched
// when the input sets it, so a concurrent approve or cancel is never overwritten.
func (r *repository) UpdateBook(ctx context.Context, id uuid.UUID, in model.BookInput) (model.Book, error) {
	set := map[string]any{
		"title":     in.Title,
		"author":    in.Author,
		"genre":     in.Genre,
		"sub_genre": in.SubGenre,
		"publisher": in.Publisher,
		"height":    in.Height,
	}
	if in.Quantity != nil {
		set["quantity"] = *in.Quantity
	}
	query, args, err := qb.Update(booksTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix(bookReturning).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return collectOne[model.Book](ctx, r.db, "book", query, args...)
}

func (r *repository) DeleteBook(ctx context.Context, id uuid.UUID) error {
	query, args, err := qb.Delete(booksTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, "book")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(errs.ErrNotFound, "book")
	}
	return nil
}

// AdjustQuantity applies delta with a guarded single-statement update,
// so the row lock serializes concurrent adjustments of the same book.
func (r *repository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (model.Book, error) {
	q := `
update books
    set quantity = quantity + @delta
where id = @id and quantity + @delta >= 0
` + bookReturning
	args := pgx.NamedArgs{
		"id":    id,
		"delta": delta,
	}
	book, err := collectOne[model.Book](ctx, r.db, "book", q, args)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return model.Book{}, err
	}
	if _, err := r.GetBook(ctx, id); err != nil {
		return model.Book{}, err
	}
	return model.Book{}, errors.Wrapf(errs.ErrUnavailable, "book %s", id)
}

func (r *repository) CountBooks(ctx context.Context) (int64, error) {
	return count(ctx, r.db, qb.Select("count(*)").From(booksTableName))
}
