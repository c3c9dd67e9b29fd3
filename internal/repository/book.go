package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
)

const bookColumns = "id, title, author, quantity, description, isbn, category, created_at, updated_at"

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("id", "title", "author", "quantity", "description", "isbn", "category").
		Values(uuid.New(), book.Title, book.Author, book.Quantity, book.Description, book.ISBN, book.Category).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var created model.Book
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Error(err))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) GetBook(ctx context.Context, id string) (model.Book, error) {
	q, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	q, args, err := qb.Select(bookColumns).
		From(booksTableName).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) UpdateBook(ctx context.Context, id string, book model.Book) (model.Book, error) {
	q, args, err := qb.Update(booksTableName).
		Set("title", book.Title).
		Set("author", book.Author).
		Set("quantity", book.Quantity).
		Set("description", book.Description).
		Set("isbn", book.ISBN).
		Set("category", book.Category).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var updated model.Book
	if err := r.db.GetContext(ctx, &updated, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		r.log.Error("UpdateBook", zap.String("q", q), zap.Error(err))
		return model.Book{}, err
	}
	return updated, nil
}

func (r *repository) DeleteBook(ctx context.Context, id string) error {
	q, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrBookNotFound
	}
	return nil
}

func (r *repository) CountBooks(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `select count(*) from books`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountMembers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `select count(*) from users where role = 'member'`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
