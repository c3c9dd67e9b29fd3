package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
)

const (
	txColumns = "id, user_id, book_id, borrow_date, due_date, return_date, status, created_at, updated_at"

	txDetailColumns = `t.id, t.user_id, t.book_id, t.borrow_date, t.due_date, t.return_date, t.status,
t.created_at, t.updated_at, u.username, b.title as book_title, b.author as book_author`
)

// BorrowBook applies both borrow writes in one database transaction.
// The conditional decrement serializes concurrent borrows on the book row:
// at quantity 1 exactly one of two competing calls can succeed.
func (r *repository) BorrowBook(ctx context.Context, userID, bookID string, dueDate time.Time) (model.TransactionDetails, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.TransactionDetails{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`update books set quantity = quantity - 1, updated_at = now() where id = $1 and quantity > 0`, bookID)
	if err != nil {
		return model.TransactionDetails{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`select exists(select 1 from books where id = $1)`, bookID); err != nil {
			return model.TransactionDetails{}, err
		}
		if !exists {
			return model.TransactionDetails{}, errs.ErrBookNotFound
		}
		return model.TransactionDetails{}, errs.ErrOutOfStock
	}

	q, args, err := qb.Insert(transactionsTableName).
		Columns("id", "user_id", "book_id", "due_date", "status").
		Values(uuid.New(), userID, bookID, dueDate, model.StatusBorrowed).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.TransactionDetails{}, err
	}

	var txID string
	if err := tx.GetContext(ctx, &txID, q, args...); err != nil {
		// the partial unique index rejects a second open borrow
		// for the same (user, book); the decrement rolls back with it
		if isUniqueViolation(err) {
			return model.TransactionDetails{}, errs.ErrAlreadyBorrowed
		}
		r.log.Error("BorrowBook insert", zap.String("q", q), zap.Error(err))
		return model.TransactionDetails{}, err
	}

	details, err := getTransactionDetails(ctx, tx, txID)
	if err != nil {
		return model.TransactionDetails{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.TransactionDetails{}, err
	}
	return details, nil
}

// ReturnBook flips the transaction to returned and restores the book quantity
// in one database transaction. The status guard makes the flip idempotent-safe:
// a second return finds zero rows and is rejected without touching the counter.
func (r *repository) ReturnBook(ctx context.Context, transactionID string) (model.TransactionDetails, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.TransactionDetails{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var bookID string
	err = tx.QueryRowContext(ctx,
		`update transactions set status = 'returned', return_date = now(), updated_at = now()
where id = $1 and status = 'borrowed' returning book_id`, transactionID).Scan(&bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var status model.TxStatus
			err = tx.GetContext(ctx, &status,
				`select status from transactions where id = $1`, transactionID)
			if errors.Is(err, sql.ErrNoRows) {
				return model.TransactionDetails{}, errs.ErrTxNotFound
			}
			if err != nil {
				return model.TransactionDetails{}, err
			}
			return model.TransactionDetails{}, errs.ErrAlreadyReturned
		}
		return model.TransactionDetails{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`update books set quantity = quantity + 1, updated_at = now() where id = $1`, bookID); err != nil {
		return model.TransactionDetails{}, err
	}

	details, err := getTransactionDetails(ctx, tx, transactionID)
	if err != nil {
		return model.TransactionDetails{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.TransactionDetails{}, err
	}
	return details, nil
}

func getTransactionDetails(ctx context.Context, tx *sqlx.Tx, id string) (model.TransactionDetails, error) {
	q, args, err := detailsQuery().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return model.TransactionDetails{}, err
	}

	var details model.TransactionDetails
	if err := tx.GetContext(ctx, &details, q, args...); err != nil {
		return model.TransactionDetails{}, err
	}
	return details, nil
}

func detailsQuery() sq.SelectBuilder {
	return qb.Select(txDetailColumns).
		From(transactionsTableName + " t").
		Join(usersTableName + " u on u.id = t.user_id").
		Join(booksTableName + " b on b.id = t.book_id")
}

func (r *repository) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	q, args, err := qb.Select(txColumns).
		From(transactionsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Transaction{}, err
	}

	var trx model.Transaction
	if err := r.db.GetContext(ctx, &trx, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, errs.ErrTxNotFound
		}
		return model.Transaction{}, err
	}
	return trx, nil
}

func (r *repository) ListUserTransactions(ctx context.Context, userID string, activeOnly bool) ([]model.TransactionDetails, error) {
	q := detailsQuery().Where(sq.Eq{"t.user_id": userID})
	if activeOnly {
		q = q.Where(sq.Eq{"t.status": model.StatusBorrowed})
	}

	query, args, err := q.OrderBy("t.borrow_date desc").ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.TransactionDetails, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListTransactions(ctx context.Context) ([]model.TransactionDetails, error) {
	query, args, err := detailsQuery().OrderBy("t.borrow_date desc").ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.TransactionDetails, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CountTransactions(ctx context.Context, status model.TxStatus) (int, error) {
	q := qb.Select("count(*)").From(transactionsTableName)
	if status != "" {
		q = q.Where(sq.Eq{"status": status})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
