package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
	"github.com/chanotai/library-lending/internal/repository"
)

const (
	userID = "83575e12-7ce0-48ee-9931-51919ff3c9ee"
	bookID = "f7cdc58f-2caf-4b15-9727-f89dcc629b27"
	txID   = "9a3c1f60-5c3e-4d0a-8c59-0e1f3a6b7c8d"
)

func newMockRepo(t *testing.T) (repository.Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	repo, err := repository.NewRepository(sqlx.NewDb(mockDB, "sqlmock"), zap.NewNop())
	require.NoError(t, err)
	return repo, mock
}

func detailRows(status model.TxStatus, returned interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "book_id", "borrow_date", "due_date", "return_date",
		"status", "created_at", "updated_at", "username", "book_title", "book_author",
	}).AddRow(txID, userID, bookID, now, now.Add(7*24*time.Hour), returned, status, now, now, "member", "1984", "George Orwell")
}

const (
	decrementQuery = `update books set quantity = quantity - 1, updated_at = now() where id = $1 and quantity > 0`
	insertTxQuery  = `INSERT INTO transactions (id,user_id,book_id,due_date,status) VALUES ($1,$2,$3,$4,$5) returning id`
	detailsQuery   = `SELECT t.id, t.user_id, t.book_id`
)

func TestRepository_BorrowBook(t *testing.T) {
	t.Parallel()
	dueDate := time.Now().Add(7 * 24 * time.Hour)

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(decrementQuery)).
			WithArgs(bookID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(insertTxQuery)).
			WithArgs(sqlmock.AnyArg(), userID, bookID, dueDate, model.StatusBorrowed).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(txID))
		mock.ExpectQuery(regexp.QuoteMeta(detailsQuery)).
			WithArgs(txID).
			WillReturnRows(detailRows(model.StatusBorrowed, nil))
		mock.ExpectCommit()

		details, err := repo.BorrowBook(context.Background(), userID, bookID, dueDate)
		require.NoError(t, err)
		require.Equal(t, txID, details.ID)
		require.Equal(t, model.StatusBorrowed, details.Status)
		require.Equal(t, "1984", details.BookTitle)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. out of stock", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(decrementQuery)).
			WithArgs(bookID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`select exists(select 1 from books where id = $1)`)).
			WithArgs(bookID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := repo.BorrowBook(context.Background(), userID, bookID, dueDate)
		require.ErrorIs(t, err, errs.ErrOutOfStock)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. unknown book", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(decrementQuery)).
			WithArgs(bookID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`select exists(select 1 from books where id = $1)`)).
			WithArgs(bookID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err := repo.BorrowBook(context.Background(), userID, bookID, dueDate)
		require.ErrorIs(t, err, errs.ErrBookNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. open borrow exists", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(decrementQuery)).
			WithArgs(bookID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(insertTxQuery)).
			WithArgs(sqlmock.AnyArg(), userID, bookID, dueDate, model.StatusBorrowed).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
		mock.ExpectRollback()

		_, err := repo.BorrowBook(context.Background(), userID, bookID, dueDate)
		require.ErrorIs(t, err, errs.ErrAlreadyBorrowed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ReturnBook(t *testing.T) {
	t.Parallel()

	returnQuery := `update transactions set status = 'returned', return_date = now(), updated_at = now()
where id = $1 and status = 'borrowed' returning book_id`
	incrementQuery := `update books set quantity = quantity + 1, updated_at = now() where id = $1`

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)
		returned := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(returnQuery)).
			WithArgs(txID).
			WillReturnRows(sqlmock.NewRows([]string{"book_id"}).AddRow(bookID))
		mock.ExpectExec(regexp.QuoteMeta(incrementQuery)).
			WithArgs(bookID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(detailsQuery)).
			WithArgs(txID).
			WillReturnRows(detailRows(model.StatusReturned, returned))
		mock.ExpectCommit()

		details, err := repo.ReturnBook(context.Background(), txID)
		require.NoError(t, err)
		require.Equal(t, model.StatusReturned, details.Status)
		require.NotNil(t, details.ReturnDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. already returned", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(returnQuery)).
			WithArgs(txID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta(`select status from transactions where id = $1`)).
			WithArgs(txID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("returned"))
		mock.ExpectRollback()

		_, err := repo.ReturnBook(context.Background(), txID)
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. unknown transaction", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(returnQuery)).
			WithArgs(txID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta(`select status from transactions where id = $1`)).
			WithArgs(txID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.ReturnBook(context.Background(), txID)
		require.ErrorIs(t, err, errs.ErrTxNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListUserTransactions(t *testing.T) {
	t.Parallel()

	t.Run("active only filter", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(detailsQuery)).
			WithArgs(userID, model.StatusBorrowed).
			WillReturnRows(detailRows(model.StatusBorrowed, nil))

		items, err := repo.ListUserTransactions(context.Background(), userID, true)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("full history", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(detailsQuery)).
			WithArgs(userID).
			WillReturnRows(detailRows(model.StatusReturned, nil))

		items, err := repo.ListUserTransactions(context.Background(), userID, false)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CountTransactions(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM transactions WHERE status = $1`)).
		WithArgs(model.StatusBorrowed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM transactions`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	active, err := repo.CountTransactions(context.Background(), model.StatusBorrowed)
	require.NoError(t, err)
	require.Equal(t, 2, active)

	total, err := repo.CountTransactions(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
