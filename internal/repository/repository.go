package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/chanotai/library-lending/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, username, passwordHash string, role model.Role) (model.User, error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListMembers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id string, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error

	BorrowBook(ctx context.Context, userID, bookID string, dueDate time.Time) (model.TransactionDetails, error)
	ReturnBook(ctx context.Context, transactionID string) (model.TransactionDetails, error)
	GetTransaction(ctx context.Context, id string) (model.Transaction, error)
	ListUserTransactions(ctx context.Context, userID string, activeOnly bool) ([]model.TransactionDetails, error)
	ListTransactions(ctx context.Context) ([]model.TransactionDetails, error)

	CountBooks(ctx context.Context) (int, error)
	CountMembers(ctx context.Context) (int, error)
	CountTransactions(ctx context.Context, status model.TxStatus) (int, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName        = `users`
	booksTableName        = `books`
	transactionsTableName = `transactions`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
