package handler

import (
	"context"

	"github.com/chanotai/library-lending/internal/model"
	"github.com/chanotai/library-lending/internal/service"
	"github.com/chanotai/library-lending/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ LibraryService = (*service.Service)(nil)

type LibraryService interface {
	Ping(ctx context.Context) error

	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.User, error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
	ListMembers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error

	Borrow(ctx context.Context, userID, bookID string) (model.TransactionDetails, error)
	Return(ctx context.Context, caller auth.Identity, transactionID string) (model.TransactionDetails, error)
	MyBorrowed(ctx context.Context, userID string) ([]model.TransactionDetails, error)
	History(ctx context.Context, caller auth.Identity, userID string) ([]model.TransactionDetails, error)
	AllTransactions(ctx context.Context) ([]model.TransactionDetails, error)
	Stats(ctx context.Context) (model.Stats, error)
}
