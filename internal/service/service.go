package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
	"github.com/chanotai/library-lending/internal/repository"
)

// Config carries the lending policy knobs.
type Config struct {
	// LoanPeriod is added to the borrow time to produce the due date.
	LoanPeriod time.Duration
	// ReturnSelfOnly restricts returns to the borrowing user (admins excepted).
	// Off by default: any authenticated caller holding the transaction id may
	// return, matching the historically observed behavior.
	ReturnSelfOnly bool
}

type Service struct {
	log  *zap.Logger
	repo repository.Repository
	cfg  Config
}

func NewService(repo repository.Repository, cfg Config, log *zap.Logger) *Service {
	if cfg.LoanPeriod <= 0 {
		cfg.LoanPeriod = 7 * 24 * time.Hour
	}
	return &Service{
		log:  log,
		repo: repo,
		cfg:  cfg,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	role := req.Role
	if role == "" {
		role = model.RoleMember
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}

	return s.repo.CreateUser(ctx, req.Username, string(hash), role)
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.User{}, errs.ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.User{}, errs.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetUserByID(ctx context.Context, id string) (model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) ListMembers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListMembers(ctx)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, bookFromRequest(req))
}

func (s *Service) GetBook(ctx context.Context, id string) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

// UpdateBook overlays the request onto the stored row. Fields absent from the
// request keep their stored values; only quantity/description/isbn/category
// sent explicitly are overwritten.
func (s *Service) UpdateBook(ctx context.Context, id string, req model.BookRequest) (model.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}

	book.Title = req.Title
	book.Author = req.Author
	if req.Quantity != nil {
		book.Quantity = *req.Quantity
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Category != nil {
		book.Category = *req.Category
	}

	return s.repo.UpdateBook(ctx, id, book)
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.DeleteBook(ctx, id)
}

func bookFromRequest(req model.BookRequest) model.Book {
	book := model.Book{
		Title:    req.Title,
		Author:   req.Author,
		Quantity: 1,
		Category: "General",
	}
	if req.Quantity != nil {
		book.Quantity = *req.Quantity
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Category != nil && *req.Category != "" {
		book.Category = *req.Category
	}
	return book
}
