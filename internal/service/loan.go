package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
	"github.com/chanotai/library-lending/pkg/auth"
)

func (s *Service) Borrow(ctx context.Context, userID, bookID string) (model.TransactionDetails, error) {
	dueDate := time.Now().Add(s.cfg.LoanPeriod)

	details, err := s.repo.BorrowBook(ctx, userID, bookID, dueDate)
	if err != nil {
		return model.TransactionDetails{}, err
	}

	s.log.Info("book borrowed",
		zap.String("user_id", userID),
		zap.String("book_id", bookID),
		zap.String("transaction_id", details.ID),
	)
	return details, nil
}

func (s *Service) Return(ctx context.Context, caller auth.Identity, transactionID string) (model.TransactionDetails, error) {
	if s.cfg.ReturnSelfOnly && caller.Role != string(model.RoleAdmin) {
		trx, err := s.repo.GetTransaction(ctx, transactionID)
		if err != nil {
			return model.TransactionDetails{}, err
		}
		if trx.UserID != caller.UserID {
			return model.TransactionDetails{}, errs.ErrForbidden
		}
	}

	details, err := s.repo.ReturnBook(ctx, transactionID)
	if err != nil {
		return model.TransactionDetails{}, err
	}

	s.log.Info("book returned",
		zap.String("transaction_id", transactionID),
		zap.String("by", caller.UserID),
	)
	return details, nil
}

func (s *Service) MyBorrowed(ctx context.Context, userID string) ([]model.TransactionDetails, error) {
	return s.repo.ListUserTransactions(ctx, userID, true)
}

// History returns a user's full borrow history. Members may only read their
// own; admins may read anyone's.
func (s *Service) History(ctx context.Context, caller auth.Identity, userID string) ([]model.TransactionDetails, error) {
	if caller.UserID != userID && caller.Role != string(model.RoleAdmin) {
		return nil, errs.ErrForbidden
	}
	return s.repo.ListUserTransactions(ctx, userID, false)
}

func (s *Service) AllTransactions(ctx context.Context) ([]model.TransactionDetails, error) {
	return s.repo.ListTransactions(ctx)
}
