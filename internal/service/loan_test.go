package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
	"github.com/chanotai/library-lending/internal/repository"
	"github.com/chanotai/library-lending/internal/service"
	"github.com/chanotai/library-lending/pkg/auth"
)

// stockRepo models the serialized writes the storage layer performs: a borrow
// succeeds only while stock remains, a return flips the record once and
// restores the counter.
type stockRepo struct {
	repository.Repository

	mu   sync.Mutex
	qty  int
	next int
	open map[string]model.TransactionDetails
}

func (f *stockRepo) BorrowBook(_ context.Context, userID, bookID string, dueDate time.Time) (model.TransactionDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.qty == 0 {
		return model.TransactionDetails{}, errs.ErrOutOfStock
	}
	f.qty--
	f.next++
	details := model.TransactionDetails{
		Transaction: model.Transaction{
			ID:         fmt.Sprintf("t%d", f.next),
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: time.Now(),
			DueDate:    dueDate,
			Status:     model.StatusBorrowed,
		},
	}
	if f.open == nil {
		f.open = make(map[string]model.TransactionDetails)
	}
	f.open[details.ID] = details
	return details, nil
}

func (f *stockRepo) ReturnBook(_ context.Context, transactionID string) (model.TransactionDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	details, ok := f.open[transactionID]
	if !ok {
		return model.TransactionDetails{}, errs.ErrTxNotFound
	}
	if details.Status == model.StatusReturned {
		return model.TransactionDetails{}, errs.ErrAlreadyReturned
	}
	now := time.Now()
	details.Status = model.StatusReturned
	details.ReturnDate = &now
	f.open[transactionID] = details
	f.qty++
	return details, nil
}

// TestService_LendingLifecycle walks the contended-copy sequence end to end:
// with a single copy, the first borrow empties the stock, a second borrower is
// rejected while it is out, and the return restores the copy and stamps the
// record exactly once.
func TestService_LendingLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &stockRepo{qty: 1}
	svc := service.NewService(repo, service.Config{}, zap.NewNop())
	userA := auth.Identity{UserID: "userA", Username: "a", Role: "member"}

	// A takes the last copy
	borrowed, err := svc.Borrow(ctx, "userA", "b1")
	require.NoError(t, err)
	require.Equal(t, model.StatusBorrowed, borrowed.Status)
	require.Nil(t, borrowed.ReturnDate)
	require.Equal(t, 0, repo.qty)

	// B is rejected while the copy is out; stock stays at zero
	_, err = svc.Borrow(ctx, "userB", "b1")
	require.ErrorIs(t, err, errs.ErrOutOfStock)
	require.Equal(t, 0, repo.qty)

	// A returns: stock restored, record flipped and stamped
	returned, err := svc.Return(ctx, userA, borrowed.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	require.Equal(t, 1, repo.qty)

	// a second return of the same record is rejected without touching stock
	_, err = svc.Return(ctx, userA, borrowed.ID)
	require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	require.Equal(t, 1, repo.qty)

	// the copy is borrowable again
	_, err = svc.Borrow(ctx, "userB", "b1")
	require.NoError(t, err)
	require.Equal(t, 0, repo.qty)
}

func TestService_Borrow_Concurrent(t *testing.T) {
	t.Parallel()
	const callers = 16

	repo := &stockRepo{qty: 1}
	svc := service.NewService(repo, service.Config{}, zap.NewNop())

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		borrowed   int
		outOfStock int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Borrow(context.Background(), "u1", "b1")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				borrowed++
			case errors.Is(err, errs.ErrOutOfStock):
				outOfStock++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, borrowed)
	require.Equal(t, callers-1, outOfStock)
	require.Equal(t, 0, repo.qty)
}
