package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/chanotai/library-lending/internal/model"
)

// Stats aggregates the dashboard counters concurrently.
func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalBooks, err = s.repo.CountBooks(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalMembers, err = s.repo.CountMembers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveBorrows, err = s.repo.CountTransactions(ctx, model.StatusBorrowed)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalTransactions, err = s.repo.CountTransactions(ctx, "")
		return err
	})

	if err := g.Wait(); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}
