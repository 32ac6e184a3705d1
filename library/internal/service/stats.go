package service

import (
	"context"

	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"golang.org/x/sync/errgroup"
)

func (s *Service) Statistics(ctx context.Context) (model.Statistics, error) {
	var st model.Statistics
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalBooks, err = s.repo.CountBooks(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.TotalStudents, err = s.repo.CountUsers(ctx, auth.RoleStudent)
		return err
	})
	g.Go(func() (err error) {
		st.IssuedBooks, err = s.repo.CountRequests(ctx, model.StatusApproved)
		return err
	})
	g.Go(func() (err error) {
		st.PendingRequests, err = s.repo.CountRequests(ctx, model.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		st.ReturnedRequests, err = s.repo.CountRequests(ctx, model.StatusReturned)
		return err
	})
	g.Go(func() (err error) {
		st.ActiveLoans, err = s.repo.CountLoans(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Statistics{}, err
	}
	return st, nil
}
