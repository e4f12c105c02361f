package service

import (
	"context"

	"deltajournal-backend/models"

	"golang.org/x/sync/errgroup"
)

// LoadSnapshot fetches entries, profile, and quests concurrently. It returns
// only when all three have loaded; the first failure cancels the others.
func LoadSnapshot(ctx context.Context, data DataService) (*models.JournalSnapshot, error) {
	g, ctx := errgroup.WithContext(ctx)
	snap := &models.JournalSnapshot{Remote: data.IsRemote()}

	g.Go(func() error {
		entries, err := data.GetEntries(ctx)
		snap.Entries = entries
		return err
	})
	g.Go(func() error {
		profile, err := data.GetProfile(ctx)
		snap.Profile = profile
		return err
	})
	g.Go(func() error {
		quests, err := data.GetQuests(ctx)
		snap.Quests = quests
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
