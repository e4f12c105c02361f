package service

import (
	"context"
	"time"

	"deltajournal-backend/config"
	"deltajournal-backend/models"
	"deltajournal-backend/storage"

	"github.com/google/uuid"
)

// DataService is the journal persistence API. Callers never know which backend is active.
type DataService interface {
	GetEntries(ctx context.Context) (map[string]models.EmotionEntry, error)
	SaveEntry(ctx context.Context, entry models.EmotionEntry) (*models.EmotionEntry, error)
	DeleteEntry(ctx context.Context, date string) error

	GetProfile(ctx context.Context) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error)

	GetQuests(ctx context.Context) ([]models.Quest, error)
	AddQuest(ctx context.Context, text string) (*models.Quest, error)
	UpdateQuestStatus(ctx context.Context, id string, completed bool) (*models.Quest, error)
	DeleteQuest(ctx context.Context, id string) error

	AddLead(ctx context.Context, email string) error

	// IsRemote reports whether the remote backend is active
	IsRemote() bool
}

// IsRemoteConfigured reports whether the remote backend should be selected
func IsRemoteConfigured(cfg config.RemoteConfig) bool {
	return cfg.Configured()
}

type dataServiceOptions struct {
	blobs  storage.Storage
	stores RemoteStores
	now    func() time.Time
	newID  func() string
}

// DataServiceOption is a functional option for NewDataService
type DataServiceOption func(*dataServiceOptions)

// WithBlobStorage sets the blob store backing the local adapter
func WithBlobStorage(s storage.Storage) DataServiceOption {
	return func(o *dataServiceOptions) {
		o.blobs = s
	}
}

// WithRemoteStores sets the table stores backing the remote adapter
func WithRemoteStores(stores RemoteStores) DataServiceOption {
	return func(o *dataServiceOptions) {
		o.stores = stores
	}
}

// WithClock overrides the time source used for quest timestamps
func WithClock(now func() time.Time) DataServiceOption {
	return func(o *dataServiceOptions) {
		o.now = now
	}
}

// WithIDGenerator overrides how local quest ids are minted
func WithIDGenerator(newID func() string) DataServiceOption {
	return func(o *dataServiceOptions) {
		o.newID = newID
	}
}

// NewDataService picks the remote adapter when cfg is configured and the local
// adapter otherwise. The choice is fixed for the life of the returned value.
func NewDataService(cfg config.RemoteConfig, opts ...DataServiceOption) DataService {
	o := &dataServiceOptions{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}

	if IsRemoteConfigured(cfg) {
		return NewRemoteDataService(o.stores)
	}
	return NewLocalDataService(o.blobs, o.now, o.newID)
}
