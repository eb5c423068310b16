package snapshot

import "context"

// Repository stores one snapshot per profile.
type Repository interface {
	// Load returns the stored snapshot, empty if the profile is new.
	Load(ctx context.Context, profile string) (*Snapshot, error)

	// Update runs fn on the current snapshot and stores the result.
	// Updates of the same profile are serialized, so read-compute-write
	// is atomic. If fn returns an error nothing is stored.
	Update(ctx context.Context, profile string, fn func(*Snapshot) error) error

	// Close releases any resources held by the repository.
	Close() error
}
