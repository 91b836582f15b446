package usecase

import "context"

// HistoryFeed abstracts the fanout that tells live history views to requery.
// The feed never carries entry data, only a changed signal: subscribers
// rebuild their view from a fresh snapshot of the store, so there is nothing
// to merge or diff.
type HistoryFeed interface {
	// NotifyChanged signals that the user's entry history changed.
	NotifyChanged(ctx context.Context, userID string) error

	// Subscribe starts listening for the user's change signals. Replacing a
	// subscription means closing the previous one first.
	Subscribe(ctx context.Context, userID string) (FeedSubscription, error)
}

// FeedSubscription is one live listener on a user's history signal.
type FeedSubscription interface {
	// Changes yields one value per change signal. The channel closes when the
	// subscription is closed or the backing connection drops.
	Changes() <-chan struct{}
	Close() error
}
