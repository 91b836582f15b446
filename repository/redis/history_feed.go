package redis

import (
	"context"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/lifemap/diary/usecase"
)

type historyFeed struct {
	client *redislib.Client
	prefix string
}

// NewHistoryFeed creates a Redis pub/sub backed history-changed fanout.
func NewHistoryFeed(client *redislib.Client) usecase.HistoryFeed {
	return &historyFeed{
		client: client,
		prefix: "entries:",
	}
}

func (f *historyFeed) NotifyChanged(ctx context.Context, userID string) error {
	return f.client.Publish(ctx, f.channel(userID), "changed").Err()
}

func (f *historyFeed) Subscribe(ctx context.Context, userID string) (usecase.FeedSubscription, error) {
	pubsub := f.client.Subscribe(ctx, f.channel(userID))

	// Force the subscription onto the wire before reporting success.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &feedSubscription{
		pubsub:  pubsub,
		changes: make(chan struct{}, 1),
	}
	go sub.pump()
	return sub, nil
}

func (f *historyFeed) channel(userID string) string {
	return fmt.Sprintf("%s%s", f.prefix, userID)
}

type feedSubscription struct {
	pubsub  *redislib.PubSub
	changes chan struct{}
}

func (s *feedSubscription) Changes() <-chan struct{} {
	return s.changes
}

func (s *feedSubscription) Close() error {
	return s.pubsub.Close()
}

// pump collapses the message stream into change ticks. A tick is dropped when
// the subscriber has not consumed the previous one yet; the snapshot requery
// covers both signals anyway.
func (s *feedSubscription) pump() {
	defer close(s.changes)
	for range s.pubsub.Channel() {
		select {
		case s.changes <- struct{}{}:
		default:
		}
	}
}
