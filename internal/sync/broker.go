package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher pushes committed row changes onto the change stream.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// Source delivers a table's change feed to a subscriber. The returned cancel
// function releases the subscription; the channel closes afterwards.
type Source interface {
	Subscribe(ctx context.Context, table string) (<-chan ChangeEvent, func(), error)
}

// Broker is the redis-backed change stream, one pub/sub channel per table.
type Broker struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewBroker wraps a redis client as both Publisher and Source.
func NewBroker(client *redis.Client, channelPrefix string, logger *zap.Logger) *Broker {
	return &Broker{client: client, prefix: channelPrefix, logger: logger}
}

func (b *Broker) channel(table string) string {
	return b.prefix + table
}

// Publish sends the event to every subscriber of its table.
func (b *Broker) Publish(ctx context.Context, event ChangeEvent) error {
	if !KnownTable(event.Table) {
		return fmt.Errorf("sync: unknown table %q", event.Table)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel(event.Table), payload).Err()
}

// Subscribe opens the change feed for one table. Malformed payloads are logged
// and skipped rather than tearing down the feed.
func (b *Broker) Subscribe(ctx context.Context, table string) (<-chan ChangeEvent, func(), error) {
	if !KnownTable(table) {
		return nil, nil, fmt.Errorf("sync: unknown table %q", table)
	}

	pubsub := b.client.Subscribe(ctx, b.channel(table))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	events := make(chan ChangeEvent)
	done := make(chan struct{})

	go func() {
		defer close(events)
		messages := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warn("sync: dropping malformed change event",
						zap.String("table", table), zap.Error(err))
					continue
				}
				select {
				case events <- event:
				case <-done:
					return
				}
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = pubsub.Close()
	}
	return events, cancel, nil
}
