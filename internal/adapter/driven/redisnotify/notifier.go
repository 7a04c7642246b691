// Package redisnotify implements the change notification channel on Redis
// pub/sub, so multiple app instances sharing one Redis see each other's
// writes and their dashboards converge without polling.
package redisnotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danovak/bookmarkhub/internal/domain/model"
	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ChangeNotifier = (*Notifier)(nil)

// channelPrefix namespaces change channels so a shared Redis can serve other
// applications.
const channelPrefix = "bookmarkhub:changes:"

// Notifier publishes change events to a Redis channel per table and pumps
// subscriptions back into Go channels.
type Notifier struct {
	client *redis.Client
	logger *slog.Logger
}

// New connects to Redis at addr and verifies the connection with a ping.
func New(ctx context.Context, addr string, logger *slog.Logger) (*Notifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	logger.Info("connected to redis", "addr", addr)
	return &Notifier{client: client, logger: logger}, nil
}

// NewWithClient wraps an existing Redis client. Intended for tests.
func NewWithClient(client *redis.Client, logger *slog.Logger) *Notifier {
	return &Notifier{client: client, logger: logger}
}

// Publish broadcasts the change as JSON on the table's channel.
func (n *Notifier) Publish(ctx context.Context, ch model.Change) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	if err := n.client.Publish(ctx, channelPrefix+ch.Table, payload).Err(); err != nil {
		return fmt.Errorf("publish change for table %s: %w", ch.Table, err)
	}
	return nil
}

// Subscribe opens a Redis subscription for the table's channel and pumps
// decoded events into the returned Go channel until unsubscribed. Malformed
// payloads are logged and skipped.
func (n *Notifier) Subscribe(table string) (<-chan model.Change, func()) {
	pubsub := n.client.Subscribe(context.Background(), channelPrefix+table)

	out := make(chan model.Change, 16)
	done := make(chan struct{})

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ch model.Change
				if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
					n.logger.Warn("dropping malformed change payload", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- ch:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := pubsub.Close(); err != nil {
				n.logger.Warn("closing redis subscription", "table", table, "error", err)
			}
		})
	}

	return out, unsubscribe
}

// Close releases the underlying Redis client.
func (n *Notifier) Close() error {
	return n.client.Close()
}
