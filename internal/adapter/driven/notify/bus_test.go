package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danovak/bookmarkhub/internal/domain/model"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe("bookmarks")
	defer unsub()

	change := model.Change{Table: "bookmarks", Op: model.ChangeInsert, RecordID: "bm-1", UserID: "user-1"}
	require.NoError(t, bus.Publish(context.Background(), change))

	select {
	case got := <-ch:
		assert.Equal(t, change, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestBus_TableScoped(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe("bookmarks")
	defer unsub()

	require.NoError(t, bus.Publish(context.Background(), model.Change{Table: "other", Op: model.ChangeInsert, RecordID: "x"}))

	select {
	case got := <-ch:
		t.Fatalf("received change for wrong table: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe("bookmarks")

	unsub()
	unsub() // idempotent

	_, open := <-ch
	assert.False(t, open, "channel should be closed after unsubscribe")

	// Publishing after unsubscribe must not panic or block.
	require.NoError(t, bus.Publish(context.Background(), model.Change{Table: "bookmarks", Op: model.ChangeDelete, RecordID: "bm-1"}))
}

func TestBus_SlowConsumerDoesNotBlockPublisher(t *testing.T) {
	bus := NewBus()
	_, unsub := bus.Subscribe("bookmarks")
	defer unsub()

	// Nobody drains the channel; publishing past the buffer must still return.
	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, bus.Publish(context.Background(), model.Change{Table: "bookmarks", Op: model.ChangeUpdate, RecordID: "bm-1"}))
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()
	a, unsubA := bus.Subscribe("bookmarks")
	defer unsubA()
	b, unsubB := bus.Subscribe("bookmarks")
	defer unsubB()

	require.NoError(t, bus.Publish(context.Background(), model.Change{Table: "bookmarks", Op: model.ChangeInsert, RecordID: "bm-1"}))

	for _, ch := range []<-chan model.Change{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, "bm-1", got.RecordID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for change event")
		}
	}
}
