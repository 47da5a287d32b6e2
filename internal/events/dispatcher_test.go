package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var delivered []Event
	dispatcher.Subscribe(EventStaffRegistered, func(_ context.Context, event Event) error {
		delivered = append(delivered, event)
		return nil
	})
	dispatcher.Subscribe(EventAccountActivated, func(_ context.Context, event Event) error {
		t.Fatal("handler for another event type must not fire")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventStaffRegistered, Email: "a@b.c"})
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, "a@b.c", delivered[0].Email)
}

func TestDispatcher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var secondRan bool
	dispatcher.Subscribe(EventStaffRegistered, func(context.Context, Event) error {
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventStaffRegistered, func(context.Context, Event) error {
		secondRan = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventStaffRegistered})
	require.NoError(t, err)
	assert.True(t, secondRan)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventOperatorRegistered}))
}
