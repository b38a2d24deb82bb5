package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_SubscribeAndPublish(t *testing.T) {
	bus := NewEventBus()

	received := []Event{}
	unsubscribe := bus.Subscribe(ExpenseCreatedType, func(e Event) error {
		received = append(received, e)
		return nil
	})
	defer unsubscribe()

	err := bus.Publish(NewEvent(context.Background(), ExpenseCreatedType, ExpenseChanged{Id: 1}))

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, ExpenseCreatedType, received[0].Type)
	assert.Equal(t, int64(1), received[0].Data.(ExpenseChanged).Id)
}

func TestEventBus_PublishToOtherTypeNotDelivered(t *testing.T) {
	bus := NewEventBus()

	delivered := false
	unsubscribe := bus.Subscribe(ExpenseDeletedType, func(e Event) error {
		delivered = true
		return nil
	})
	defer unsubscribe()

	err := bus.Publish(NewEvent(context.Background(), ExpenseCreatedType, ExpenseChanged{Id: 1}))

	require.NoError(t, err)
	assert.False(t, delivered)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()

	deliveries := 0
	unsubscribe := bus.Subscribe(ExpenseUpdatedType, func(e Event) error {
		deliveries++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), ExpenseUpdatedType, ExpenseChanged{Id: 2})))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), ExpenseUpdatedType, ExpenseChanged{Id: 2})))

	assert.Equal(t, 1, deliveries)
}

func TestEventBus_SubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	var received []ExpenseChanged
	unsubscribe := SubscribeTyped[ExpenseChanged](bus, ExpenseCreatedType, func(e EventT[ExpenseChanged]) error {
		received = append(received, e.Data)
		return nil
	})
	defer unsubscribe()

	// Payload of the wrong type is skipped, not an error.
	require.NoError(t, bus.Publish(NewEvent(context.Background(), ExpenseCreatedType, "not a change")))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), ExpenseCreatedType, ExpenseChanged{Id: 7})))

	require.Len(t, received, 1)
	assert.Equal(t, int64(7), received[0].Id)
}

func TestEventBus_HandlerErrorsAreCollected(t *testing.T) {
	bus := NewEventBus()

	secondCalled := false
	unsub1 := bus.Subscribe(ExpenseCreatedType, func(e Event) error {
		return errors.New("boom")
	})
	defer unsub1()
	unsub2 := bus.Subscribe(ExpenseCreatedType, func(e Event) error {
		secondCalled = true
		return nil
	})
	defer unsub2()

	err := bus.Publish(NewEvent(context.Background(), ExpenseCreatedType, ExpenseChanged{Id: 3}))

	assert.Error(t, err)
	assert.True(t, secondCalled)
}

func TestEventBus_CancelledContextStopsPublish(t *testing.T) {
	bus := NewEventBus()

	called := false
	unsubscribe := bus.Subscribe(ExpenseCreatedType, func(e Event) error {
		called = true
		return nil
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, ExpenseCreatedType, ExpenseChanged{Id: 4}))

	assert.Error(t, err)
	assert.False(t, called)
}
