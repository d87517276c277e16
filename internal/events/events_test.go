package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishJSON(t *testing.T) {
	bus := NewEventBus()

	var got []BookingEventPayload
	bus.Subscribe(EventBookingConfirmed, func(event *Event) error {
		var payload BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		got = append(got, payload)
		return nil
	})

	err := bus.PublishJSON(EventBookingConfirmed, BookingEventPayload{BookingID: 42, RoomName: "Salle A"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].BookingID)
	assert.Equal(t, "Salle A", got[0].RoomName)
}

func TestEventBus_UnsubscribedTypeIgnored(t *testing.T) {
	bus := NewEventBus()

	called := false
	bus.Subscribe(EventBookingCancelled, func(event *Event) error {
		called = true
		return nil
	})

	require.NoError(t, bus.PublishJSON(EventBookingRescheduled, BookingEventPayload{BookingID: 1}))
	assert.False(t, called)
}

func TestEventBus_NilSafe(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingConfirmed, BookingEventPayload{}))
}
