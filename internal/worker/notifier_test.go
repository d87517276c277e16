package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roomdesk/internal/events"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier(t *testing.T) {
	var received events.BookingEventPayload
	var eventHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventHeader = r.Header.Get("X-Event-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	payload := events.BookingEventPayload{BookingID: 42, RoomName: "Salle A"}

	err := n.Notify(context.Background(), events.EventBookingConfirmed, payload)
	require.NoError(t, err)
	assert.Equal(t, events.EventBookingConfirmed, eventHeader)
	assert.Equal(t, int64(42), received.BookingID)
	assert.Equal(t, "Salle A", received.RoomName)
}

func TestWebhookNotifier_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.Notify(context.Background(), events.EventBookingConfirmed, events.BookingEventPayload{BookingID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestLogNotifier(t *testing.T) {
	logger := zerolog.Nop()
	n := NewLogNotifier(&logger)
	err := n.Notify(context.Background(), events.EventBookingCancelled, events.BookingEventPayload{BookingID: 1})
	assert.NoError(t, err)
}
