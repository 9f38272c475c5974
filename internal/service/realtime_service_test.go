package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRealtime() *RealtimeService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewRealtimeService(nil, log)
}

func TestNewChangeEventFlattensRecord(t *testing.T) {
	record := struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}{ID: "abc", Status: "pending"}

	event := NewChangeEvent("appointments", ActionInsert, "abc", record)

	assert.Equal(t, "appointments", event.Table)
	assert.Equal(t, ActionInsert, event.Action)
	assert.Equal(t, "abc", event.RecordID)
	assert.Equal(t, "pending", event.Payload["status"])
}

func TestNewChangeEventNilRecord(t *testing.T) {
	event := NewChangeEvent("appointments", ActionDelete, "abc", nil)
	assert.Nil(t, event.Payload)
}

func TestSubscribeReceivesMatchingEvents(t *testing.T) {
	svc := newTestRealtime()

	sub, err := svc.Subscribe("appointments", "")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	svc.dispatch(ChangeEvent{Table: "appointments", Action: ActionInsert, RecordID: "1"})
	svc.dispatch(ChangeEvent{Table: "notifications", Action: ActionInsert, RecordID: "2"})

	event := <-sub.Events()
	assert.Equal(t, "1", event.RecordID)

	select {
	case unexpected := <-sub.Events():
		t.Fatalf("received event for wrong table: %+v", unexpected)
	default:
	}
}

func TestSubscribeFilterByColumn(t *testing.T) {
	svc := newTestRealtime()
	patientID := uuid.New().String()

	sub, err := svc.Subscribe("notifications", "user_id="+patientID)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	svc.dispatch(ChangeEvent{
		Table:    "notifications",
		Action:   ActionInsert,
		RecordID: "mine",
		Payload:  map[string]interface{}{"user_id": patientID},
	})
	svc.dispatch(ChangeEvent{
		Table:    "notifications",
		Action:   ActionInsert,
		RecordID: "theirs",
		Payload:  map[string]interface{}{"user_id": uuid.New().String()},
	})
	svc.dispatch(ChangeEvent{
		Table:    "notifications",
		Action:   ActionInsert,
		RecordID: "no-payload",
	})

	event := <-sub.Events()
	assert.Equal(t, "mine", event.RecordID)

	select {
	case unexpected := <-sub.Events():
		t.Fatalf("filter let through event %q", unexpected.RecordID)
	default:
	}
}

func TestSubscribeRejectsMalformedFilter(t *testing.T) {
	svc := newTestRealtime()

	_, err := svc.Subscribe("notifications", "user_id")
	assert.Error(t, err)

	_, err = svc.Subscribe("notifications", "=value")
	assert.Error(t, err)

	_, err = svc.Subscribe("notifications", "column=")
	assert.Error(t, err)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	svc := newTestRealtime()

	sub, err := svc.Subscribe("appointments", "")
	require.NoError(t, err)

	sub.Unsubscribe()
	// Second call must not panic.
	sub.Unsubscribe()

	svc.dispatch(ChangeEvent{Table: "appointments", RecordID: "late"})

	_, open := <-sub.Events()
	assert.False(t, open)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	svc := newTestRealtime()

	sub, err := svc.Subscribe("appointments", "")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	for i := 0; i < subscriptionBuffer+10; i++ {
		svc.dispatch(ChangeEvent{Table: "appointments", RecordID: "evt"})
	}

	assert.Equal(t, subscriptionBuffer, len(sub.Events()))
}
