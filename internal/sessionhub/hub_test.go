package sessionhub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Mimesse/fit-coach-hub/internal/models"
)

func waitForPayload(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case payload := <-client.Receive():
		return payload
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for an event on client %s", client.UserID())
		return nil
	}
}

func TestBroadcastReachesEveryDeviceOfTheUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	laptop := NewClient(hub, nil, "7")
	phone := NewClient(hub, nil, "7")
	other := NewClient(hub, nil, "8")
	hub.Register(laptop)
	hub.Register(phone)
	hub.Register(other)

	hub.Broadcast(NewEvent(models.SessionEventSignedIn, models.SessionSnapshot{
		UserID: "7",
		Email:  "ana@example.com",
		Role:   models.RoleStudent,
	}))

	for _, client := range []*Client{laptop, phone} {
		var event Event
		if err := json.Unmarshal(waitForPayload(t, client), &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.Type != models.SessionEventSignedIn {
			t.Errorf("expected signed_in, got %q", event.Type)
		}
		if event.Session.Email != "ana@example.com" {
			t.Errorf("expected the full snapshot, got %+v", event.Session)
		}
		if event.Timestamp == "" {
			t.Errorf("expected a timestamp on the event")
		}
	}

	select {
	case payload := <-other.Receive():
		t.Errorf("client of another user received %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterClosesTheClientChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient(hub, nil, "7")
	hub.Register(client)
	hub.Unregister(client)

	select {
	case _, open := <-client.Receive():
		if open {
			t.Errorf("expected the channel closed, got a payload")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for the channel to close")
	}

	// Delivery to a user with no clients left must not panic.
	hub.Broadcast(NewEvent(models.SessionEventSignedOut, models.SessionSnapshot{UserID: "7"}))
}

func TestStopClosesEveryClient(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	client := NewClient(hub, nil, "7")
	hub.Register(client)
	hub.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after Stop")
	}

	select {
	case _, open := <-client.Receive():
		if open {
			t.Errorf("expected the channel closed, got a payload")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for the channel to close")
	}
}
