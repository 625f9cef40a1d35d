package room

import (
	"testing"
	"time"
)

func newTestParticipant(id string) *Participant {
	return &Participant{ID: id, Name: "user-" + id, JoinedAt: time.Now()}
}

func TestRegistry_EnsureAndGet(t *testing.T) {
	registry := NewRegistry()

	roomID := "test_room_1"
	r := registry.Ensure(roomID)
	if r == nil {
		t.Fatal("Ensure should not return nil")
	}
	if r.ID != roomID {
		t.Errorf("Expected room ID %s, got %s", roomID, r.ID)
	}

	again := registry.Ensure(roomID)
	if again != r {
		t.Error("Ensure should return the same room instance on repeat calls")
	}

	retrieved, exists := registry.Get(roomID)
	if !exists {
		t.Fatal("Get should find the created room")
	}
	if retrieved != r {
		t.Error("Get should return the same room instance")
	}

	if registry.Count() != 1 {
		t.Errorf("Expected room count to be 1, got %d", registry.Count())
	}
}

func TestRegistry_Remove(t *testing.T) {
	registry := NewRegistry()
	registry.Ensure("gone")
	registry.Remove("gone")

	if _, exists := registry.Get("gone"); exists {
		t.Error("Get should not find a removed room")
	}
	if registry.Count() != 0 {
		t.Errorf("Expected room count to be 0, got %d", registry.Count())
	}
}

func TestRoom_AddParticipant(t *testing.T) {
	r := NewRoom("test_room_2")

	wasEmpty := r.AddParticipant(newTestParticipant("p1"))
	if !wasEmpty {
		t.Error("First add should report the roster was empty")
	}

	wasEmpty = r.AddParticipant(newTestParticipant("p2"))
	if wasEmpty {
		t.Error("Second add should report the roster was not empty")
	}

	if r.Len() != 2 {
		t.Errorf("Expected participant count to be 2, got %d", r.Len())
	}
	if !r.HasParticipant("p1") || !r.HasParticipant("p2") {
		t.Error("Both participants should be present")
	}
}

func TestRoom_SnapshotJoinOrder(t *testing.T) {
	r := NewRoom("test_room_3")
	for _, id := range []string{"c", "a", "b"} {
		r.AddParticipant(newTestParticipant(id))
	}

	snapshot := r.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("Expected snapshot of 3 participants, got %d", len(snapshot))
	}
	for i, want := range []string{"c", "a", "b"} {
		if snapshot[i].ID != want {
			t.Errorf("Expected snapshot[%d] to be %s, got %s", i, want, snapshot[i].ID)
		}
	}

	if r.Creator() != "c" {
		t.Errorf("Expected creator to be the earliest joiner c, got %s", r.Creator())
	}
}

func TestRoom_RemoveParticipant(t *testing.T) {
	r := NewRoom("test_room_4")
	r.AddParticipant(newTestParticipant("p1"))
	r.AddParticipant(newTestParticipant("p2"))

	if !r.RemoveParticipant("p1") {
		t.Fatal("RemoveParticipant should report a present participant as removed")
	}
	if r.RemoveParticipant("p1") {
		t.Error("Removing the same participant twice should report absence")
	}

	if r.Len() != 1 {
		t.Errorf("Expected participant count to be 1 after removal, got %d", r.Len())
	}
	if r.Creator() != "p2" {
		t.Errorf("Expected creator to move to p2, got %s", r.Creator())
	}

	snapshot := r.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID != "p2" {
		t.Error("Snapshot should only contain the remaining participant")
	}
}

func TestRoom_ClearGuessed(t *testing.T) {
	r := NewRoom("test_room_5")
	r.Guessed["p1"] = 1
	r.Guessed["p2"] = 2

	r.ClearGuessed()

	if len(r.Guessed) != 0 {
		t.Errorf("Expected guessed set to be empty after clear, got %d entries", len(r.Guessed))
	}
}
