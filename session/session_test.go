package session

import (
	"net"
	"testing"

	"github.com/AdeolaFaraday/guess-drawing-game-be/protocol"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(ev protocol.Event) error { return nil }
func (m *MockConnection) Close() error                 { return nil }
func (m *MockConnection) RemoteAddr() net.Addr         { return &net.TCPAddr{} }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if len(manager.sessions) != 1 {
		t.Fatalf("Expected session count to be 1, got %d", len(manager.sessions))
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if len(manager.sessions) != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", len(manager.sessions))
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByRoom(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.SetRoom("room_a")

	sess2 := NewSession("session2", &MockConnection{})
	sess2.SetRoom("room_b")

	sess3 := NewSession("session3", &MockConnection{})
	sess3.SetRoom("room_a")

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	roomASessions := manager.GetByRoom("room_a")
	if len(roomASessions) != 2 {
		t.Errorf("Expected 2 sessions for room_a, got %d", len(roomASessions))
	}

	roomBSessions := manager.GetByRoom("room_b")
	if len(roomBSessions) != 1 {
		t.Errorf("Expected 1 session for room_b, got %d", len(roomBSessions))
	}

	roomCSessions := manager.GetByRoom("room_c")
	if len(roomCSessions) != 0 {
		t.Errorf("Expected 0 sessions for room_c, got %d", len(roomCSessions))
	}

	// Clearing the association takes the session out of the room's view.
	sess3.SetRoom("")
	roomASessions = manager.GetByRoom("room_a")
	if len(roomASessions) != 1 {
		t.Errorf("Expected 1 session for room_a after clearing, got %d", len(roomASessions))
	}
}

func TestSession_NameAndRoom(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})

	if sess.Name() != "" {
		t.Errorf("Expected empty name on a fresh session, got %q", sess.Name())
	}

	sess.SetName("alice")
	if sess.Name() != "alice" {
		t.Errorf("Expected name alice, got %q", sess.Name())
	}

	sess.SetRoom("room_x")
	if sess.Room() != "room_x" {
		t.Errorf("Expected room room_x, got %q", sess.Room())
	}
}

func TestSession_Touch(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	before := sess.LastActive()

	sess.Touch()

	if sess.LastActive().Before(before) {
		t.Error("Touch should never move LastActive backwards")
	}
}
