package broadcast

import (
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/AdeolaFaraday/guess-drawing-game-be/protocol"
	"github.com/AdeolaFaraday/guess-drawing-game-be/session"
)

// MockConnection records sends and can be made to fail.
type MockConnection struct {
	mutex sync.Mutex
	sent  []protocol.Event
	fail  bool
}

func (m *MockConnection) Send(ev protocol.Event) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.fail {
		return errors.New("write failed")
	}
	m.sent = append(m.sent, ev)
	return nil
}

func (m *MockConnection) Close() error         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr { return &net.TCPAddr{} }

func (m *MockConnection) sentCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.sent)
}

func addSession(manager *session.Manager, id, roomID string) (*session.Session, *MockConnection) {
	conn := &MockConnection{}
	sess := session.NewSession(id, conn)
	sess.SetRoom(roomID)
	manager.Add(sess)
	return sess, conn
}

func TestHub_BroadcastToRoom(t *testing.T) {
	manager := session.NewManager()
	hub := NewHub(manager)

	_, connA := addSession(manager, "a", "room1")
	_, connB := addSession(manager, "b", "room1")
	_, connC := addSession(manager, "c", "room2")

	hub.BroadcastToRoom("room1", protocol.Event{Type: "clear"})

	if connA.sentCount() != 1 || connB.sentCount() != 1 {
		t.Error("Every connection in the room should receive the event")
	}
	if connC.sentCount() != 0 {
		t.Error("Connections in other rooms must not receive the event")
	}
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	manager := session.NewManager()
	hub := NewHub(manager)

	_, connA := addSession(manager, "a", "room1")
	_, connB := addSession(manager, "b", "room1")

	hub.BroadcastToRoomExcept("room1", protocol.Event{Type: "segment"}, "a")

	if connA.sentCount() != 0 {
		t.Error("The excluded connection must not receive the event")
	}
	if connB.sentCount() != 1 {
		t.Error("The other connections should still receive the event")
	}
}

func TestHub_DeliveryFailureIsIsolated(t *testing.T) {
	manager := session.NewManager()
	hub := NewHub(manager)

	_, connA := addSession(manager, "a", "room1")
	connA.fail = true
	_, connB := addSession(manager, "b", "room1")
	_, connC := addSession(manager, "c", "room1")

	hub.BroadcastToRoom("room1", protocol.Event{Type: "usersUpdate"})

	if connB.sentCount() != 1 || connC.sentCount() != 1 {
		t.Error("A failed send to one connection must not block delivery to the others")
	}
}

func TestHub_Unicast(t *testing.T) {
	manager := session.NewManager()
	hub := NewHub(manager)

	sessA, connA := addSession(manager, "a", "room1")
	_, connB := addSession(manager, "b", "room1")

	hub.Unicast(sessA, protocol.Event{Type: "usersUpdate"})

	if connA.sentCount() != 1 {
		t.Error("Unicast should deliver to the target session")
	}
	if connB.sentCount() != 0 {
		t.Error("Unicast must not deliver to anyone else")
	}
}

func TestHub_PerConnectionOrdering(t *testing.T) {
	manager := session.NewManager()
	hub := NewHub(manager)

	_, conn := addSession(manager, "a", "room1")

	hub.BroadcastToRoom("room1", protocol.Event{Type: "first"})
	hub.BroadcastToRoom("room1", protocol.Event{Type: "second"})
	hub.BroadcastToRoom("room1", protocol.Event{Type: "third"})

	conn.mutex.Lock()
	defer conn.mutex.Unlock()
	for i, want := range []string{"first", "second", "third"} {
		if conn.sent[i].Type != want {
			t.Errorf("Expected event %d to be %s, got %s", i, want, conn.sent[i].Type)
		}
	}
}
