// broadcast/broadcast.go
package broadcast

import (
	"github.com/AdeolaFaraday/guess-drawing-game-be/logger"
	"github.com/AdeolaFaraday/guess-drawing-game-be/protocol"
	"github.com/AdeolaFaraday/guess-drawing-game-be/session"
)

// Hub fans events out to every connection associated with a room. Room
// membership is resolved through the session manager, never through room
// state, so the hub is safe to call while a room mutex is held.
//
// Delivery is fire and forget: a failed write to one connection is logged
// and skipped without affecting the others. Per-connection ordering follows
// call order because each connection serializes its own writes.
type Hub struct {
	sessionManager *session.Manager
}

func NewHub(sessionManager *session.Manager) *Hub {
	return &Hub{sessionManager: sessionManager}
}

// BroadcastToRoom delivers ev to every connection in the room.
func (h *Hub) BroadcastToRoom(roomID string, ev protocol.Event) {
	h.BroadcastToRoomExcept(roomID, ev, "")
}

// BroadcastToRoomExcept delivers ev to every connection in the room except
// the session with excludeID. An empty excludeID excludes nobody.
func (h *Hub) BroadcastToRoomExcept(roomID string, ev protocol.Event, excludeID string) {
	for _, s := range h.sessionManager.GetByRoom(roomID) {
		if s.ID == excludeID {
			continue
		}
		if err := s.Send(ev); err != nil {
			logger.Log.Warnf("broadcast %s to session %s in room %s failed: %v",
				ev.Type, s.ID, roomID, err)
			continue
		}
	}
}

// Unicast delivers ev to exactly one session.
func (h *Hub) Unicast(s *session.Session, ev protocol.Event) {
	if err := s.Send(ev); err != nil {
		logger.Log.Warnf("unicast %s to session %s failed: %v", ev.Type, s.ID, err)
	}
}
