// game/interfaces.go
package game

import (
	"github.com/AdeolaFaraday/guess-drawing-game-be/protocol"
	"github.com/AdeolaFaraday/guess-drawing-game-be/session"
)

// Broadcaster is the engine's only outbound surface. Defined here rather
// than in the broadcast package so the engine depends on the contract, not
// the hub, and tests can swap in a recorder.
type Broadcaster interface {
	BroadcastToRoom(roomID string, ev protocol.Event)
	BroadcastToRoomExcept(roomID string, ev protocol.Event, excludeID string)
	Unicast(s *session.Session, ev protocol.Event)
}
