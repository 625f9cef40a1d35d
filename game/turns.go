// game/turns.go
package game

import (
	"math/rand"

	"github.com/AdeolaFaraday/guess-drawing-game-be/room"
)

// Turn policies.
const (
	PolicyRoundRobin = "round_robin"
	PolicyRandom     = "random"
)

// nextDrawer selects the next drawer for the room per the configured
// policy. Returns "" only when the roster is empty. Caller holds the room
// mutex.
func (e *Engine) nextDrawer(r *room.Room) string {
	if e.cfg.TurnPolicy == PolicyRandom {
		return randomDrawer(r)
	}
	return roundRobinDrawer(r)
}

// randomDrawer samples uniformly from the current roster, independent of
// history.
func randomDrawer(r *room.Room) string {
	snapshot := r.Snapshot()
	if len(snapshot) == 0 {
		return ""
	}
	return snapshot[rand.Intn(len(snapshot))].ID
}

// roundRobinDrawer walks the turn order from the cursor, skipping IDs that
// have left the roster. The order is seeded from join order on first use;
// late joiners are appended by the join path. The scan is bounded by the
// roster size; if every scanned slot is stale it falls back to the earliest
// joiner still present and parks the cursor just past it.
func roundRobinDrawer(r *room.Room) string {
	if r.Len() == 0 {
		return ""
	}

	if len(r.TurnOrder) == 0 {
		for _, p := range r.Snapshot() {
			r.TurnOrder = append(r.TurnOrder, p.ID)
		}
	}

	for attempts := 0; attempts < r.Len(); attempts++ {
		r.TurnCursor %= len(r.TurnOrder)
		candidate := r.TurnOrder[r.TurnCursor]
		r.TurnCursor++
		if r.HasParticipant(candidate) {
			return candidate
		}
	}

	fallback := r.Snapshot()[0].ID
	for i, id := range r.TurnOrder {
		if id == fallback {
			r.TurnCursor = i + 1
			break
		}
	}
	return fallback
}
