// room/room.go
package room

import (
	"sync"
	"time"
)

// DefaultRoomID is used when a client connects without naming a room.
const DefaultRoomID = "default"

// Participant is one connected player inside a room. The ID is the
// connection-scoped session identifier, unique per connection, not per
// person. Points only ever grow for the lifetime of the room.
type Participant struct {
	ID       string
	Name     string
	Points   int
	JoinedAt time.Time
}

// GameState is the per-room round state. A non-empty CurrentWord implies a
// non-empty CurrentDrawer.
type GameState struct {
	CurrentDrawer  string
	CurrentWord    string
	Started        bool
	RoundStartedAt time.Time
	TimerExpiresAt time.Time
}

// Room owns everything scoped to one game session: the roster, the round
// state, the turn rotation and the set of participants who already guessed
// this round. All mutable fields are guarded by Mu; every mutating engine
// operation holds it for its whole duration (single writer per room).
type Room struct {
	ID        string
	CreatedAt time.Time

	Mu sync.Mutex

	participants map[string]*Participant
	joinOrder    []string

	Game       GameState
	TurnOrder  []string
	TurnCursor int
	Guessed    map[string]int // participant ID -> scoring rank this round
}

func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		CreatedAt:    time.Now(),
		participants: make(map[string]*Participant),
		Guessed:      make(map[string]int),
	}
}

// AddParticipant inserts p into the roster and reports whether the roster
// was empty beforehand. Caller holds Mu.
func (r *Room) AddParticipant(p *Participant) bool {
	wasEmpty := len(r.participants) == 0
	if _, exists := r.participants[p.ID]; !exists {
		r.joinOrder = append(r.joinOrder, p.ID)
	}
	r.participants[p.ID] = p
	return wasEmpty
}

// RemoveParticipant deletes the participant and reports whether it was
// present. Caller holds Mu; the cascade on an emptied room (timer cancel,
// registry removal) is driven by the engine.
func (r *Room) RemoveParticipant(id string) bool {
	if _, exists := r.participants[id]; !exists {
		return false
	}
	delete(r.participants, id)
	for i, pid := range r.joinOrder {
		if pid == id {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}
	return true
}

// GetParticipant returns the participant with the given ID. Caller holds Mu.
func (r *Room) GetParticipant(id string) (*Participant, bool) {
	p, exists := r.participants[id]
	return p, exists
}

// HasParticipant reports roster membership. Caller holds Mu.
func (r *Room) HasParticipant(id string) bool {
	_, exists := r.participants[id]
	return exists
}

// Len returns the roster size. Caller holds Mu.
func (r *Room) Len() int {
	return len(r.participants)
}

// Snapshot returns the roster in join order. Caller holds Mu; the returned
// slice is a copy and safe to hand to the broadcast layer.
func (r *Room) Snapshot() []*Participant {
	out := make([]*Participant, 0, len(r.participants))
	for _, id := range r.joinOrder {
		if p, exists := r.participants[id]; exists {
			out = append(out, p)
		}
	}
	return out
}

// Creator returns the ID of the earliest joiner still present, the only
// participant allowed to start the game. Empty when the roster is empty.
// Caller holds Mu.
func (r *Room) Creator() string {
	if len(r.joinOrder) == 0 {
		return ""
	}
	return r.joinOrder[0]
}

// ClearGuessed resets the correct-guesser set for a new round. Caller
// holds Mu.
func (r *Room) ClearGuessed() {
	r.Guessed = make(map[string]int)
}

// Registry is the single source of truth for which rooms exist. Rooms are
// created lazily on first join and removed when their roster empties.
type Registry struct {
	rooms map[string]*Room
	mutex sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Ensure returns the room with the given ID, creating it if absent.
func (reg *Registry) Ensure(id string) *Room {
	reg.mutex.RLock()
	r, exists := reg.rooms[id]
	reg.mutex.RUnlock()
	if exists {
		return r
	}

	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	if r, exists = reg.rooms[id]; exists {
		return r
	}
	r = NewRoom(id)
	reg.rooms[id] = r
	return r
}

// Get returns the room with the given ID.
func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()
	r, exists := reg.rooms[id]
	return r, exists
}

// Remove deletes the room from the registry. Per-room cleanup (timers) is
// the caller's job.
func (reg *Registry) Remove(id string) {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	delete(reg.rooms, id)
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()
	return len(reg.rooms)
}
