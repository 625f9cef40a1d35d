// game/engine.go
package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AdeolaFaraday/guess-drawing-game-be/logger"
	"github.com/AdeolaFaraday/guess-drawing-game-be/models"
	"github.com/AdeolaFaraday/guess-drawing-game-be/monitor"
	"github.com/AdeolaFaraday/guess-drawing-game-be/protocol"
	"github.com/AdeolaFaraday/guess-drawing-game-be/room"
	"github.com/AdeolaFaraday/guess-drawing-game-be/services"
	"github.com/AdeolaFaraday/guess-drawing-game-be/session"
	"github.com/AdeolaFaraday/guess-drawing-game-be/timer"
)

// Config holds the tunable game constants.
type Config struct {
	// RoundSeconds is the countdown started when the drawer picks a word.
	RoundSeconds int
	// TurnPolicy is PolicyRoundRobin or PolicyRandom.
	TurnPolicy string
}

// Engine is the transport-facing facade over rooms, turns, scoring, timers
// and broadcast. Both transport bindings decode their frames into protocol
// variants and hand them to Dispatch; nothing below the engine ever calls
// back into a transport.
//
// Every mutating operation locks the target room for its whole duration,
// broadcasts included, so per-room state only ever has one writer. Rooms
// are independent and run concurrently.
type Engine struct {
	cfg     Config
	rooms   *room.Registry
	hub     Broadcaster
	timers  *timer.Manager
	history *services.HistoryService
	metrics *monitor.Monitor
}

// NewEngine wires the engine. history and metrics may be nil.
func NewEngine(cfg Config, rooms *room.Registry, hub Broadcaster, timers *timer.Manager,
	history *services.HistoryService, metrics *monitor.Monitor) *Engine {
	if cfg.RoundSeconds <= 0 {
		cfg.RoundSeconds = 60
	}
	if cfg.TurnPolicy == "" {
		cfg.TurnPolicy = PolicyRoundRobin
	}
	return &Engine{
		cfg:     cfg,
		rooms:   rooms,
		hub:     hub,
		timers:  timers,
		history: history,
		metrics: metrics,
	}
}

// Rooms exposes the registry for read-side callers (metrics, history RPC).
func (e *Engine) Rooms() *room.Registry {
	return e.rooms
}

// Dispatch routes one decoded inbound event to its operation. Unknown
// variants are logged and dropped; nothing in here can take a room down.
func (e *Engine) Dispatch(sess *session.Session, ev interface{}) {
	start := time.Now()
	if e.metrics != nil {
		e.metrics.IncEventsReceived()
	}

	switch ev := ev.(type) {
	case protocol.JoinEvent:
		e.Join(sess, ev)
	case protocol.SegmentEvent:
		e.Segment(sess, ev)
	case protocol.ClearEvent:
		e.Clear(sess)
	case protocol.CursorEvent:
		e.Cursor(sess, ev)
	case protocol.WordSelectEvent:
		e.WordSelect(sess, ev)
	case protocol.GameStartEvent:
		e.GameStart(sess)
	case protocol.ChatEvent:
		e.Chat(sess, ev)
	default:
		logger.Log.Warnf("unhandled event %T from session %s", ev, sess.ID)
	}

	if e.metrics != nil {
		e.metrics.ObserveEventLatency(time.Since(start))
	}
}

// Join registers the session in a room, creating the room on first join.
// The joiner gets the roster snapshot; everyone else gets userJoined. A
// session already in a room stays where it is.
func (e *Engine) Join(sess *session.Session, ev protocol.JoinEvent) {
	if sess.Room() != "" {
		logger.Log.Debugf("session %s sent join while already in room %s", sess.ID, sess.Room())
		return
	}

	roomID := ev.Room
	if roomID == "" {
		roomID = room.DefaultRoomID
	}
	name := strings.TrimSpace(ev.UserName)
	if name == "" {
		name = generatedName(sess.ID)
	}

	r := e.lockRoom(roomID)
	defer r.Mu.Unlock()

	sess.SetName(name)
	sess.SetRoom(roomID)

	p := &room.Participant{ID: sess.ID, Name: name, JoinedAt: time.Now()}
	wasEmpty := r.AddParticipant(p)
	if !wasEmpty && len(r.TurnOrder) > 0 {
		r.TurnOrder = append(r.TurnOrder, sess.ID)
	}

	e.hub.Unicast(sess, usersUpdateEvent(r.Snapshot()))
	e.hub.BroadcastToRoomExcept(roomID, protocol.Event{
		Type: protocol.MsgTypeUserJoined,
		Data: protocol.User{ID: p.ID, Name: p.Name, Points: p.Points},
	}, sess.ID)

	logger.Log.Infof("session %s joined room %s as %q", sess.ID, roomID, name)
	e.updateRoomGauge()
}

// Leave removes the session from its room. The last participant out purges
// the whole room, active timer included; otherwise the rest learn about the
// departure, and a departing drawer hands the turn on immediately.
func (e *Engine) Leave(sess *session.Session) {
	roomID := sess.Room()
	if roomID == "" {
		return
	}
	sess.SetRoom("")

	r, exists := e.rooms.Get(roomID)
	if !exists {
		return
	}
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if !r.RemoveParticipant(sess.ID) {
		return
	}
	logger.Log.Infof("session %s left room %s", sess.ID, roomID)

	if r.Len() == 0 {
		e.timers.Cancel(roomID)
		e.rooms.Remove(roomID)
		logger.Log.Infof("room %s emptied, state purged", roomID)
		e.updateRoomGauge()
		return
	}

	e.hub.BroadcastToRoom(roomID, protocol.Event{
		Type: protocol.MsgTypeUserLeft,
		Data: protocol.UserLeft{ID: sess.ID},
	})
	e.hub.BroadcastToRoom(roomID, usersUpdateEvent(r.Snapshot()))

	if r.Game.Started && r.Game.CurrentDrawer == sess.ID {
		e.startNewTurn(r)
	}
	e.updateRoomGauge()
}

// Segment relays one drawing stroke to the rest of the room, verbatim.
func (e *Engine) Segment(sess *session.Session, ev protocol.SegmentEvent) {
	roomID := sess.Room()
	if roomID == "" {
		return
	}
	e.hub.BroadcastToRoomExcept(roomID, protocol.Event{
		Type: protocol.MsgTypeSegment,
		Data: ev.Raw,
	}, sess.ID)
}

// Clear relays the canvas-clear signal to the rest of the room.
func (e *Engine) Clear(sess *session.Session) {
	roomID := sess.Room()
	if roomID == "" {
		return
	}
	e.hub.BroadcastToRoomExcept(roomID, protocol.Event{
		Type: protocol.MsgTypeClear,
	}, sess.ID)
}

// Cursor relays the sender's cursor position, stamped with their ID.
func (e *Engine) Cursor(sess *session.Session, ev protocol.CursorEvent) {
	roomID := sess.Room()
	if roomID == "" {
		return
	}
	e.hub.BroadcastToRoomExcept(roomID, protocol.Event{
		Type: protocol.MsgTypeCursor,
		Data: protocol.CursorUpdate{ID: sess.ID, X: ev.X, Y: ev.Y},
	}, sess.ID)
}

// WordSelect sets the secret word for the round and starts the countdown.
// Only the current drawer may select; anyone else is silently rejected.
// Re-selecting mid-round closes out the running round and restarts the
// timer.
func (e *Engine) WordSelect(sess *session.Session, ev protocol.WordSelectEvent) {
	roomID := sess.Room()
	if roomID == "" {
		return
	}
	r, exists := e.rooms.Get(roomID)
	if !exists {
		return
	}

	word := strings.TrimSpace(ev.Word)

	r.Mu.Lock()
	defer r.Mu.Unlock()

	if !r.Game.Started || r.Game.CurrentDrawer != sess.ID || word == "" {
		logger.Log.Debugf("rejected word selection from session %s in room %s", sess.ID, roomID)
		return
	}

	if r.Game.CurrentWord != "" {
		e.finishRound(r, time.Now())
	}

	r.Game.CurrentWord = word
	r.Game.TimerExpiresAt = time.Now().Add(time.Duration(e.cfg.RoundSeconds) * time.Second)

	e.hub.BroadcastToRoom(roomID, protocol.Event{
		Type: protocol.MsgTypeWordSelected,
		Data: protocol.WordSelected{Word: word, Drawer: sess.ID},
	})

	e.timers.Start(roomID, e.cfg.RoundSeconds,
		func(remaining, total int) {
			e.hub.BroadcastToRoom(roomID, protocol.Event{
				Type: protocol.MsgTypeTimerUpdate,
				Data: protocol.TimerUpdate{Remaining: remaining, Total: total},
			})
		},
		func() {
			e.AdvanceTurn(roomID)
		})
}

// GameStart begins the rotation. Only the room creator (earliest joiner
// still present) may start, and only once per room lifetime.
func (e *Engine) GameStart(sess *session.Session) {
	roomID := sess.Room()
	if roomID == "" {
		return
	}
	r, exists := e.rooms.Get(roomID)
	if !exists {
		return
	}

	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Game.Started || r.Creator() != sess.ID {
		logger.Log.Debugf("rejected game start from session %s in room %s", sess.ID, roomID)
		return
	}
	e.startNewTurn(r)
}

// Chat evaluates the text as a guess first. A correct guess is replaced by
// a tagged celebration line plus scoring events; anything else is relayed
// verbatim as ordinary chat. Guesses and chat share this one channel.
func (e *Engine) Chat(sess *session.Session, ev protocol.ChatEvent) {
	roomID := sess.Room()
	if roomID == "" {
		return
	}
	r, exists := e.rooms.Get(roomID)
	if !exists {
		return
	}

	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, exists := r.GetParticipant(sess.ID)
	if !exists {
		return
	}

	result := evaluateGuess(r, sess.ID, ev.Text)
	if result.Outcome != OutcomeCorrect {
		e.hub.BroadcastToRoom(roomID, chatEvent(p.Name, ev.Text, GuessResult{}))
		return
	}

	e.hub.BroadcastToRoom(roomID, usersUpdateEvent(r.Snapshot()))
	e.hub.BroadcastToRoom(roomID, protocol.Event{
		Type: protocol.MsgTypeGuessCorrect,
		Data: protocol.GuessCorrect{
			UserName:     p.Name,
			Points:       result.Points,
			Position:     result.Position,
			TotalCorrect: len(r.Guessed),
		},
	})
	e.hub.BroadcastToRoom(roomID, chatEvent(p.Name, fmt.Sprintf("%s guessed the word!", p.Name), result))
}

// AdvanceTurn moves the room to its next drawer. Wired to timer expiry;
// a no-op if the room is gone.
func (e *Engine) AdvanceTurn(roomID string) {
	r, exists := e.rooms.Get(roomID)
	if !exists {
		return
	}
	r.Mu.Lock()
	defer r.Mu.Unlock()
	e.startNewTurn(r)
}

// startNewTurn cancels any running timer, closes out the previous round,
// selects the next drawer and announces the turn. Caller holds the room
// mutex.
func (e *Engine) startNewTurn(r *room.Room) {
	if r.Len() == 0 {
		return
	}

	e.timers.Cancel(r.ID)
	e.finishRound(r, time.Now())

	drawer := e.nextDrawer(r)
	now := time.Now()
	r.Game = room.GameState{
		CurrentDrawer:  drawer,
		Started:        true,
		RoundStartedAt: now,
	}
	r.ClearGuessed()

	e.hub.BroadcastToRoom(r.ID, protocol.Event{
		Type: protocol.MsgTypeTurnStart,
		Data: protocol.TurnStart{Drawer: drawer, TurnStartTime: now.UnixMilli()},
	})
}

// finishRound records the round that just ended, if a word had been
// selected. Persistence runs off-thread so a slow database never holds the
// room lock. Caller holds the room mutex.
func (e *Engine) finishRound(r *room.Room, endedAt time.Time) {
	if r.Game.CurrentWord == "" {
		return
	}
	if e.metrics != nil {
		e.metrics.IncRoundsCompleted()
	}
	if e.history == nil {
		return
	}

	record := models.RoundRecord{
		RoomID:     r.ID,
		Word:       r.Game.CurrentWord,
		Drawer:     r.Game.CurrentDrawer,
		DrawerName: participantName(r, r.Game.CurrentDrawer),
		StartedAt:  r.Game.RoundStartedAt,
		EndedAt:    endedAt,
	}
	for id, position := range r.Guessed {
		record.Guessers = append(record.Guessers, models.GuessEntry{
			ID:       id,
			Name:     participantName(r, id),
			Points:   pointsForPosition(position),
			Position: position,
		})
	}

	go e.history.RecordRound(record)
}

// lockRoom returns the room locked and still registered. The retry covers
// the window where a concurrent leave purged the room between Ensure and
// the lock.
func (e *Engine) lockRoom(roomID string) *room.Room {
	for {
		r := e.rooms.Ensure(roomID)
		r.Mu.Lock()
		if current, exists := e.rooms.Get(roomID); exists && current == r {
			return r
		}
		r.Mu.Unlock()
	}
}

func (e *Engine) updateRoomGauge() {
	if e.metrics != nil {
		e.metrics.SetActiveRooms(e.rooms.Count())
	}
}

// participantName resolves an ID to a display name, falling back to the ID
// for participants who already left.
func participantName(r *room.Room, id string) string {
	if p, exists := r.GetParticipant(id); exists {
		return p.Name
	}
	return id
}

// generatedName derives a display name from the connection identifier when
// the client did not supply one.
func generatedName(sessionID string) string {
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	return "player-" + short
}

func usersUpdateEvent(snapshot []*room.Participant) protocol.Event {
	users := make([]protocol.User, 0, len(snapshot))
	for _, p := range snapshot {
		users = append(users, protocol.User{ID: p.ID, Name: p.Name, Points: p.Points})
	}
	return protocol.Event{Type: protocol.MsgTypeUsersUpdate, Data: users}
}

func chatEvent(userName, message string, result GuessResult) protocol.Event {
	return protocol.Event{
		Type: protocol.MsgTypeChatMessage,
		Data: protocol.ChatMessage{
			ID:             uuid.New().String(),
			UserName:       userName,
			Message:        message,
			Timestamp:      time.Now().UnixMilli(),
			IsCorrectGuess: result.Outcome == OutcomeCorrect,
			Points:         result.Points,
			Position:       result.Position,
		},
	}
}
