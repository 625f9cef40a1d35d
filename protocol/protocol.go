// Package protocol defines the message vocabulary shared by the game engine
// and the transport bindings: a closed set of tagged inbound events and the
// outbound event payloads. Transports differ only in how an Event is put on
// the wire; the shapes here are the contract.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound message types.
const (
	MsgTypeJoin        = "join"
	MsgTypeSegment     = "segment"
	MsgTypeClear       = "clear"
	MsgTypeCursor      = "cursor"
	MsgTypeWordSelect  = "wordSelect"
	MsgTypeGameStart   = "gameStart"
	MsgTypeChatMessage = "chatMessage"
)

// Outbound message types. Segment, clear, cursor and chatMessage reuse the
// inbound names.
const (
	MsgTypeUsersUpdate  = "usersUpdate"
	MsgTypeUserJoined   = "userJoined"
	MsgTypeUserLeft     = "userLeft"
	MsgTypeWordSelected = "wordSelected"
	MsgTypeTurnStart    = "turnStart"
	MsgTypeTimerUpdate  = "timerUpdate"
	MsgTypeGuessCorrect = "guessCorrect"
)

// ErrUnknownType is returned for a message type outside the closed set.
var ErrUnknownType = errors.New("unknown message type")

// Envelope is the wire framing used by both transports: a type tag plus a
// payload. RPC frames additionally carry the room key on every message.
type Envelope struct {
	Type string          `json:"type"`
	Room string          `json:"room,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is a server-to-client message before marshalling. Data is any
// JSON-encodable payload, usually one of the outbound structs below.
type Event struct {
	Type string
	Data interface{}
}

// Marshal frames an outbound event as a JSON envelope.
func Marshal(ev Event) ([]byte, error) {
	return json.Marshal(struct {
		Type string      `json:"type"`
		Data interface{} `json:"data,omitempty"`
	}{ev.Type, ev.Data})
}

// Decoded inbound variants. The transport boundary decodes every incoming
// frame into exactly one of these before it reaches the engine.
type (
	// JoinEvent registers the connection in a room. An empty room falls back
	// to the default room; an empty user name is generated server-side.
	JoinEvent struct {
		Room     string `json:"room"`
		UserName string `json:"userName"`
	}

	// SegmentEvent carries one drawing stroke. The payload is opaque to the
	// server and relayed verbatim, so only the raw bytes are kept.
	SegmentEvent struct {
		Raw json.RawMessage
	}

	ClearEvent struct{}

	CursorEvent struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	WordSelectEvent struct {
		Word string `json:"word"`
	}

	GameStartEvent struct{}

	ChatEvent struct {
		Text string `json:"text"`
	}
)

// Segment documents the stroke payload fields clients exchange. The server
// never reads them; the type exists for clients and tests.
type Segment struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	DPR   float64 `json:"dpr"`
}

// DecodeInbound parses a raw JSON envelope into a typed inbound variant.
func DecodeInbound(raw []byte) (interface{}, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return DecodePayload(env.Type, env.Data)
}

// DecodePayload parses the data part of an already-unwrapped frame. Both
// transport bindings funnel through here so the set of accepted messages
// stays in one place.
func DecodePayload(msgType string, data []byte) (interface{}, error) {
	switch msgType {
	case MsgTypeJoin:
		var ev JoinEvent
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case MsgTypeSegment:
		if len(data) == 0 {
			data = []byte("{}")
		}
		return SegmentEvent{Raw: append(json.RawMessage(nil), data...)}, nil
	case MsgTypeClear:
		return ClearEvent{}, nil
	case MsgTypeCursor:
		var ev CursorEvent
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case MsgTypeWordSelect:
		var ev WordSelectEvent
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case MsgTypeGameStart:
		return GameStartEvent{}, nil
	case MsgTypeChatMessage:
		var ev ChatEvent
		if err := unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msgType)
	}
}

func unmarshal(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Outbound payloads.

// User is the roster entry sent in usersUpdate and userJoined events.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"userName"`
	Points int    `json:"points"`
}

type UserLeft struct {
	ID string `json:"id"`
}

// CursorUpdate is the relayed cursor position, stamped with the sender.
type CursorUpdate struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type WordSelected struct {
	Word   string `json:"word"`
	Drawer string `json:"drawer"`
}

// TurnStart announces the next drawer. TurnStartTime is unix milliseconds.
type TurnStart struct {
	Drawer        string `json:"drawer"`
	TurnStartTime int64  `json:"turnStartTime"`
}

type TimerUpdate struct {
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}

type GuessCorrect struct {
	UserName     string `json:"userName"`
	Points       int    `json:"points"`
	Position     int    `json:"position"`
	TotalCorrect int    `json:"totalCorrect"`
}

// ChatMessage is a chat line. IsCorrectGuess marks the celebratory line that
// replaces a correct guess; Points and Position accompany it.
type ChatMessage struct {
	ID             string `json:"id"`
	UserName       string `json:"userName"`
	Message        string `json:"message"`
	Timestamp      int64  `json:"timestamp"`
	IsCorrectGuess bool   `json:"isCorrectGuess,omitempty"`
	Points         int    `json:"points,omitempty"`
	Position       int    `json:"position,omitempty"`
}
