// network/connection.go
package network

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AdeolaFaraday/guess-drawing-game-be/protocol"
)

const writeTimeout = 10 * time.Second

// Connection is the send side of a client connection, the only part of a
// transport the engine and broadcast hub see. The read side stays concrete
// per transport because inbound framing differs between the bindings.
type Connection interface {
	Send(ev protocol.Event) error
	Close() error
	RemoteAddr() net.Addr
}

// WSConnection wraps a gorilla websocket connection with serialized writes
// and JSON envelope framing.
type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) Send(ev protocol.Event) error {
	data, err := protocol.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// ReadMessage blocks for the next inbound frame and returns its raw bytes.
// Decoding is left to the caller so malformed frames can be dropped without
// tearing down the connection.
func (c *WSConnection) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if c.heartbeat > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.heartbeat * 2))
	}
	return data, nil
}

// SetHeartbeat arms a read deadline of twice the interval, refreshed by every
// inbound frame or ping. Idle connections past the deadline fail their next
// read and get cleaned up by the read loop.
func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
	c.conn.SetPingHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(interval * 2))
		return c.conn.WriteControl(websocket.PongMessage, nil, time.Now().Add(writeTimeout))
	})
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
