package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/AdeolaFaraday/guess-drawing-game-be/game"
	"github.com/AdeolaFaraday/guess-drawing-game-be/logger"
	"github.com/AdeolaFaraday/guess-drawing-game-be/monitor"
	"github.com/AdeolaFaraday/guess-drawing-game-be/network"
	"github.com/AdeolaFaraday/guess-drawing-game-be/protocol"
	"github.com/AdeolaFaraday/guess-drawing-game-be/session"
)

const (
	heartbeatInterval = 30 * time.Second

	// Inbound frames per connection. Drawing streams are chatty, so the
	// limit is generous; it exists to stop a runaway client, not to shape
	// normal traffic.
	inboundRate  = rate.Limit(200)
	inboundBurst = 400
)

// GameServer is the WebSocket transport binding: it upgrades connections on
// /ws, joins them into the room named by the query string and pumps decoded
// frames into the engine. All game semantics live in the engine; this layer
// only frames and unframes events.
type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	engine         *game.Engine
	sessionManager *session.Manager
	monitor        *monitor.Monitor
	mux            *http.ServeMux
	shutdownChan   chan struct{}
}

func NewGameServer(addr string, allowedOrigins []string, engine *game.Engine,
	sessionManager *session.Manager, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:           addr,
		engine:         engine,
		sessionManager: sessionManager,
		monitor:        mon,
		mux:            http.NewServeMux(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}

	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

// originChecker builds the CORS policy for the upgrade handshake. A "*"
// entry, or an empty list, allows every origin.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		allowedSet[origin] = true
	}
	return func(r *http.Request) bool {
		return allowedSet[r.Header.Get("Origin")]
	}
}

func (s *GameServer) Start() error {
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	query := r.URL.Query()
	s.handleConnection(conn, query.Get("room"), query.Get("userName"))
}

func (s *GameServer) handleConnection(conn *websocket.Conn, roomKey, userName string) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(heartbeatInterval)

	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	if s.monitor != nil {
		s.monitor.IncConnectedClients()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.ID)

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.ID)
		s.engine.Leave(sess)
		s.sessionManager.Remove(sess.ID)
		if s.monitor != nil {
			s.monitor.DecConnectedClients()
		}
		wsConn.Close()
	}()

	// The room key in the query string joins the connection right away; a
	// client may instead omit it and send an explicit join frame.
	if roomKey != "" || userName != "" {
		s.engine.Join(sess, protocol.JoinEvent{Room: roomKey, UserName: userName})
	}

	limiter := rate.NewLimiter(inboundRate, inboundBurst)

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
		}

		raw, err := wsConn.ReadMessage()
		if err != nil {
			return
		}
		sess.Touch()

		if !limiter.Allow() {
			logger.Log.Warnf("session %s exceeded inbound rate limit, dropping frame", sess.ID)
			continue
		}

		ev, err := protocol.DecodeInbound(raw)
		if err != nil {
			logger.Log.Debugf("dropping malformed frame from session %s: %v", sess.ID, err)
			continue
		}
		s.engine.Dispatch(sess, ev)
	}
}
