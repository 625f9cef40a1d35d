package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/AdeolaFaraday/guess-drawing-game-be/game"
	"github.com/AdeolaFaraday/guess-drawing-game-be/logger"
	"github.com/AdeolaFaraday/guess-drawing-game-be/monitor"
	"github.com/AdeolaFaraday/guess-drawing-game-be/protocol"
	"github.com/AdeolaFaraday/guess-drawing-game-be/services"
	"github.com/AdeolaFaraday/guess-drawing-game-be/session"
)

// The gRPC binding carries the same event vocabulary as the WebSocket one,
// framed as structpb.Struct values on a bidirectional Play stream. The
// service descriptor is assembled by hand because the frames are dynamic
// JSON envelopes; there is no generated proto surface.

const serviceName = "guessdraw.GameService"

// gameHandler is the method set the descriptor dispatches to.
type gameHandler interface {
	Play(grpc.ServerStream) error
	RoundHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*gameHandler)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RoundHistory", Handler: roundHistoryHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Play", Handler: playHandler, ServerStreams: true, ClientStreams: true},
	},
	Metadata: "guessdraw",
}

func playHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(gameHandler).Play(stream)
}

func roundHistoryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(gameHandler).RoundHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/RoundHistory"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(gameHandler).RoundHistory(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Server manages the gRPC listener.
type Server struct {
	addr       string
	grpcServer *grpc.Server
}

func NewServer(addr string, engine *game.Engine, sessionManager *session.Manager,
	history *services.HistoryService, mon *monitor.Monitor) *Server {
	grpcServer := grpc.NewServer()
	grpcServer.RegisterService(&serviceDesc, &GameService{
		engine:         engine,
		sessionManager: sessionManager,
		history:        history,
		monitor:        mon,
	})
	return &Server{
		addr:       addr,
		grpcServer: grpcServer,
	}
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("rpc listen on %s: %w", s.addr, err)
	}
	logger.Log.Infof("RPC server listening on %s", s.addr)
	return s.grpcServer.Serve(listener)
}

// Stop drains in-flight streams and closes the listener.
func (s *Server) Stop() {
	logger.Log.Info("Stopping RPC server.")
	s.grpcServer.GracefulStop()
}

// GameService implements the Play stream and the RoundHistory query.
type GameService struct {
	engine         *game.Engine
	sessionManager *session.Manager
	history        *services.HistoryService
	monitor        *monitor.Monitor
}

// Play is the duplex game channel. The connection identifier comes from
// the client-id call metadata, falling back to a generated one; each frame
// is an envelope {type, room, data} with the room key carried explicitly
// because there is no connection-time query string here.
func (gs *GameService) Play(stream grpc.ServerStream) error {
	ctx := stream.Context()
	sess := session.NewSession(clientID(ctx), newStreamConn(stream))
	gs.sessionManager.Add(sess)
	if gs.monitor != nil {
		gs.monitor.IncConnectedClients()
	}

	logger.Log.Infof("New RPC stream, session ID: %s", sess.ID)

	defer func() {
		logger.Log.Infof("RPC stream closed, session ID: %s", sess.ID)
		gs.engine.Leave(sess)
		gs.sessionManager.Remove(sess.ID)
		if gs.monitor != nil {
			gs.monitor.DecConnectedClients()
		}
	}()

	for {
		frame := new(structpb.Struct)
		if err := stream.RecvMsg(frame); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		sess.Touch()

		raw, err := frame.MarshalJSON()
		if err != nil {
			logger.Log.Debugf("dropping unmarshalable frame from session %s: %v", sess.ID, err)
			continue
		}

		var env protocol.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			logger.Log.Debugf("dropping malformed frame from session %s: %v", sess.ID, err)
			continue
		}

		ev, err := protocol.DecodePayload(env.Type, env.Data)
		if err != nil {
			logger.Log.Debugf("dropping frame from session %s: %v", sess.ID, err)
			continue
		}
		// The envelope-level room key stands in for the join payload's when
		// the client only sets the former.
		if join, ok := ev.(protocol.JoinEvent); ok && join.Room == "" {
			join.Room = env.Room
			ev = join
		}

		gs.engine.Dispatch(sess, ev)
	}
}

// RoundHistory returns the recorded rounds and the aggregated leaderboard
// for one room. Request fields: room (required), limit (optional).
func (gs *GameService) RoundHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if gs.history == nil {
		return nil, status.Error(codes.Unavailable, "round history is not enabled")
	}

	fields := req.AsMap()
	roomID, _ := fields["room"].(string)
	if roomID == "" {
		return nil, status.Error(codes.InvalidArgument, "room is required")
	}
	limit := 0
	if v, ok := fields["limit"].(float64); ok {
		limit = int(v)
	}

	rounds, err := gs.history.RoomHistory(roomID, limit)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "query rounds: %v", err)
	}
	leaderboard, err := gs.history.RoomLeaderboard(roomID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "query leaderboard: %v", err)
	}

	return toStruct(map[string]interface{}{
		"rounds":      rounds,
		"leaderboard": leaderboard,
	})
}

// toStruct converts any JSON-encodable value set to a structpb payload.
func toStruct(v map[string]interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var plain map[string]interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(plain)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func clientID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get("client-id"); len(vals) > 0 && vals[0] != "" {
			return vals[0]
		}
	}
	return uuid.New().String()
}

// streamConn adapts a server stream to the network.Connection send side so
// sessions and the broadcast hub treat both transports alike.
type streamConn struct {
	stream    grpc.ServerStream
	sendMutex sync.Mutex
	addr      net.Addr
}

func newStreamConn(stream grpc.ServerStream) *streamConn {
	addr := net.Addr(&net.TCPAddr{})
	if p, ok := peer.FromContext(stream.Context()); ok && p.Addr != nil {
		addr = p.Addr
	}
	return &streamConn{stream: stream, addr: addr}
}

func (c *streamConn) Send(ev protocol.Event) error {
	raw, err := protocol.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	frame := new(structpb.Struct)
	if err := frame.UnmarshalJSON(raw); err != nil {
		return fmt.Errorf("frame %s event: %w", ev.Type, err)
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.stream.SendMsg(frame)
}

// Close is a no-op: the stream's lifetime belongs to its handler.
func (c *streamConn) Close() error {
	return nil
}

func (c *streamConn) RemoteAddr() net.Addr {
	return c.addr
}
