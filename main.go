package main

import (
	"github.com/joho/godotenv"

	"github.com/AdeolaFaraday/guess-drawing-game-be/broadcast"
	"github.com/AdeolaFaraday/guess-drawing-game-be/config"
	"github.com/AdeolaFaraday/guess-drawing-game-be/game"
	"github.com/AdeolaFaraday/guess-drawing-game-be/logger"
	"github.com/AdeolaFaraday/guess-drawing-game-be/monitor"
	"github.com/AdeolaFaraday/guess-drawing-game-be/persistence"
	"github.com/AdeolaFaraday/guess-drawing-game-be/room"
	"github.com/AdeolaFaraday/guess-drawing-game-be/rpc"
	"github.com/AdeolaFaraday/guess-drawing-game-be/server"
	"github.com/AdeolaFaraday/guess-drawing-game-be/services"
	"github.com/AdeolaFaraday/guess-drawing-game-be/session"
	"github.com/AdeolaFaraday/guess-drawing-game-be/timer"
)

func main() {
	// .env is optional; environment variables overlay config.yaml either way.
	_ = godotenv.Load()

	logger.Init()
	defer logger.Sync()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Round history is opt-in; the engine itself is memory-only.
	var history *services.HistoryService
	if cfg.Database.Enabled {
		store, err := openStore(cfg)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()
		history = services.NewHistoryService(store)
		logger.Log.Info("Round history recording enabled.")
	}

	mon := monitor.NewMonitor("guessdraw")
	mon.StartServer(cfg.Server.MonitorAddress)

	sessionManager := session.NewManager()
	registry := room.NewRegistry()
	hub := broadcast.NewHub(sessionManager)
	timers := timer.NewManager()

	engine := game.NewEngine(game.Config{
		RoundSeconds: cfg.Game.RoundSeconds,
		TurnPolicy:   cfg.Game.TurnPolicy,
	}, registry, hub, timers, history, mon)

	rpcServer := rpc.NewServer(cfg.Server.RPCAddress, engine, sessionManager, history, mon)
	go func() {
		if err := rpcServer.Start(); err != nil {
			logger.Log.Fatalf("Failed to start RPC server: %v", err)
		}
	}()

	gameServer := server.NewGameServer(cfg.Server.WSAddress, cfg.Server.AllowedOrigins,
		engine, sessionManager, mon)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

func openStore(cfg *config.Config) (persistence.Store, error) {
	pg := cfg.Database.Postgres
	switch cfg.Database.Driver {
	case "postgres":
		return persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		return persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	}
}
