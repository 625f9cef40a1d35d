// services/history_service.go
package services

import (
	"fmt"

	"github.com/AdeolaFaraday/guess-drawing-game-be/logger"
	"github.com/AdeolaFaraday/guess-drawing-game-be/models"
	"github.com/AdeolaFaraday/guess-drawing-game-be/persistence"
)

const defaultHistoryLimit = 50

// HistoryService sits between the game engine and the round-history store.
// The engine writes through RecordRound on a best-effort basis; a write
// failure is logged and never reaches game state. A nil *HistoryService is
// valid and turns every method into a no-op, which is how the server runs
// without a database.
type HistoryService struct {
	store persistence.Store
}

func NewHistoryService(store persistence.Store) *HistoryService {
	return &HistoryService{store: store}
}

// RecordRound persists one completed round. Safe to call from any
// goroutine; the engine fires it off after releasing the room lock.
func (s *HistoryService) RecordRound(record models.RoundRecord) {
	if s == nil {
		return
	}
	if err := s.store.SaveRound(record); err != nil {
		logger.Log.Errorf("record round for room %s: %v", record.RoomID, err)
	}
}

// RoomHistory returns the most recent recorded rounds for a room.
func (s *HistoryService) RoomHistory(roomID string, limit int) ([]models.RoundRecord, error) {
	if s == nil {
		return nil, fmt.Errorf("round history is not enabled")
	}
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.store.RoundsByRoom(roomID, limit)
}

// RoomLeaderboard returns the all-time points ranking for a room,
// aggregated from its recorded rounds.
func (s *HistoryService) RoomLeaderboard(roomID string) ([]models.LeaderboardEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("round history is not enabled")
	}
	return s.store.RoomLeaderboard(roomID)
}
