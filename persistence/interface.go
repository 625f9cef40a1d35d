// persistence/interface.go
package persistence

import (
	"errors"

	"github.com/AdeolaFaraday/guess-drawing-game-be/models"
)

// Store 回合历史存储接口
type Store interface {
	SaveRound(record models.RoundRecord) error
	RoundsByRoom(roomID string, limit int) ([]models.RoundRecord, error)
	RoomLeaderboard(roomID string) ([]models.LeaderboardEntry, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = errors.New("record not found")
)
