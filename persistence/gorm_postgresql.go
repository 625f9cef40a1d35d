// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AdeolaFaraday/guess-drawing-game-be/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.GormRound{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveRound 保存一条回合记录
func (p *GormPostgreSQL) SaveRound(record models.RoundRecord) error {
	row := models.GormRound{
		RoomID:     record.RoomID,
		Word:       record.Word,
		Drawer:     record.Drawer,
		DrawerName: record.DrawerName,
		StartedAt:  record.StartedAt,
		EndedAt:    record.EndedAt,
		Guessers:   record.Guessers,
	}
	return p.db.Create(&row).Error
}

// RoundsByRoom 按房间查询最近的回合记录
func (p *GormPostgreSQL) RoundsByRoom(roomID string, limit int) ([]models.RoundRecord, error) {
	var rows []models.GormRound
	err := p.db.Where("room_id = ?", roomID).
		Order("ended_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]models.RoundRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].Record())
	}
	return records, nil
}

// RoomLeaderboard 房间历史积分排行
func (p *GormPostgreSQL) RoomLeaderboard(roomID string) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry

	// jsonb数组展开后按名字聚合
	err := p.db.Raw(`
        SELECT
            g->>'name' AS name,
            SUM((g->>'points')::int) AS points,
            COUNT(DISTINCT rounds.id) AS rounds
        FROM rounds, jsonb_array_elements(rounds.guessers) AS g
        WHERE rounds.room_id = ?
        GROUP BY g->>'name'
        ORDER BY points DESC`,
		roomID,
	).Scan(&entries).Error

	return entries, err
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
