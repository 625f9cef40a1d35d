// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/AdeolaFaraday/guess-drawing-game-be/models"
)

// PostgreSQL 数据库实现（database/sql + lib/pq）
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建PostgreSQL数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS rounds (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            word VARCHAR(255) NOT NULL,
            drawer VARCHAR(255) NOT NULL,
            drawer_name VARCHAR(255) NOT NULL,
            started_at TIMESTAMP NOT NULL,
            ended_at TIMESTAMP NOT NULL,
            guessers JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_rounds_room_id ON rounds(room_id);
        CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at);
    `)

	return err
}

// SaveRound 保存一条回合记录
func (p *PostgreSQL) SaveRound(record models.RoundRecord) error {
	guessers, err := json.Marshal(record.Guessers)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO rounds (room_id, word, drawer, drawer_name, started_at, ended_at, guessers)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err = p.db.ExecContext(ctx, query,
		record.RoomID,
		record.Word,
		record.Drawer,
		record.DrawerName,
		record.StartedAt,
		record.EndedAt,
		guessers)

	return err
}

// RoundsByRoom 按房间查询最近的回合记录
func (p *PostgreSQL) RoundsByRoom(roomID string, limit int) ([]models.RoundRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        SELECT room_id, word, drawer, drawer_name, started_at, ended_at, guessers
        FROM rounds
        WHERE room_id = $1
        ORDER BY ended_at DESC
        LIMIT $2
    `

	rows, err := p.db.QueryContext(ctx, query, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.RoundRecord
	for rows.Next() {
		var record models.RoundRecord
		var guessers []byte
		if err := rows.Scan(&record.RoomID, &record.Word, &record.Drawer,
			&record.DrawerName, &record.StartedAt, &record.EndedAt, &guessers); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(guessers, &record.Guessers); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// RoomLeaderboard 房间历史积分排行
func (p *PostgreSQL) RoomLeaderboard(roomID string) ([]models.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        SELECT
            g->>'name' AS name,
            SUM((g->>'points')::int) AS points,
            COUNT(DISTINCT rounds.id) AS rounds
        FROM rounds, jsonb_array_elements(rounds.guessers) AS g
        WHERE rounds.room_id = $1
        GROUP BY g->>'name'
        ORDER BY points DESC
    `

	rows, err := p.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.Name, &entry.Points, &entry.Rounds); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
