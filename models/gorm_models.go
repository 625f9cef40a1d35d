// models/gorm_models.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// GormRound 回合记录模型
type GormRound struct {
	gorm.Model
	RoomID     string       `gorm:"index;not null"`
	Word       string       `gorm:"not null"`
	Drawer     string       `gorm:"not null"`
	DrawerName string       `gorm:"not null"`
	StartedAt  time.Time    `gorm:"not null"`
	EndedAt    time.Time    `gorm:"not null"`
	Guessers   []GuessEntry `gorm:"serializer:json;type:jsonb"`
}

func (GormRound) TableName() string {
	return "rounds"
}

// Record converts the stored row back to the plain record shape.
func (r *GormRound) Record() RoundRecord {
	return RoundRecord{
		RoomID:     r.RoomID,
		Word:       r.Word,
		Drawer:     r.Drawer,
		DrawerName: r.DrawerName,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
		Guessers:   r.Guessers,
	}
}
