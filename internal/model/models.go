package model

import (
	"time"

	"gorm.io/datatypes"
)

// Preset is a named deal configuration players can start games from.
type Preset struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"unique;not null"`
	TableSize int    `gorm:"not null"`
	Status    string `gorm:"default:enabled;not null"` // enabled/disabled
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GameRecord is the outcome of one finished game. Live game state is
// never persisted; only terminal results land here.
type GameRecord struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	GameID       string `gorm:"size:64;uniqueIndex;not null"`
	OwnerID      int64  `gorm:"index"`
	PresetID     *int64
	Seed         int64
	TableSize    int
	Outcome      string `gorm:"size:16;not null"` // won/stuck
	Moves        int
	RemovedCount int
	DurationMS   int64
	BoardJSON    datatypes.JSON `gorm:"type:jsonb"` // final board snapshot
	CreatedAt    time.Time
}
