package service

import (
	"context"

	"decina-service/internal/config"
	"decina-service/internal/service/game"
	"decina-service/internal/service/history"
	"decina-service/internal/service/preset"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Game    *game.Service
	Preset  *preset.Service
	History *history.Service
}

func NewContainer(db *gorm.DB, rdb *redis.Client, gameCfg config.GameConfig) *Container {
	presetSvc := preset.NewService(db)
	historySvc := history.NewService(db, rdb)
	return &Container{
		Preset:  presetSvc,
		History: historySvc,
		Game:    game.NewService(presetSvc, historySvc, gameCfg.DefaultTableSize),
	}
}

func (c *Container) Start(ctx context.Context, gameCfg config.GameConfig) error {
	return c.Preset.EnsureDefault(ctx, gameCfg.DefaultPresetName, gameCfg.DefaultTableSize)
}
