package game

import (
	"context"
	"encoding/json"
	"sync"

	"decina-service/internal/service/history"
	"decina-service/internal/service/preset"
	appErr "decina-service/pkg/errors"
	"decina-service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages per-game runtimes. Games live in memory only;
// finished outcomes are handed to the history recorder.
type Service struct {
	presets          *preset.Service
	history          *history.Service
	defaultTableSize int

	runtimes sync.Map // gameID -> *GameRuntime
}

func NewService(presets *preset.Service, historySvc *history.Service, defaultTableSize int) *Service {
	if defaultTableSize <= 0 || defaultTableSize > DeckSize {
		defaultTableSize = DefaultTableSize
	}
	return &Service{
		presets:          presets,
		history:          historySvc,
		defaultTableSize: defaultTableSize,
	}
}

type CreateParams struct {
	OwnerID   int64
	PresetID  *int64
	TableSize *int
	Seed      int64
}

// CreateGame deals a fresh board and registers its runtime. The deal
// comes from a preset when one is named, with an optional explicit
// table-size override.
func (s *Service) CreateGame(ctx context.Context, params CreateParams) (*GameRuntime, error) {
	tableSize := s.defaultTableSize
	var presetID *int64
	if params.PresetID != nil {
		p, err := s.presets.Get(ctx, *params.PresetID)
		if err != nil {
			return nil, err
		}
		tableSize = p.TableSize
		presetID = &p.ID
	}
	if params.TableSize != nil {
		tableSize = *params.TableSize
	}

	state, err := NewState(DealConfig{TableSize: tableSize, Seed: params.Seed})
	if err != nil {
		return nil, err
	}

	gameID := uuid.NewString()
	rt := newGameRuntime(gameID, params.OwnerID, presetID, tableSize, state, s.handleRuntimeFinish)
	s.runtimes.Store(gameID, rt)

	logger.Log.Info("game created",
		zap.String("gameID", gameID),
		zap.Int64("ownerID", params.OwnerID),
		zap.Int("tableSize", tableSize),
		zap.Int64("seed", state.Seed()),
	)
	return rt, nil
}

func (s *Service) GetRuntime(gameID string) (*GameRuntime, error) {
	if v, ok := s.runtimes.Load(gameID); ok {
		return v.(*GameRuntime), nil
	}
	return nil, appErr.ErrGameNotFound
}

// TODO: evict finished runtimes after a retention window; today they
// stay resident so the final board remains viewable.
func (s *Service) handleRuntimeFinish(rt *GameRuntime) {
	summary := rt.finishSummary()

	boardJSON, err := json.Marshal(summary.Board)
	if err != nil {
		logger.Log.Error("failed to marshal final board", zap.Error(err), zap.String("gameID", summary.GameID))
		boardJSON = nil
	}

	if s.history == nil {
		return
	}
	_, err = s.history.Record(context.Background(), history.RecordParams{
		GameID:       summary.GameID,
		OwnerID:      summary.OwnerID,
		PresetID:     summary.PresetID,
		Seed:         summary.Seed,
		TableSize:    summary.TableSize,
		Outcome:      summary.Outcome,
		Moves:        summary.Moves,
		RemovedCount: summary.RemovedCount,
		Duration:     summary.Duration,
		BoardJSON:    boardJSON,
	})
	if err != nil {
		logger.Log.Error("failed to record finished game", zap.Error(err), zap.String("gameID", summary.GameID))
		return
	}
	logger.Log.Info("game finished",
		zap.String("gameID", summary.GameID),
		zap.String("outcome", summary.Outcome),
		zap.Int("moves", summary.Moves),
	)
}
