package history

import (
	"context"
	"encoding/json"
	"time"

	"decina-service/internal/model"
	"decina-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	recentFeedKey = "decina:history:recent"
	recentFeedCap = 50
)

type Service struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewService builds the history recorder. rdb may be nil; the recent
// feed is then skipped and only the database is written.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

type RecordParams struct {
	GameID       string
	OwnerID      int64
	PresetID     *int64
	Seed         int64
	TableSize    int
	Outcome      string
	Moves        int
	RemovedCount int
	Duration     time.Duration
	BoardJSON    []byte
}

type ListResult struct {
	Items []model.GameRecord
	Total int64
}

// FeedEntry is one item of the capped recent-results feed kept in redis.
type FeedEntry struct {
	GameID  string `json:"gameId"`
	Outcome string `json:"outcome"`
	Moves   int    `json:"moves"`
	EndedAt int64  `json:"endedAt"`
}

// Record stores a finished game and pushes it onto the recent feed.
func (s *Service) Record(ctx context.Context, params RecordParams) (*model.GameRecord, error) {
	record := model.GameRecord{
		GameID:       params.GameID,
		OwnerID:      params.OwnerID,
		PresetID:     params.PresetID,
		Seed:         params.Seed,
		TableSize:    params.TableSize,
		Outcome:      params.Outcome,
		Moves:        params.Moves,
		RemovedCount: params.RemovedCount,
		DurationMS:   params.Duration.Milliseconds(),
		BoardJSON:    datatypes.JSON(params.BoardJSON),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}

	s.pushFeed(ctx, FeedEntry{
		GameID:  params.GameID,
		Outcome: params.Outcome,
		Moves:   params.Moves,
		EndedAt: time.Now().UnixMilli(),
	})
	return &record, nil
}

func (s *Service) pushFeed(ctx context.Context, entry FeedEntry) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	pipe := s.rdb.Pipeline()
	pipe.LPush(ctx, recentFeedKey, data)
	pipe.LTrim(ctx, recentFeedKey, 0, recentFeedCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Warn("failed to push recent feed", zap.Error(err))
	}
}

// Recent returns the latest finished games from the redis feed.
func (s *Service) Recent(ctx context.Context, limit int) ([]FeedEntry, error) {
	if s.rdb == nil {
		return []FeedEntry{}, nil
	}
	if limit <= 0 || limit > recentFeedCap {
		limit = recentFeedCap
	}
	raw, err := s.rdb.LRange(ctx, recentFeedKey, 0, int64(limit-1)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	entries := make([]FeedEntry, 0, len(raw))
	for _, item := range raw {
		var entry FeedEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// List pages through a player's finished games, newest first.
func (s *Service) List(ctx context.Context, ownerID int64, page, size int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.GameRecord{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var records []model.GameRecord
	if total > 0 {
		offset := (page - 1) * size
		if err := s.db.WithContext(ctx).
			Model(&model.GameRecord{}).
			Where("owner_id = ?", ownerID).
			Order("id DESC").
			Limit(size).
			Offset(offset).
			Find(&records).Error; err != nil {
			return nil, err
		}
	}

	return &ListResult{Items: records, Total: total}, nil
}

// Summary counts a player's finished games per outcome.
func (s *Service) Summary(ctx context.Context, ownerID int64) (map[string]int64, error) {
	type row struct {
		Outcome string
		Count   int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&model.GameRecord{}).
		Select("outcome, count(*) as count").
		Where("owner_id = ?", ownerID).
		Group("outcome").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	summary := make(map[string]int64, len(rows))
	for _, r := range rows {
		summary[r.Outcome] = r.Count
	}
	return summary, nil
}
