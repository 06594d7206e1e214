package preset

import (
	"context"
	"strings"

	"decina-service/internal/model"
	appErr "decina-service/pkg/errors"
	"decina-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ListResult struct {
	Items []model.Preset
	Total int64
}

type MutationParams struct {
	Name      string
	TableSize int
	Status    string
}

// ListEnabled returns the presets players may start games from.
func (s *Service) ListEnabled(ctx context.Context) ([]model.Preset, error) {
	var presets []model.Preset
	if err := s.db.WithContext(ctx).
		Where("status = ?", StatusEnabled).
		Order("id ASC").
		Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

func (s *Service) AdminList(ctx context.Context, page, size int) (*ListResult, error) {
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
		Model(&model.Preset{}).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var presets []model.Preset
	if total > 0 {
		offset := (page - 1) * size
		if err := s.db.WithContext(ctx).
			Model(&model.Preset{}).
			Order("id DESC").
			Limit(size).
			Offset(offset).
			Find(&presets).Error; err != nil {
			return nil, err
		}
	}

	return &ListResult{Items: presets, Total: total}, nil
}

func (s *Service) Create(ctx context.Context, params MutationParams) (*model.Preset, error) {
	status := params.Status
	if status == "" {
		status = StatusEnabled
	}
	preset := model.Preset{
		Name:      strings.TrimSpace(params.Name),
		TableSize: params.TableSize,
		Status:    status,
	}
	if err := s.db.WithContext(ctx).Create(&preset).Error; err != nil {
		return nil, err
	}
	return &preset, nil
}

func (s *Service) Update(ctx context.Context, id int64, params MutationParams) (*model.Preset, error) {
	updates := map[string]interface{}{
		"name":       strings.TrimSpace(params.Name),
		"table_size": params.TableSize,
		"status":     params.Status,
	}

	result := s.db.WithContext(ctx).
		Model(&model.Preset{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, appErr.ErrPresetNotFound
	}

	var preset model.Preset
	if err := s.db.WithContext(ctx).First(&preset, id).Error; err != nil {
		return nil, err
	}
	return &preset, nil
}

// Get loads a preset for game creation; disabled presets are rejected.
func (s *Service) Get(ctx context.Context, id int64) (*model.Preset, error) {
	var preset model.Preset
	if err := s.db.WithContext(ctx).First(&preset, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.ErrPresetNotFound
		}
		logger.Log.Error("failed to load preset", zap.Error(err))
		return nil, err
	}
	if preset.Status != StatusEnabled {
		return nil, appErr.ErrPresetDisabled
	}
	return &preset, nil
}

// EnsureDefault seeds the given preset if no preset exists yet.
func (s *Service) EnsureDefault(ctx context.Context, name string, tableSize int) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Preset{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	preset := model.Preset{
		Name:      name,
		TableSize: tableSize,
		Status:    StatusEnabled,
	}
	return s.db.WithContext(ctx).Create(&preset).Error
}
