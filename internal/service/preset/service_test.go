package preset_test

import (
	"context"
	"errors"
	"testing"

	"decina-service/internal/model"
	"decina-service/internal/service/preset"
	appErr "decina-service/pkg/errors"
	"decina-service/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newPresetService(t *testing.T) (*gorm.DB, *preset.Service) {
	t.Helper()
	logger.InitTestLogger()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Preset{}); err != nil {
		t.Fatalf("failed to migrate preset model: %v", err)
	}
	return db, preset.NewService(db)
}

func TestCreatePreset(t *testing.T) {
	ctx := context.Background()
	_, svc := newPresetService(t)

	created, err := svc.Create(ctx, preset.MutationParams{
		Name:      "quick deal",
		TableSize: 13,
	})
	if err != nil {
		t.Fatalf("create preset failed: %v", err)
	}
	if created.ID == 0 || created.Name != "quick deal" {
		t.Fatalf("unexpected preset result: %+v", created)
	}
	if created.Status != preset.StatusEnabled {
		t.Fatalf("empty status should default to enabled, got %q", created.Status)
	}
}

func TestAdminListPresets(t *testing.T) {
	ctx := context.Background()
	db, svc := newPresetService(t)

	presets := []model.Preset{
		{Name: "A", TableSize: 27, Status: preset.StatusEnabled},
		{Name: "B", TableSize: 13, Status: preset.StatusEnabled},
		{Name: "C", TableSize: 5, Status: preset.StatusDisabled},
	}
	if err := db.WithContext(ctx).Create(&presets).Error; err != nil {
		t.Fatalf("seed presets failed: %v", err)
	}

	result, err := svc.AdminList(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list presets failed: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected total=3, got %d", result.Total)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected page size 2, got %d", len(result.Items))
	}

	enabled, err := svc.ListEnabled(ctx)
	if err != nil {
		t.Fatalf("list enabled failed: %v", err)
	}
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled presets, got %d", len(enabled))
	}
}

func TestUpdatePresetNotFound(t *testing.T) {
	ctx := context.Background()
	_, svc := newPresetService(t)

	_, err := svc.Update(ctx, 999, preset.MutationParams{
		Name:      "missing",
		TableSize: 10,
		Status:    preset.StatusEnabled,
	})
	if err == nil || !errors.Is(err, appErr.ErrPresetNotFound) {
		t.Fatalf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	ctx := context.Background()
	db, svc := newPresetService(t)

	seeded := []model.Preset{
		{Name: "live", TableSize: 27, Status: preset.StatusEnabled},
		{Name: "off", TableSize: 13, Status: preset.StatusDisabled},
	}
	if err := db.WithContext(ctx).Create(&seeded).Error; err != nil {
		t.Fatalf("seed presets failed: %v", err)
	}

	got, err := svc.Get(ctx, seeded[0].ID)
	if err != nil {
		t.Fatalf("get preset failed: %v", err)
	}
	if got.Name != "live" {
		t.Fatalf("unexpected preset: %+v", got)
	}

	if _, err := svc.Get(ctx, seeded[1].ID); !errors.Is(err, appErr.ErrPresetDisabled) {
		t.Fatalf("expected ErrPresetDisabled, got %v", err)
	}
	if _, err := svc.Get(ctx, 12345); !errors.Is(err, appErr.ErrPresetNotFound) {
		t.Fatalf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestEnsureDefaultIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, svc := newPresetService(t)

	if err := svc.EnsureDefault(ctx, "classic", 27); err != nil {
		t.Fatalf("ensure default failed: %v", err)
	}
	if err := svc.EnsureDefault(ctx, "classic", 27); err != nil {
		t.Fatalf("second ensure default failed: %v", err)
	}

	var count int64
	if err := db.WithContext(ctx).Model(&model.Preset{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one preset, got %d", count)
	}
}
