package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"thermo/internal/db"
	"thermo/internal/models"
)

// gormStore — реляционный вариант хранилища (devices + readings),
// без окна хранения: показания не протухают.
type gormStore struct {
	db *gorm.DB
}

func OpenGorm(driver, dsn string) (*gormStore, error) {
	d, err := db.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return NewGormStore(d)
}

func NewGormStore(d *gorm.DB) (*gormStore, error) {
	if err := d.AutoMigrate(&models.Device{}, &models.Reading{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &gormStore{db: d}, nil
}

func (s *gormStore) Register(ctx context.Context, deviceID, name string) (models.Device, bool, error) {
	dev := models.Device{DeviceID: deviceID, Name: name}
	// INSERT ... ON CONFLICT DO NOTHING: конкурентная регистрация одного
	// id не создаёт вторую строку; RowsAffected говорит, чья вставка прошла.
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "device_id"}}, DoNothing: true}).
		Create(&dev)
	if res.Error != nil {
		return models.Device{}, false, fmt.Errorf("register %s: %w", deviceID, res.Error)
	}
	var out models.Device
	if err := s.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&out).Error; err != nil {
		return models.Device{}, false, fmt.Errorf("register %s: %w", deviceID, err)
	}
	return out, res.RowsAffected > 0, nil
}

func (s *gormStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Device{}).Pluck("device_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return ids, nil
}

func (s *gormStore) Exists(ctx context.Context, deviceID string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Device{}).Where("device_id = ?", deviceID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *gormStore) Append(ctx context.Context, deviceID string, r models.Reading) error {
	r.DeviceID = deviceID
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return fmt.Errorf("append %s: %w", deviceID, err)
	}
	return nil
}

func (s *gormStore) Query(ctx context.Context, deviceID string) ([]models.Reading, error) {
	rows := []models.Reading{}
	err := s.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("timestamp asc").Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", deviceID, err)
	}
	return rows, nil
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
