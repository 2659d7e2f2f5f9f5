package storage

import (
	"context"
	"fmt"
	"time"

	"thermo/config"
	"thermo/internal/models"
)

// DefaultRetention — окно хранения серии без новых записей.
const DefaultRetention = time.Hour

// Registry — контракт реестра устройств.
type Registry interface {
	// Register идемпотентна: повторная регистрация того же id возвращает
	// существующую запись и created=false. Check-and-set атомарный —
	// конкурентная регистрация нового id отдаёт created=true ровно одному
	// вызову.
	Register(ctx context.Context, deviceID, name string) (dev models.Device, created bool, err error)
	List(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, deviceID string) (bool, error)
}

// Series — контракт хранилища показаний.
type Series interface {
	// Append добавляет показание в голову серии устройства и обновляет
	// срок жизни серии.
	Append(ctx context.Context, deviceID string, r models.Reading) error
	// Query возвращает показания в хронологическом порядке (старые первыми).
	// Неизвестное или протухшее устройство — пустой срез, не ошибка.
	Query(ctx context.Context, deviceID string) ([]models.Reading, error)
}

// Store — единое хранилище: реестр + серии.
type Store interface {
	Registry
	Series
	Ping(ctx context.Context) error
	Close() error
}

// Open подключает хранилище по driver из конфига.
// Поддержка: "redis" | "mysql" | "postgres" | "" (in-memory режим).
func Open(cfg *config.Config) (Store, error) {
	retention := cfg.RetentionWindow()
	switch drv := cfg.Storage.Driver; drv {
	case "":
		return NewMemStore(retention), nil
	case "redis":
		return OpenRedis(cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB, retention)
	case "mysql", "postgres", "sqlite":
		return OpenGorm(drv, cfg.Storage.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", drv)
	}
}
