package storage

import (
	"context"
	"sync"
	"time"

	"thermo/internal/models"
)

// memStore — in-memory хранилище (fallback без внешней БД).
// Реестр живёт под общим RWMutex, показания каждой серии — под своим
// мьютексом, чтобы записи разных устройств не сериализовались.
type memStore struct {
	retention time.Duration
	now       func() time.Time

	mu      sync.RWMutex
	devices map[string]*memSeries
}

type memSeries struct {
	dev models.Device

	mu       sync.Mutex
	readings []models.Reading // новые в голове
	expires  time.Time
}

func NewMemStore(retention time.Duration) *memStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &memStore{
		retention: retention,
		now:       time.Now,
		devices:   make(map[string]*memSeries),
	}
}

func (m *memStore) series(deviceID string, create bool) (*memSeries, bool) {
	m.mu.RLock()
	s := m.devices[deviceID]
	m.mu.RUnlock()
	if s != nil || !create {
		return s, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := false
	if s = m.devices[deviceID]; s == nil {
		s = &memSeries{dev: models.Device{DeviceID: deviceID, CreatedAt: m.now()}}
		m.devices[deviceID] = s
		created = true
	}
	return s, created
}

func (m *memStore) Register(_ context.Context, deviceID, name string) (models.Device, bool, error) {
	s, created := m.series(deviceID, true)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev.Name == "" && name != "" {
		s.dev.Name = name
	}
	return s.dev, created, nil
}

func (m *memStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.devices))
	for id := range m.devices {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) Exists(_ context.Context, deviceID string) (bool, error) {
	m.mu.RLock()
	_, ok := m.devices[deviceID]
	m.mu.RUnlock()
	return ok, nil
}

func (m *memStore) Append(_ context.Context, deviceID string, r models.Reading) error {
	s, _ := m.series(deviceID, true)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked(m.now())
	s.readings = append([]models.Reading{r}, s.readings...)
	s.expires = m.now().Add(m.retention)
	return nil
}

func (m *memStore) Query(_ context.Context, deviceID string) ([]models.Reading, error) {
	s, _ := m.series(deviceID, false)
	if s == nil {
		return []models.Reading{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked(m.now())
	out := make([]models.Reading, len(s.readings))
	// серия хранится новыми-вперёд, отдаём хронологически
	for i, r := range s.readings {
		out[len(out)-1-i] = r
	}
	return out, nil
}

// purgeLocked лениво сбрасывает протухшую серию. Запись устройства в
// реестре остаётся — удаляются только показания.
func (s *memSeries) purgeLocked(now time.Time) {
	if len(s.readings) > 0 && now.After(s.expires) {
		s.readings = nil
	}
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close() error               { return nil }
