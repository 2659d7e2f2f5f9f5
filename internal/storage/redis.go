package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"thermo/internal/models"
)

// redisStore — основной бэкенд: список показаний на устройство с TTL
// и общий set идентификаторов.
//
//	series:<device_id>  LIST  сериализованные Record, новые в голове
//	device_ids          SET   все зарегистрированные id
type redisStore struct {
	rdb       *redis.Client
	retention time.Duration
}

const deviceSetKey = "device_ids"

func seriesKey(deviceID string) string { return "series:" + deviceID }
func nameKey(deviceID string) string   { return "device:name:" + deviceID }

func OpenRedis(addr, password string, db int, retention time.Duration) (*redisStore, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connect %s: %w", addr, err)
	}
	return &redisStore{rdb: client, retention: retention}, nil
}

// NewRedisStore оборачивает уже подключённый клиент (используется в тестах).
func NewRedisStore(client *redis.Client, retention time.Duration) *redisStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &redisStore{rdb: client, retention: retention}
}

func (s *redisStore) Register(ctx context.Context, deviceID, name string) (models.Device, bool, error) {
	// SADD атомарен — конкурентная регистрация одного id даёт одну
	// запись, и ровно один вызов видит added=1.
	added, err := s.rdb.SAdd(ctx, deviceSetKey, deviceID).Result()
	if err != nil {
		return models.Device{}, false, fmt.Errorf("register %s: %w", deviceID, err)
	}
	// имя пишется один раз (SETNX): повторная регистрация не меняет запись
	if name != "" {
		if err := s.rdb.SetNX(ctx, nameKey(deviceID), name, 0).Err(); err != nil {
			return models.Device{}, false, fmt.Errorf("register %s: %w", deviceID, err)
		}
	}
	stored, err := s.rdb.Get(ctx, nameKey(deviceID)).Result()
	if err != nil && err != redis.Nil {
		return models.Device{}, false, fmt.Errorf("register %s: %w", deviceID, err)
	}
	return models.Device{DeviceID: deviceID, Name: stored}, added > 0, nil
}

func (s *redisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, deviceSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return ids, nil
}

func (s *redisStore) Exists(ctx context.Context, deviceID string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, deviceSetKey, deviceID).Result()
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", deviceID, err)
	}
	return ok, nil
}

func (s *redisStore) Append(ctx context.Context, deviceID string, r models.Reading) error {
	raw, err := json.Marshal(r.ToRecord())
	if err != nil {
		return err
	}
	key := seriesKey(deviceID)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.Expire(ctx, key, s.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append %s: %w", deviceID, err)
	}
	return nil
}

func (s *redisStore) Query(ctx context.Context, deviceID string) ([]models.Reading, error) {
	raws, err := s.rdb.LRange(ctx, seriesKey(deviceID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []models.Reading{}, nil
		}
		return nil, fmt.Errorf("query %s: %w", deviceID, err)
	}
	out := make([]models.Reading, 0, len(raws))
	// список хранится новыми-вперёд, разворачиваем в хронологию
	for i := len(raws) - 1; i >= 0; i-- {
		var rec models.Record
		if err := json.Unmarshal([]byte(raws[i]), &rec); err != nil {
			continue // повреждённая запись не роняет выдачу
		}
		ts, err := time.ParseInLocation(models.TimestampLayout, rec.Timestamp, time.Local)
		if err != nil {
			continue
		}
		out = append(out, models.Reading{
			Celsius:    rec.Celsius,
			Fahrenheit: rec.Fahrenheit,
			Kelvin:     rec.Kelvin,
			DeviceID:   rec.DeviceID,
			Timestamp:  ts,
		})
	}
	return out, nil
}

func (s *redisStore) Ping(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }
func (s *redisStore) Close() error                   { return s.rdb.Close() }
