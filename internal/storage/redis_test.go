package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*redisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisRegisterAndList(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	for i := 0; i < 3; i++ {
		_, created, err := s.Register(ctx, "abc123", "")
		if err != nil {
			t.Fatal(err)
		}
		if created != (i == 0) {
			t.Fatalf("registration %d: created=%v", i, created)
		}
	}
	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "abc123" {
		t.Fatalf("expected single id, got %v", ids)
	}
	ok, err := s.Exists(ctx, "abc123")
	if err != nil || !ok {
		t.Fatalf("exists: %v %v", ok, err)
	}
	ok, _ = s.Exists(ctx, "other")
	if ok {
		t.Fatal("unknown id reported as existing")
	}
}

func TestRedisRegisterKeepsFirstName(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	d1, _, err := s.Register(ctx, "abc123", "kitchen")
	if err != nil {
		t.Fatal(err)
	}
	if d1.Name != "kitchen" {
		t.Fatalf("name not persisted: %+v", d1)
	}
	d2, _, err := s.Register(ctx, "abc123", "other")
	if err != nil {
		t.Fatal(err)
	}
	if d2.Name != "kitchen" {
		t.Fatalf("existing record must be returned unchanged, got %q", d2.Name)
	}
}

func TestRedisAppendQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)

	for i := 0; i < 3; i++ {
		if err := s.Append(ctx, "dev1", reading("dev1", 20+float64(i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Query(ctx, "dev1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(got))
	}
	// хронология: старые первыми
	if got[0].Celsius != 20 || got[2].Celsius != 22 {
		t.Fatalf("wrong order: %v", got)
	}
	if !got[0].Timestamp.Equal(base) {
		t.Fatalf("timestamp mangled: %v != %v", got[0].Timestamp, base)
	}
}

func TestRedisSeriesTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	if err := s.Append(ctx, "dev1", reading("dev1", 20, time.Now())); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(seriesKey("dev1")); ttl != time.Hour {
		t.Fatalf("expected 1h TTL on series, got %v", ttl)
	}

	// не протухла в пределах окна
	mr.FastForward(30 * time.Minute)
	got, _ := s.Query(ctx, "dev1")
	if len(got) != 1 {
		t.Fatalf("series lost early: %v", got)
	}

	// append освежает TTL
	if err := s.Append(ctx, "dev1", reading("dev1", 21, time.Now())); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(45 * time.Minute)
	got, _ = s.Query(ctx, "dev1")
	if len(got) != 2 {
		t.Fatalf("refresh failed: %v", got)
	}

	// окно прошло без записей — серии нет, реестр цел
	mr.FastForward(2 * time.Hour)
	got, err := s.Query(ctx, "dev1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired series, got %v", got)
	}
}

func TestRedisQueryUnknownDevice(t *testing.T) {
	s, _ := newRedisStore(t)
	got, err := s.Query(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestRedisCorruptEntrySkipped(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	s.Append(ctx, "dev1", reading("dev1", 20, time.Now()))
	mr.Lpush(seriesKey("dev1"), "{not json")

	got, err := s.Query(ctx, "dev1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("corrupt entry should be skipped, got %v", got)
	}
}
