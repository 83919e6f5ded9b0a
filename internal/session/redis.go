package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/festival"
)

// RedisStore keeps sessions as JSON strings in Redis with a sliding TTL.
type RedisStore struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedisStore returns a store using rc. Keys are "<prefix>:<id>".
func NewRedisStore(rc *redis.Client, prefix string, ttl time.Duration, log *logrus.Logger) *RedisStore {
	return &RedisStore{rc: rc, prefix: prefix, ttl: ttl, log: log}
}

// NewRedisClient connects to addr and pings it with a short timeout. It
// returns nil when the server cannot be reached so callers can fall back to
// a MemoryStore.
func NewRedisClient(addr, password string, db int) *redis.Client {
	rc := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil
	}
	return rc
}

func (s *RedisStore) key(id string) string { return s.prefix + ":" + id }

// Load returns the snapshot stored under id and extends its TTL.
func (s *RedisStore) Load(ctx context.Context, id string) (festival.SelectionSnapshot, error) {
	var snap festival.SelectionSnapshot
	raw, err := s.rc.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return snap, ErrNotFound
		}
		return snap, fmt.Errorf("redis get session: %w", err)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, fmt.Errorf("decode session: %w", err)
	}
	if s.ttl > 0 {
		if err := s.rc.Expire(ctx, s.key(id), s.ttl).Err(); err != nil {
			s.log.WithContext(ctx).WithError(err).WithField("session_id", id).Warn("refresh session ttl")
		}
	}
	return snap, nil
}

// Save stores snap under id.
func (s *RedisStore) Save(ctx context.Context, id string, snap festival.SelectionSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rc.Set(ctx, s.key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Delete removes id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rc.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
