package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"Emberveil/internal/game"
)

const redisOpTimeout = 5 * time.Second

// RedisStore persists player profiles in Redis under player: keys. Profiles
// never expire; Redis is the durable record when the deployment prefers a
// shared store over per-host files.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedisStore(addr, password string, db int, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, log: log}
}

// NewRedisStoreFromClient wraps an existing client, used by tests.
func NewRedisStoreFromClient(client *redis.Client, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}
	return &RedisStore{client: client, log: log}
}

func profileKey(name string) string {
	return "player:" + strings.ToLower(name)
}

// Ping verifies connectivity, used during startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(name string) (game.Profile, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, profileKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.Profile{}, false, nil
	}
	if err != nil {
		return game.Profile{}, false, fmt.Errorf("load profile: %w", err)
	}
	var profile game.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return game.Profile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return profile, true, nil
}

func (s *RedisStore) Save(profile game.Profile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return fmt.Errorf("store: profile requires a name")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := s.client.Set(ctx, profileKey(profile.Name), data, 0).Err(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// All returns every stored profile, used by the archiver.
func (s *RedisStore) All() ([]game.Profile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	var profiles []game.Profile
	iter := s.client.Scan(ctx, 0, "player:*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			s.log.Warn("read profile during scan", "key", iter.Val(), "error", err)
			continue
		}
		var profile game.Profile
		if err := json.Unmarshal(data, &profile); err != nil {
			continue
		}
		profiles = append(profiles, profile)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}
	return profiles, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
