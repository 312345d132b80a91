package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/go-redis/redis/v8"
)

// RedisStore keeps one JSON record per flight under "<prefix>flight:<number>"
// and the ordered flight numbers in the list "<prefix>flights".
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "flights"
}

func (s *RedisStore) flightKey(number string) string {
	return fmt.Sprintf("%sflight:%s", s.prefix, number)
}

// SaveAll replaces every stored flight atomically.
func (s *RedisStore) SaveAll(ctx context.Context, flights []*airline.Flight) error {
	old, err := s.client.LRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read flight index: %w", err)
	}

	payloads := make(map[string][]byte, len(flights))
	numbers := make([]interface{}, 0, len(flights))
	for _, f := range flights {
		data, err := json.Marshal(NewRecord(f))
		if err != nil {
			return fmt.Errorf("failed to marshal flight %s: %w", f.Number(), err)
		}
		payloads[f.Number()] = data
		numbers = append(numbers, f.Number())
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, n := range old {
			pipe.Del(ctx, s.flightKey(n))
		}
		pipe.Del(ctx, s.indexKey())
		for n, data := range payloads {
			pipe.Set(ctx, s.flightKey(n), data, 0)
		}
		if len(numbers) > 0 {
			pipe.RPush(ctx, s.indexKey(), numbers...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save flights: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadAll(ctx context.Context) ([]*airline.Flight, error) {
	numbers, err := s.client.LRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read flight index: %w", err)
	}

	records := make([]FlightRecord, 0, len(numbers))
	for _, n := range numbers {
		data, err := s.client.Get(ctx, s.flightKey(n)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get flight %s: %w", n, err)
		}
		var rec FlightRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal flight %s: %w", n, err)
		}
		records = append(records, rec)
	}
	return Snapshot{Flights: records}.Restore()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
