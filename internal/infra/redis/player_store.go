package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keiprogram/English-Test-App/internal/app"
)

// PlayerStore is a Redis-aware implementation of app.PlayerRepository.
// Notes:
//   - Quiz state stays in a local in-memory map; it is never written to Redis.
//   - Redis only carries a liveness marker per player, refreshed on every access,
//     so operators can count active players across instances.
type PlayerStore struct {
	client  *redis.Client
	ttl     time.Duration
	mu      sync.RWMutex
	players map[string]*app.Player
}

func NewPlayerStore(client *redis.Client, ttl time.Duration) *PlayerStore {
	return &PlayerStore{
		client:  client,
		ttl:     ttl,
		players: make(map[string]*app.Player),
	}
}

func (s *PlayerStore) GetOrCreate(playerID string) *app.Player {
	s.mu.Lock()
	p, ok := s.players[playerID]
	if !ok {
		p = app.NewPlayer(playerID)
		s.players[playerID] = p
	}
	s.mu.Unlock()
	s.touch(playerID)
	return p
}

func (s *PlayerStore) Get(playerID string) (*app.Player, bool) {
	s.mu.RLock()
	p, ok := s.players[playerID]
	s.mu.RUnlock()
	if ok {
		s.touch(playerID)
	}
	return p, ok
}

// ActivePlayers counts liveness markers across every instance sharing the Redis.
func (s *PlayerStore) ActivePlayers(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

// best-effort liveness marker; never called under s.mu
func (s *PlayerStore) touch(playerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()
	_ = s.client.Set(ctx, s.key(playerID), "1", s.ttl).Err()
}

const (
	keyPrefix    = "quiz:player:"
	touchTimeout = 200 * time.Millisecond
)

func (s *PlayerStore) key(playerID string) string {
	return keyPrefix + playerID
}
