package memory

import (
	"sync"

	"github.com/keiprogram/English-Test-App/internal/app"
)

// PlayerStore is an in-memory implementation of app.PlayerRepository.
// Players live for the lifetime of the process.
type PlayerStore struct {
	mu      sync.RWMutex
	players map[string]*app.Player
	newFn   func(id string) *app.Player
}

func NewPlayerStore() *PlayerStore {
	return NewPlayerStoreWith(app.NewPlayer)
}

// NewPlayerStoreWith lets callers control how players are created, e.g. with a fixed seed.
func NewPlayerStoreWith(newFn func(id string) *app.Player) *PlayerStore {
	return &PlayerStore{
		players: make(map[string]*app.Player),
		newFn:   newFn,
	}
}

func (s *PlayerStore) GetOrCreate(playerID string) *app.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[playerID]; ok {
		return p
	}
	p := s.newFn(playerID)
	s.players[playerID] = p
	return p
}

func (s *PlayerStore) Get(playerID string) (*app.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[playerID]
	return p, ok
}

// Len reports how many players are held.
func (s *PlayerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
