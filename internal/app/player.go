package app

import (
	"math/rand"
	"sync"
	"time"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

// Player holds one learner's state between UI events: the current round, its pool,
// the missed-word memory and every word answered correctly so far.
type Player struct {
	id   string
	seed int64
	now  func() time.Time

	mu        sync.Mutex
	round     int
	started   bool
	state     domain.SessionState
	pool      domain.Pool
	missed    domain.MissedWords
	seen      []domain.WordEntry
	updatedAt time.Time
}

// NewPlayer is exported for infrastructure layers that need to seed players.
func NewPlayer(id string) *Player {
	return NewPlayerWithSeed(id, time.Now().UnixNano())
}

// NewPlayerWithSeed fixes the random source, making rounds and option order reproducible.
func NewPlayerWithSeed(id string, seed int64) *Player {
	return newPlayerWithClock(id, seed, time.Now)
}

func newPlayerWithClock(id string, seed int64, now func() time.Time) *Player {
	return &Player{
		id:        id,
		seed:      seed,
		now:       now,
		missed:    domain.MissedWords{},
		updatedAt: now(),
	}
}

// ID returns the player identifier.
func (p *Player) ID() string {
	return p.id
}

// UpdatedAt reports the last time the player's state changed.
func (p *Player) UpdatedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updatedAt
}

// rngFor derives a source from the seed, the round number and a salt, so the same
// logical step always sees the same random sequence however often it is re-run.
func (p *Player) rngFor(round int, salt int) *rand.Rand {
	return rand.New(rand.NewSource(p.seed ^ int64(round)<<32 ^ int64(salt)))
}

// correctSeen lists earlier rounds' correct answers followed by this round's.
func (p *Player) correctSeen() []domain.WordEntry {
	out := make([]domain.WordEntry, 0, len(p.seen)+len(p.state.RoundCorrect))
	out = append(out, p.seen...)
	return append(out, p.state.RoundCorrect...)
}
