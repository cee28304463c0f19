// Package store holds all live rooms in memory. Nothing survives a
// process restart.
package store

import (
	"crypto/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"camelot/internal/config"
	"camelot/internal/game"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RoomStore is the registry of rooms by code, the only mutable structure
// shared across connections.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room
	cfg   *config.Config
	log   *zap.Logger
	stop  chan struct{}
	once  sync.Once
}

// New creates an empty room store
func New(cfg *config.Config, log *zap.Logger) *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*game.Room),
		cfg:   cfg,
		log:   log,
		stop:  make(chan struct{}),
	}
}

// Create registers a new room with the host seated first. The code is
// random, not unique by construction, so it is re-rolled on collision.
func (s *RoomStore) Create(host *game.Player, targetCount int) (*game.Room, error) {
	if !game.SupportedCount(targetCount) {
		return nil, game.ErrUnsupportedCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for {
		code = generateCode(s.cfg.Game.RoomCodeLength)
		if _, exists := s.rooms[code]; !exists {
			break
		}
	}

	room := game.NewRoom(code, targetCount, host)
	s.rooms[code] = room
	return room, nil
}

// Get retrieves a room by code
func (s *RoomStore) Get(code string) (*game.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, exists := s.rooms[code]
	if !exists {
		return nil, game.ErrRoomNotFound
	}
	return room, nil
}

// Remove retires a room. Scheduled tasks that still hold its code will
// fail the lookup and no-op.
func (s *RoomStore) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, code)
}

// Count returns the number of live rooms
func (s *RoomStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms)
}

// StartJanitor begins periodic retirement of finished and abandoned
// rooms: ended rooms linger for EndedRoomTTL so clients can read the
// result, lobbies that never start expire after LobbyTimeout.
func (s *RoomStore) StartJanitor() {
	go func() {
		ticker := time.NewTicker(s.cfg.Game.JanitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep(time.Now())
			case <-s.stop:
				return
			}
		}
	}()
}

// Close stops the janitor
func (s *RoomStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *RoomStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for code, room := range s.rooms {
		room.Mu.RLock()
		expired := (room.Phase == game.PhaseEnd && now.Sub(room.EndedAt) > s.cfg.Game.EndedRoomTTL) ||
			(room.Phase == game.PhaseLobby && now.Sub(room.CreatedAt) > s.cfg.Game.LobbyTimeout)
		phase := room.Phase
		room.Mu.RUnlock()

		if expired {
			delete(s.rooms, code)
			s.log.Info("room retired", zap.String("room", code), zap.String("phase", string(phase)))
		}
	}
}

// generateCode returns a human-typable uppercase alphanumeric code
func generateCode(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[b[i]%byte(len(codeAlphabet))]
	}
	return string(b)
}
