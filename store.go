package main

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// Store holds active crossword sessions in memory.
type Store struct {
	mu    sync.RWMutex
	games map[string]*GameSession
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		games: make(map[string]*GameSession),
	}
}

// CreateGame starts a session on layout and registers it under a fresh ID.
func (s *Store) CreateGame(layout *Layout) *GameSession {
	game := NewGameSession(generateID(), layout)

	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()

	return game
}

// GetGame returns a game session by ID, or nil if not found.
func (s *Store) GetGame(id string) *GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games[id]
}

// DeleteGame discards a session. Returns false if it did not exist.
func (s *Store) DeleteGame(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return false
	}
	delete(s.games, id)
	return true
}

// ListGames returns all sessions, most recent first.
func (s *Store) ListGames() []*GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*GameSession, 0, len(s.games))
	for _, g := range s.games {
		list = append(list, g)
	}
	// Sort by CreatedAt descending (simple insertion, small N).
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].CreatedAt.After(list[j-1].CreatedAt); j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
	return list
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
