package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeclash/arena/internal/models"
)

// ErrRoomNotFound indicates an operation referenced an unknown room id.
var ErrRoomNotFound = errors.New("room not found")

// RoomStore is the keyed collection of live competition rooms. It is the only
// shared mutable resource in the engine; rooms exist until process teardown.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRoomStore creates an empty room store.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*Room)}
}

// Create allocates a new open room with a unique id.
func (s *RoomStore) Create(spec models.ProblemSpec) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := newRoomID()
	for s.rooms[id] != nil {
		id = newRoomID()
	}

	room := newRoom(id, spec, time.Now().UTC())
	s.rooms[id] = room
	return room
}

// Get returns the live room for id, or ErrRoomNotFound.
func (s *RoomStore) Get(id string) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room := s.rooms[id]
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Len reports how many rooms currently exist.
func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

func newRoomID() string {
	return fmt.Sprintf("room-%s", uuid.NewString()[:8])
}
