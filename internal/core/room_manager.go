package core

import (
	"sync"

	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/rs/zerolog/log"
)

type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]RoomService
}

func NewRoomManager() RoomManager {
	return &RoomManagerImpl{rooms: make(map[domain.RoomID]RoomService)}
}

func (m *RoomManagerImpl) GetOrCreate(id domain.RoomID) RoomService {
	m.mu.RLock()
	room, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return room
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok = m.rooms[id]; ok {
		return room
	}
	room = NewRoomService(&domain.Room{ID: id})
	m.rooms[id] = room
	log.Info().Str("module", "core.rooms").Str("room", string(id)).Msg("room created")
	return room
}

func (m *RoomManagerImpl) GetRoom(id domain.RoomID) (RoomService, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

func (m *RoomManagerImpl) Rooms() []RoomService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomService, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

func (m *RoomManagerImpl) List() []RoomInfo {
	rooms := m.Rooms()
	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		_, presenting := r.Presenter()
		out = append(out, RoomInfo{Name: r.Room().ID, MemberCount: r.MemberCount(), Presenting: presenting})
	}
	return out
}

func (m *RoomManagerImpl) Release(room RoomService) {
	id := room.Room().ID
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.rooms[id]; ok && cur == room {
		delete(m.rooms, id)
		log.Info().Str("module", "core.rooms").Str("room", string(id)).Msg("room released")
	}
}

func (m *RoomManagerImpl) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.rooms)
}
