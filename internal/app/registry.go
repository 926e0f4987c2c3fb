package app

import (
	"context"
	"sync"

	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/rs/zerolog/log"
)

type joinState int

const (
	notJoined joinState = iota
	joining
	joined
)

type sessionEntry struct {
	RoomID  domain.RoomID
	Session core.MemberSession
	Ctx     context.Context
	Cancel  context.CancelFunc
	state   joinState
	inRoom  bool
}

// Registry tracks live connections: their transport, the room they are in
// and whether they already used their one join.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

func (r *Registry) BindSignal(ctx context.Context, sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Session: sess, Ctx: ctx, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

// BeginJoin reserves the single join a connection is allowed.
func (r *Registry) BeginJoin(sid core.SessionID, staticID domain.StaticID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return domain.ErrNotJoined
	}
	if e.state != notJoined {
		return domain.ErrAlreadyJoined
	}
	e.state = joining
	e.Session.Meta().StaticID = staticID
	return nil
}

// AbortJoin hands the join back after a refused admission.
func (r *Registry) AbortJoin(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok && e.state == joining {
		e.state = notJoined
	}
}

func (r *Registry) CompleteJoin(sid core.SessionID, roomID domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.state = joined
	e.RoomID = roomID
	e.inRoom = true
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomID)).Msg("joined room")
	return true
}

func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomID, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[sid]
	if !ok || !entry.inRoom {
		return "", nil, false
	}
	return entry.RoomID, entry.Session, true
}

// RemoveRoom forgets the room association. The join stays spent.
func (r *Registry) RemoveRoom(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[sid]; ok {
		entry.inRoom = false
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("removed room association")
}

// SessionSnap pairs a session id with its transport.
type SessionSnap struct {
	SID     core.SessionID
	Session core.MemberSession
}

// Signals resolves transports for the given sessions, skipping unknown ones.
func (r *Registry) Signals(sids []core.SessionID) []SessionSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SessionSnap, 0, len(sids))
	for _, sid := range sids {
		if e, ok := r.sessions[sid]; ok {
			out = append(out, SessionSnap{SID: sid, Session: e.Session})
		}
	}
	return out
}

func (r *Registry) All() []SessionSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SessionSnap, 0, len(r.sessions))
	for sid, e := range r.sessions {
		out = append(out, SessionSnap{SID: sid, Session: e.Session})
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}
