package core

import (
	"encoding/json"
	"maps"
	"slices"
	"sync"

	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room *domain.Room

	mu        sync.RWMutex
	members   map[SessionID]*domain.Player
	presenter SessionID
	bans      map[domain.StaticID]struct{}
	closed    bool
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:    room,
		members: make(map[SessionID]*domain.Player),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *roomImpl) MemberIDs() []SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Collect(maps.Keys(r.members))
}

func (r *roomImpl) Member(sid SessionID) (domain.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.members[sid]
	if !ok {
		return domain.Player{}, false
	}
	return *p, true
}

func (r *roomImpl) Snapshot() PlayerMap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *roomImpl) snapshotLocked() PlayerMap {
	out := make(PlayerMap, len(r.members))
	for _, p := range r.members {
		out[p.ID] = *p
	}
	return out
}

func (r *roomImpl) Admit(p domain.Player) error {
	sid := SessionID(p.ID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	if _, banned := r.bans[p.StaticID]; banned {
		log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Str("static_id", string(p.StaticID)).Msg("banned member refused")
		return domain.ErrBanned
	}
	p.Hosting = false
	p.Presenting = false
	r.members[sid] = &p
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("member added")
	return nil
}

func (r *roomImpl) Remove(sid SessionID) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.members[sid]
	if !ok {
		return LeaveResult{Empty: len(r.members) == 0}
	}
	res := LeaveResult{Player: *p, Removed: true, WasHosting: p.Hosting}
	if r.presenter == sid {
		r.presenter = ""
		res.WasPresenter = true
	}
	delete(r.members, sid)

	if res.WasHosting && !r.anyHostLocked() && len(r.bans) > 0 {
		r.bans = nil
		res.BansCleared = true
	}
	if len(r.members) == 0 {
		r.closed = true
		r.bans = nil
		res.Empty = true
	}
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Bool("was_hosting", res.WasHosting).Bool("bans_cleared", res.BansCleared).Msg("member removed")
	return res
}

func (r *roomImpl) UpdateData(sid SessionID, data json.RawMessage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.members[sid]
	if !ok {
		return false
	}
	p.MultiplayerData = data
	return true
}

func (r *roomImpl) IsHost(sid SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isHostLocked(sid)
}

func (r *roomImpl) isHostLocked(sid SessionID) bool {
	p, ok := r.members[sid]
	return ok && p.Hosting
}

// anyHostLocked scans this room's own members.
func (r *roomImpl) anyHostLocked() bool {
	for _, p := range r.members {
		if p.Hosting {
			return true
		}
	}
	return false
}

func (r *roomImpl) hostIDsLocked() []SessionID {
	var out []SessionID
	for sid, p := range r.members {
		if p.Hosting {
			out = append(out, sid)
		}
	}
	return out
}

func (r *roomImpl) GrantHost(sid SessionID) (HostGrant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.members[sid]
	if !ok {
		return HostGrant{}, false
	}
	p.Hosting = true
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("host granted")
	return HostGrant{Hosts: r.hostIDsLocked(), Snapshot: r.snapshotLocked()}, true
}

func (r *roomImpl) TogglePresenting(requester, target SessionID) (PresentingChange, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isHostLocked(requester) {
		return PresentingChange{}, false
	}
	p, ok := r.members[target]
	if !ok {
		return PresentingChange{}, false
	}
	p.Presenting = !p.Presenting
	return PresentingChange{
		Target:     target,
		Presenting: p.Presenting,
		Hosts:      r.hostIDsLocked(),
		Snapshot:   r.snapshotLocked(),
	}, true
}

func (r *roomImpl) CanModerate(requester, target SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isHostLocked(requester) {
		return false
	}
	_, ok := r.members[target]
	return ok
}

// Ban records the target's static id. Hosts cannot ban hosts, and a target
// without a static id cannot be banned since it would match every anonymous joiner.
func (r *roomImpl) Ban(requester, target SessionID) (domain.StaticID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isHostLocked(requester) || r.isHostLocked(target) {
		return "", false
	}
	p, ok := r.members[target]
	if !ok || p.StaticID == "" {
		return "", false
	}
	if r.bans == nil {
		r.bans = make(map[domain.StaticID]struct{})
	}
	r.bans[p.StaticID] = struct{}{}
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(target)).Str("static_id", string(p.StaticID)).Msg("member banned")
	return p.StaticID, true
}

func (r *roomImpl) IsBanned(staticID domain.StaticID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bans[staticID]
	return ok
}

func (r *roomImpl) Presenter() (SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.presenter, r.presenter != ""
}

func (r *roomImpl) StartShare(sid SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.presenter != "" {
		return false
	}
	if _, ok := r.members[sid]; !ok {
		return false
	}
	r.presenter = sid
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("screen share started")
	return true
}

func (r *roomImpl) StopShare(sid SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.presenter == "" || r.presenter != sid {
		return false
	}
	r.presenter = ""
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("screen share stopped")
	return true
}

func (r *roomImpl) IsPresenter(sid SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.presenter != "" && r.presenter == sid
}
