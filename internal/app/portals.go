package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/rs/zerolog/log"
)

// PortalRegistry keeps open portals in one global namespace.
type PortalRegistry struct {
	mu      sync.Mutex
	portals map[domain.PortalID]domain.Portal
}

func NewPortalRegistry() *PortalRegistry {
	return &PortalRegistry{portals: make(map[domain.PortalID]domain.Portal)}
}

// Open registers a portal. It reports false if the id is already taken.
func (r *PortalRegistry) Open(id domain.PortalID, target domain.RoomID, owner domain.PlayerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.portals[id]; ok {
		return false
	}
	r.portals[id] = domain.Portal{ID: id, Target: target, Owner: owner}
	log.Info().Str("module", "app.portals").Str("portal", string(id)).Str("room", string(target)).Str("owner", string(owner)).Msg("portal opened")
	return true
}

// Close removes the portal only when requested by its owner.
func (r *PortalRegistry) Close(id domain.PortalID, requester domain.PlayerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.portals[id]
	if !ok || p.Owner != requester {
		return false
	}
	delete(r.portals, id)
	log.Info().Str("module", "app.portals").Str("portal", string(id)).Msg("portal closed")
	return true
}

// CloseOwnedBy removes every portal of owner and returns their ids.
func (r *PortalRegistry) CloseOwnedBy(owner domain.PlayerID) []domain.PortalID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var closed []domain.PortalID
	for id, p := range r.portals {
		if p.Owner == owner {
			delete(r.portals, id)
			closed = append(closed, id)
		}
	}
	if len(closed) > 0 {
		log.Info().Str("module", "app.portals").Str("owner", string(owner)).Int("count", len(closed)).Msg("owner portals closed")
	}
	return closed
}

// List returns open portals ordered by id.
func (r *PortalRegistry) List() []domain.Portal {
	r.mu.Lock()
	out := make([]domain.Portal, 0, len(r.portals))
	for _, p := range r.portals {
		out = append(out, p)
	}
	r.mu.Unlock()
	slices.SortFunc(out, func(a, b domain.Portal) int { return strings.Compare(string(a.ID), string(b.ID)) })
	return out
}
