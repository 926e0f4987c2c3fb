package core

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/Multiplayer/internal/domain"
)

// ErrRoomClosed is returned by Admit when the room emptied and was released
// between lookup and admission. Callers fetch a fresh room and retry.
var ErrRoomClosed = errors.New("room closed")

// PlayerMap is the full member snapshot of a room keyed by session id.
type PlayerMap map[domain.PlayerID]domain.Player

// LeaveResult describes what a removal changed in the room.
type LeaveResult struct {
	Player       domain.Player
	Removed      bool
	WasHosting   bool
	WasPresenter bool
	BansCleared  bool
	Empty        bool
}

// HostGrant is returned when a session becomes host.
type HostGrant struct {
	Hosts    []SessionID
	Snapshot PlayerMap
}

// PresentingChange is returned when a host toggles a member's presenting flag.
type PresentingChange struct {
	Target     SessionID
	Presenting bool
	Hosts      []SessionID
	Snapshot   PlayerMap
}

// RoomService is the core-facing API of a room.
// It owns members, ban list and presenter lock but never touches transport resources.
// Every method is atomic with respect to the others.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MemberIDs() []SessionID
	Member(sid SessionID) (domain.Player, bool)
	Snapshot() PlayerMap

	// Admit inserts p unless its static id is banned (domain.ErrBanned)
	// or the room has already been released (ErrRoomClosed).
	Admit(p domain.Player) error
	// Remove stops the share if sid presents, removes it and clears the
	// ban list if no host remains. Empty rooms are closed for admission.
	Remove(sid SessionID) LeaveResult
	UpdateData(sid SessionID, data json.RawMessage) bool

	IsHost(sid SessionID) bool
	GrantHost(sid SessionID) (HostGrant, bool)
	TogglePresenting(requester, target SessionID) (PresentingChange, bool)
	CanModerate(requester, target SessionID) bool
	Ban(requester, target SessionID) (domain.StaticID, bool)
	IsBanned(staticID domain.StaticID) bool

	Presenter() (SessionID, bool)
	StartShare(sid SessionID) bool
	StopShare(sid SessionID) bool
	IsPresenter(sid SessionID) bool
}

type RoomInfo struct {
	Name        domain.RoomID `json:"name"`
	MemberCount int           `json:"client_count"`
	Presenting  bool          `json:"presenting"`
}

type RoomManager interface {
	GetOrCreate(id domain.RoomID) RoomService
	GetRoom(id domain.RoomID) (RoomService, bool)
	Rooms() []RoomService
	List() []RoomInfo
	// Release drops room from the registry if it is still the one registered under its id.
	Release(room RoomService)
	StopAll()
}
