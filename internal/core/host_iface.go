package core

//go:generate mockgen -source=host_iface.go -destination=mocks/mock_host_authorizer.go -package=mocks

import (
	"context"

	"github.com/dkeye/Multiplayer/internal/domain"
)

// HostAuthorizer decides whether a static id may host a room.
// A nil error means approval.
type HostAuthorizer interface {
	Authorize(ctx context.Context, staticID domain.StaticID, room domain.RoomID) error
}
