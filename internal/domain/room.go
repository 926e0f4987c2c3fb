package domain

type (
	RoomID   string
	PortalID string
)

type Room struct {
	ID RoomID
}

// Portal links to a target room. Portal ids share one global namespace.
type Portal struct {
	ID     PortalID `json:"portal"`
	Target RoomID   `json:"room"`
	Owner  PlayerID `json:"-"`
}
