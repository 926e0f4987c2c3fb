package domain

// Member represents the connection-level identity of a client.
// No transport or lifecycle logic here.
type Member struct {
	ID       PlayerID
	StaticID StaticID
	// Device is the cookie token of the browser the connection came from.
	Device string
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(id PlayerID, device string) *Member {
	return &Member{ID: id, Device: device}
}
