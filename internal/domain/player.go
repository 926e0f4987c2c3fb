// Package domain contains entity without logic, just meta-data
package domain

import (
	"encoding/json"
	"errors"
)

const MaxStaticIDLen = 64

var (
	ErrBanned        = errors.New("banned from room")
	ErrAlreadyJoined = errors.New("connection already joined a room")
	ErrNotJoined     = errors.New("connection has not joined a room")
	ErrStaticIDLong  = errors.New("static id too long")
)

// PlayerID equals the session id of the connection owning the player.
type PlayerID string

// StaticID is supplied by the client and survives reconnects. Bans match on it.
type StaticID string

// Player is the per-room profile of a connection.
type Player struct {
	ID              PlayerID        `json:"id"`
	StaticID        StaticID        `json:"staticId"`
	Hosting         bool            `json:"hosting,omitempty"`
	Presenting      bool            `json:"presenting,omitempty"`
	MultiplayerData json.RawMessage `json:"multiplayerData,omitempty"`
	Profile         json.RawMessage `json:"profile,omitempty"`
}

// NewPlayer builds a player from the raw object a client sends on join.
// The whole object is kept as the profile; only staticId is interpreted.
func NewPlayer(id PlayerID, raw json.RawMessage) (Player, error) {
	p := Player{ID: id}
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	var head struct {
		StaticID StaticID `json:"staticId"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Player{}, err
	}
	if len(head.StaticID) > MaxStaticIDLen {
		return Player{}, ErrStaticIDLong
	}
	p.StaticID = head.StaticID
	p.Profile = raw
	return p, nil
}
