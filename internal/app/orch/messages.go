package orch

import (
	"encoding/json"

	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/domain"
)

// Outbound notification types.
const (
	MsgPlayerJoined  = "playerJoined"
	MsgPlayerLeft    = "playerLeaved"
	MsgPlayersUpdate = "hosting:playersupdate"
	MsgSetPresenter  = "hosting:setpresenter"
	MsgMute          = "hosting:mute"
	MsgBan           = "hosting:ban"
	MsgShareStart    = "screensharing:start"
	MsgShareImage    = "screensharing:image"
	MsgShareAudio    = "screensharing:audio"
	MsgShareEnd      = "screensharing:end"
	MsgPortalOpen    = "privateroom:open"
	MsgPortalClose   = "privateroom:close"
	MsgMultiplayer   = "multiplayer:update"
	MsgEvent         = "event"
	MsgVoice         = "voice"
)

type typeOnly struct {
	Type string `json:"type"`
}

type playerMsg struct {
	Type   string        `json:"type"`
	Player domain.Player `json:"player"`
}

type playerLeftMsg struct {
	Type string          `json:"type"`
	ID   domain.PlayerID `json:"id"`
}

type playersMsg struct {
	Type    string         `json:"type"`
	Players core.PlayerMap `json:"players"`
}

type presentingMsg struct {
	Type       string `json:"type"`
	Presenting bool   `json:"presenting"`
}

type blobMsg struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type portalMsg struct {
	Type   string          `json:"type"`
	Portal domain.PortalID `json:"portal"`
	Room   domain.RoomID   `json:"room,omitempty"`
}

type eventMsg struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
