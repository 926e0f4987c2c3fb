package signal

import (
	"encoding/json"

	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/dkeye/Multiplayer/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleShareFrame(data []byte, push func(json.RawMessage)) {
	var p blobPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad screensharing payload")
		return
	}
	push(p.Data)
}

type portalPayload struct {
	Portal string `json:"portal"`
	Room   string `json:"room"`
}

func (ctl *SignalWSController) handlePortalOpen(sid core.SessionID, data []byte) {
	var p portalPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Portal == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad portal payload")
		return
	}
	ctl.Orch.OpenPortal(sid, domain.PortalID(p.Portal), domain.RoomID(p.Room))
}

func (ctl *SignalWSController) handlePortalClose(sid core.SessionID, data []byte) {
	var p portalPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Portal == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad portal payload")
		return
	}
	ctl.Orch.ClosePortal(sid, domain.PortalID(p.Portal))
}
