package signal

import (
	"context"
	"encoding/json"

	"github.com/dkeye/Multiplayer/internal/core"
	"github.com/rs/zerolog/log"
)

// handleSetAsHost runs the authorization round-trip off the read loop so
// the connection keeps being served while the check is pending.
func (ctl *SignalWSController) handleSetAsHost(ctx context.Context, sid core.SessionID) {
	sess, ok := ctl.Orch.Registry.GetSession(sid)
	if !ok {
		return
	}
	// Anonymous clients are limited per connection, not as one shared bucket.
	key := string(sess.Meta().StaticID)
	if key == "" {
		key = "sid:" + string(sid)
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(key) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("host request rate limited")
		return
	}
	go ctl.requestHost(ctx, sid)
}

func (ctl *SignalWSController) requestHost(ctx context.Context, sid core.SessionID) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Str("sid", string(sid)).Interface("panic", r).Msg("host request panic recovered")
		}
	}()
	ctl.Orch.RequestHost(ctx, sid)
}

func (ctl *SignalWSController) handleTargeted(data []byte, apply func(target core.SessionID)) {
	var p struct {
		Target string `json:"target"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.Target == "" {
		log.Debug().Err(err).Str("module", "signal").Msg("bad hosting payload")
		return
	}
	apply(core.SessionID(p.Target))
}
