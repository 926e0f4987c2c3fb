package orch

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Multiplayer/internal/app"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const snapshotWorkers = 8

var ErrInvalidRate = errors.New("snapshot rate must be positive")

// BroadcastSnapshots pushes each room's full player map to its members.
// Rooms are encoded and fanned out in parallel.
func (o *Orchestrator) BroadcastSnapshots() {
	rooms := o.Rooms.Rooms()
	if len(rooms) == 0 {
		return
	}
	p := pool.New().WithMaxGoroutines(snapshotWorkers)
	for _, room := range rooms {
		p.Go(func() {
			snap := room.Snapshot()
			if len(snap) == 0 {
				return
			}
			f, ok := encode(playersMsg{Type: MsgMultiplayer, Players: snap})
			if !ok {
				return
			}
			o.deliver(o.Registry.Signals(room.MemberIDs()), app.StreamFrame, f)
		})
	}
	p.Wait()
}

// RunSnapshots broadcasts at a fixed rate until ctx is done. The ticker keeps
// a fixed schedule; a slow round drops ticks instead of shifting later ones.
func (o *Orchestrator) RunSnapshots(ctx context.Context, perSecond int) error {
	if perSecond <= 0 {
		return ErrInvalidRate
	}
	interval := time.Second / time.Duration(perSecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info().Str("module", "orch").Dur("interval", interval).Msg("snapshot broadcaster started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch").Msg("snapshot broadcaster stopped")
			return nil
		case <-ticker.C:
			o.BroadcastSnapshots()
		}
	}
}
