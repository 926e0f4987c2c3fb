package app

import "github.com/dkeye/Multiplayer/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

type FrameKind int

const (
	// ControlFrame carries a state change the client cannot recover from missing.
	ControlFrame FrameKind = iota
	// StreamFrame is superseded by the next one (snapshots, voice, screen frames).
	StreamFrame
)

type Policy interface {
	OnBackPressure(kind FrameKind, member core.MemberSession) BackpressureAction
}

// SimplePolicy drops stream frames for slow members and kicks them once
// they fall behind on control frames.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(kind FrameKind, _ core.MemberSession) BackpressureAction {
	if kind == StreamFrame {
		return DropFrame
	}
	return KickMember
}
