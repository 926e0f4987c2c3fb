package core

import "errors"

var ErrBackpressure = errors.New("backpressure")

// Frame is a raw encoded message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend never blocks; it returns ErrBackpressure when the outbound queue is full.
	TrySend(Frame) error
	Close()
}
