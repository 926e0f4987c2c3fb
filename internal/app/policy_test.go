package app

import (
	"encoding/json"
	"testing"
)

func TestSimplePolicy(t *testing.T) {
	var p SimplePolicy
	if got := p.OnBackPressure(StreamFrame, nil); got != DropFrame {
		t.Fatalf("stream frame: expected DropFrame, got %v", got)
	}
	if got := p.OnBackPressure(ControlFrame, nil); got != KickMember {
		t.Fatalf("control frame: expected KickMember, got %v", got)
	}
}

func TestDataStoreLastWriteWins(t *testing.T) {
	s := NewDataStore()
	if _, ok := s.Get("k"); ok {
		t.Fatal("empty store returned a value")
	}
	s.Set("k", json.RawMessage(`1`))
	s.Set("k", json.RawMessage(`{"v":2}`))
	v, ok := s.Get("k")
	if !ok || string(v) != `{"v":2}` {
		t.Fatalf("unexpected value %s ok=%v", v, ok)
	}
}
