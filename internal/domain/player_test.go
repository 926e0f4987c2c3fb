package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewPlayer(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		staticID StaticID
		wantErr  error
	}{
		{name: "empty payload", raw: "", staticID: ""},
		{name: "null payload", raw: "null", staticID: ""},
		{name: "static id kept", raw: `{"staticId":"s1","name":"alice"}`, staticID: "s1"},
		{name: "static id too long", raw: `{"staticId":"` + strings.Repeat("x", MaxStaticIDLen+1) + `"}`, wantErr: ErrStaticIDLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlayer("sid-1", json.RawMessage(tt.raw))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPlayer returned error: %v", err)
			}
			if p.ID != "sid-1" {
				t.Fatalf("expected id sid-1, got %s", p.ID)
			}
			if p.StaticID != tt.staticID {
				t.Fatalf("expected static id %q, got %q", tt.staticID, p.StaticID)
			}
		})
	}
}

func TestNewPlayerRejectsNonObject(t *testing.T) {
	if _, err := NewPlayer("sid-1", json.RawMessage(`42`)); err == nil {
		t.Fatal("expected error for non-object player payload")
	}
}

func TestPlayerJSONKeepsProfile(t *testing.T) {
	p, err := NewPlayer("sid-1", json.RawMessage(`{"staticId":"s1","avatar":3}`))
	if err != nil {
		t.Fatalf("NewPlayer returned error: %v", err)
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	if !strings.Contains(got, `"profile":{"staticId":"s1","avatar":3}`) {
		t.Fatalf("profile not relayed verbatim: %s", got)
	}
	if strings.Contains(got, "hosting") || strings.Contains(got, "presenting") {
		t.Fatalf("unset flags should be omitted: %s", got)
	}
}
