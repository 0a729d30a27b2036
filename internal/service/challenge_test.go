package service

import (
	"errors"
	"testing"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
)

func TestChallenge_CreatesPendingFight(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)

	f, err := a.Challenge("u1", "Alice", "u2", "Bob", "guild-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Status != combat.StatusPending {
		t.Fatalf("expected pending fight, got %q", f.Status)
	}
	if f.Seed != 12345 {
		t.Fatalf("seed should be fixed at challenge time, got %d", f.Seed)
	}
	if f.FightID == "" || f.CorrelationID == "" {
		t.Fatalf("fight and correlation ids must be assigned, got %+v", f)
	}
	if want := testNow.Add(a.fightTTL); !f.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", f.ExpiresAt, want)
	}

	// Both profiles come into existence with base stats.
	for _, uid := range []string{"u1", "u2"} {
		p, err := a.GetProfile(uid)
		if err != nil {
			t.Fatalf("profile %s not created: %v", uid, err)
		}
		if p.BaseHP != 100 || p.InCombat {
			t.Fatalf("unexpected profile for %s: %+v", uid, p)
		}
	}
}

func TestChallenge_SelfCombatRejected(t *testing.T) {
	a := newTestArena(newMemStore())
	if _, err := a.Challenge("u1", "Alice", "u1", "Alice", ""); !errors.Is(err, ErrSelfCombat) {
		t.Fatalf("expected ErrSelfCombat, got %v", err)
	}
}

func TestChallenge_LockedProfileRejected(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	st.profiles["u2"] = &combat.Profile{UserID: "u2", BaseHP: 100, InCombat: true}

	if _, err := a.Challenge("u1", "Alice", "u2", "Bob", ""); !errors.Is(err, ErrInCombat) {
		t.Fatalf("expected ErrInCombat, got %v", err)
	}
}

func TestChallenge_OpenFightRejected(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)

	// A pending challenge does not lock profiles, but it still blocks a
	// second challenge for either participant.
	if _, err := a.Challenge("u1", "Alice", "u2", "Bob", ""); err != nil {
		t.Fatalf("first challenge failed: %v", err)
	}
	if _, err := a.Challenge("u1", "Alice", "u3", "Carol", ""); !errors.Is(err, ErrInCombat) {
		t.Fatalf("expected ErrInCombat for challenger, got %v", err)
	}
	if _, err := a.Challenge("u3", "Carol", "u2", "Bob", ""); !errors.Is(err, ErrInCombat) {
		t.Fatalf("expected ErrInCombat for opponent, got %v", err)
	}
}
