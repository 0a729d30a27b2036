package service

import (
	"errors"
	"testing"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
)

func TestForfeit_AwardsOpponent(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f := startFight(t, a)

	got, err := a.Forfeit(f.FightID, "u1")
	if err != nil {
		t.Fatalf("forfeit failed: %v", err)
	}
	if got.Status != combat.StatusForfeited {
		t.Fatalf("expected forfeited fight, got %q", got.Status)
	}
	if got.WinnerID != "u2" {
		t.Fatalf("opponent should win, got %q", got.WinnerID)
	}
	for _, uid := range []string{"u1", "u2"} {
		if p := st.profiles[uid]; p.InCombat {
			t.Fatalf("profile %s still locked after forfeit", uid)
		}
	}
	if w := st.profiles["u2"]; w.Wins != 1 {
		t.Fatalf("winner should gain a win, got %d", w.Wins)
	}
	if l := st.profiles["u1"]; l.Losses != 1 {
		t.Fatalf("forfeiter should gain a loss, got %d", l.Losses)
	}
	if len(st.audited) != 1 || st.audited[0].Status != combat.StatusForfeited {
		t.Fatalf("expected one forfeit audit event, got %+v", st.audited)
	}
}

func TestForfeit_PendingFightRejected(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f, _ := a.Challenge("u1", "Alice", "u2", "Bob", "")

	if _, err := a.Forfeit(f.FightID, "u1"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}
}

func TestForfeit_OutsiderRejected(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f := startFight(t, a)

	if _, err := a.Forfeit(f.FightID, "u9"); !errors.Is(err, ErrNotAParticipant) {
		t.Fatalf("expected ErrNotAParticipant, got %v", err)
	}
}

func TestForfeit_Twice(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f := startFight(t, a)

	if _, err := a.Forfeit(f.FightID, "u1"); err != nil {
		t.Fatalf("first forfeit failed: %v", err)
	}
	if _, err := a.Forfeit(f.FightID, "u2"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive on second forfeit, got %v", err)
	}
}
