package service

import (
	"errors"
	"testing"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
)

func TestSubmitMove_FirstMoveWaits(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f := startFight(t, a)

	got, resolved, err := a.SubmitMove(f.FightID, "u1", combat.MoveAttack)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved {
		t.Fatalf("round must not resolve with only one move")
	}
	if got.Player1Move == nil || *got.Player1Move != combat.MoveAttack {
		t.Fatalf("move not stored, got %+v", got.Player1Move)
	}
	if got.Round != 1 || len(got.Rounds) != 0 {
		t.Fatalf("round must not advance, got round=%d history=%d", got.Round, len(got.Rounds))
	}
}

func TestSubmitMove_SecondMoveResolves(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f := startFight(t, a)

	if _, _, err := a.SubmitMove(f.FightID, "u1", combat.MoveAttack); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	got, resolved, err := a.SubmitMove(f.FightID, "u2", combat.MoveBlock)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if !resolved {
		t.Fatalf("expected round to resolve on the second move")
	}
	if got.Round != 2 {
		t.Fatalf("round should advance to 2, got %d", got.Round)
	}
	if len(got.Rounds) != 1 {
		t.Fatalf("expected one round record, got %d", len(got.Rounds))
	}
	if got.Player1Move != nil || got.Player2Move != nil {
		t.Fatalf("pending moves must clear after resolution")
	}
	rec := got.Rounds[0]
	if rec.Round != 1 || rec.Player1HP != got.Player1HP || rec.Player2HP != got.Player2HP {
		t.Fatalf("round record inconsistent with fight: %+v vs hp %d/%d", rec, got.Player1HP, got.Player2HP)
	}
}

func TestSubmitMove_DuplicateRejected(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f := startFight(t, a)

	if _, _, err := a.SubmitMove(f.FightID, "u1", combat.MoveAttack); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, _, err := a.SubmitMove(f.FightID, "u1", combat.MoveBlock); !errors.Is(err, ErrMoveAlreadySubmitted) {
		t.Fatalf("expected ErrMoveAlreadySubmitted, got %v", err)
	}
}

func TestSubmitMove_InvalidInputs(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f := startFight(t, a)

	if _, _, err := a.SubmitMove(f.FightID, "u1", combat.Move("dodge")); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}
	if _, _, err := a.SubmitMove(f.FightID, "u9", combat.MoveAttack); !errors.Is(err, ErrNotAParticipant) {
		t.Fatalf("expected ErrNotAParticipant, got %v", err)
	}
	if _, _, err := a.SubmitMove("nope", "u1", combat.MoveAttack); !errors.Is(err, ErrFightNotFound) {
		t.Fatalf("expected ErrFightNotFound, got %v", err)
	}
}

func TestSubmitMove_PendingFightRejected(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f, _ := a.Challenge("u1", "Alice", "u2", "Bob", "")

	if _, _, err := a.SubmitMove(f.FightID, "u1", combat.MoveAttack); !errors.Is(err, ErrNotActive) {
		t.Fatalf("moves before accept must be rejected, got %v", err)
	}
}

func TestSubmitMove_KnockoutFinishesFight(t *testing.T) {
	st := newMemStore()
	a := newTestArena(st)
	f := startFight(t, a)

	// Leave u2 one hit from defeat; minimum damage makes the knockout
	// certain whatever the rolls.
	st.fights[f.FightID].Player2HP = 1

	if _, _, err := a.SubmitMove(f.FightID, "u1", combat.MoveAttack); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	got, resolved, err := a.SubmitMove(f.FightID, "u2", combat.MoveAttack)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if !resolved {
		t.Fatalf("expected resolution")
	}
	if got.Status != combat.StatusCompleted {
		t.Fatalf("expected completed fight, got %q", got.Status)
	}
	if got.WinnerID != "u1" {
		t.Fatalf("expected u1 to win, got %q", got.WinnerID)
	}
	if got.FinishedAt == nil {
		t.Fatalf("finished fight must carry FinishedAt")
	}

	// Terminal bookkeeping: locks released, record updated, audit written.
	for _, uid := range []string{"u1", "u2"} {
		if p := st.profiles[uid]; p.InCombat || p.ActiveFightID != nil {
			t.Fatalf("profile %s still locked after completion: %+v", uid, p)
		}
	}
	if w := st.profiles["u1"]; w.Wins != 1 || w.Losses != 0 {
		t.Fatalf("winner record wrong: %d/%d", w.Wins, w.Losses)
	}
	if l := st.profiles["u2"]; l.Wins != 0 || l.Losses != 1 {
		t.Fatalf("loser record wrong: %d/%d", l.Wins, l.Losses)
	}
	if len(st.audited) != 1 {
		t.Fatalf("expected one audit event, got %d", len(st.audited))
	}
	ev := st.audited[0]
	if ev.FightID != f.FightID || ev.WinnerID != "u1" || ev.LoserID != "u2" || ev.Status != combat.StatusCompleted {
		t.Fatalf("unexpected audit event: %+v", ev)
	}

	// No further moves once the fight is over.
	if _, _, err := a.SubmitMove(f.FightID, "u1", combat.MoveAttack); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive after completion, got %v", err)
	}
}

func TestSubmitMove_FullFightDeterministic(t *testing.T) {
	run := func() *combat.Fight {
		st := newMemStore()
		a := newTestArena(st)
		f := startFight(t, a)
		for i := 0; i < 50; i++ {
			cur, _, err := a.SubmitMove(f.FightID, "u1", combat.MoveAttack)
			if err != nil {
				t.Fatalf("u1 submit failed on round %d: %v", i+1, err)
			}
			cur, _, err = a.SubmitMove(f.FightID, "u2", combat.MoveAttack)
			if err != nil {
				t.Fatalf("u2 submit failed on round %d: %v", i+1, err)
			}
			if cur.Status == combat.StatusCompleted {
				return cur
			}
		}
		t.Fatalf("fight did not finish within 50 rounds")
		return nil
	}

	a := run()
	b := run()
	if a.WinnerID != b.WinnerID || len(a.Rounds) != len(b.Rounds) {
		t.Fatalf("same seed produced different fights: %q/%d vs %q/%d",
			a.WinnerID, len(a.Rounds), b.WinnerID, len(b.Rounds))
	}
	for i := range a.Rounds {
		if a.Rounds[i] != b.Rounds[i] {
			t.Fatalf("round %d diverged:\n%+v\nvs\n%+v", i+1, a.Rounds[i], b.Rounds[i])
		}
	}
}
