package service

import (
	"github.com/ishyv/tx-discord-bot-sub002/internal/audit"
	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
)

// finishFight runs the bookkeeping that follows every terminal transition:
// release both combat locks, apply win/loss counters when there is a
// winner, and append the audit event. All of it is best effort — the fight
// document already committed its terminal state and is the source of
// truth; failures here are logged, never propagated.
func (a *Arena) finishFight(f *combat.Fight) {
	a.releaseLocks(f)

	if f.WinnerID != "" {
		loserID := f.Opponent(f.WinnerID)
		winnerHP, loserHP := f.Player1HP, f.Player2HP
		if f.WinnerID == f.Player2ID {
			winnerHP, loserHP = f.Player2HP, f.Player1HP
		}
		if err := a.profiles.UpdateWinLoss(f.WinnerID, 1, 0, winnerHP); err != nil {
			logging.Error("failed to record win", err, logging.Fields{"fight_id": f.FightID, "user_id": f.WinnerID})
		}
		if err := a.profiles.UpdateWinLoss(loserID, 0, 1, loserHP); err != nil {
			logging.Error("failed to record loss", err, logging.Fields{"fight_id": f.FightID, "user_id": loserID})
		}
	}

	ev := audit.Event{
		FightID:       f.FightID,
		CorrelationID: f.CorrelationID,
		GuildID:       f.GuildID,
		Seed:          f.Seed,
		Rounds:        len(f.Rounds),
		Status:        f.Status,
		WinnerID:      f.WinnerID,
		OccurredAt:    a.now(),
	}
	if f.WinnerID != "" {
		ev.LoserID = f.Opponent(f.WinnerID)
	}
	if err := a.audit.Record(ev); err != nil {
		logging.Error("failed to record audit event", err, logging.Fields{"fight_id": f.FightID})
	}
}

// releaseLocks clears both participants' combat locks. Clearing an
// already-clear lock is a no-op, so this is safe to call twice.
func (a *Arena) releaseLocks(f *combat.Fight) {
	for _, uid := range []string{f.Player1ID, f.Player2ID} {
		if err := a.profiles.ClearCombatLock(uid); err != nil {
			logging.Error("failed to release combat lock", err, logging.Fields{
				"fight_id": f.FightID,
				"user_id":  uid,
			})
		}
	}
}
