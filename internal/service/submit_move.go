package service

import (
	"errors"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/engine"
	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
	"github.com/ishyv/tx-discord-bot-sub002/internal/storage"
)

// SubmitMove stores a player's move for the current round and resolves the
// round once both moves are present. It returns the updated fight and a
// boolean indicating whether the round was resolved by this call.
//
// Two submissions landing "simultaneously" are safe: the move write is
// guarded per slot, and the round commit is guarded on the round number,
// so exactly one caller resolves while the other re-reads a consistent
// view.
func (a *Arena) SubmitMove(fightID, playerID string, move combat.Move) (*combat.Fight, bool, error) {
	if !move.Valid() {
		return nil, false, ErrInvalidMove
	}
	f, err := a.GetFight(fightID)
	if err != nil {
		return nil, false, err
	}
	if f.Status != combat.StatusActive {
		return nil, false, ErrNotActive
	}
	slot, ok := f.SlotOf(playerID)
	if !ok {
		return nil, false, ErrNotAParticipant
	}
	if f.PendingMove(slot) != combat.MoveNone {
		return nil, false, ErrMoveAlreadySubmitted
	}

	updated, err := a.fights.SetPendingMove(fightID, f.Round, slot, move)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, false, ErrFightNotFound
		case errors.Is(err, storage.ErrStale):
			return nil, false, a.classifyMoveConflict(fightID, slot)
		}
		return nil, false, err
	}

	if !updated.BothMovesPresent() {
		return updated, false, nil
	}
	return a.resolveRound(updated)
}

// classifyMoveConflict turns a lost move write into the stable error the
// caller can act on.
func (a *Arena) classifyMoveConflict(fightID string, slot combat.Slot) error {
	cur, err := a.fights.GetFightByID(fightID)
	if err != nil {
		return ErrFightNotFound
	}
	if cur.Status != combat.StatusActive {
		return ErrNotActive
	}
	if cur.PendingMove(slot) != combat.MoveNone {
		return ErrMoveAlreadySubmitted
	}
	return ErrConcurrentModification
}

// resolveRound computes and commits the round whose both moves are present
// on f. Whoever loses the commit race simply returns the winner's view.
func (a *Arena) resolveRound(f *combat.Fight) (*combat.Fight, bool, error) {
	now := a.now()
	out := engine.ResolveRound(a.cfg, f, now)

	applied, err := a.fights.ApplyRound(f, out.Record, out.Finished, out.WinnerID, now)
	if err != nil {
		if errors.Is(err, storage.ErrStale) {
			// Another call resolved this round first; surface its result.
			cur, gerr := a.fights.GetFightByID(f.FightID)
			if gerr != nil {
				return nil, false, ErrFightNotFound
			}
			return cur, true, nil
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, ErrFightNotFound
		}
		return nil, false, err
	}

	logging.Info("round resolved", logging.Fields{
		"fight_id":     f.FightID,
		"round":        out.Record.Round,
		"damage_to_p1": out.Record.DamageToP1,
		"damage_to_p2": out.Record.DamageToP2,
		"finished":     out.Finished,
	})

	if out.Finished {
		a.finishFight(applied)
	}
	return applied, true, nil
}
