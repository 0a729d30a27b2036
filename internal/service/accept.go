package service

import (
	"errors"
	"fmt"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
	"github.com/ishyv/tx-discord-bot-sub002/internal/storage"
)

// Accept moves a pending fight to active. Stats for both sides are frozen
// into snapshots here; later equipment changes cannot touch the match.
//
// Accept writes three documents (the fight and both profiles) without a
// real multi-document transaction. The fight activation is the guarded
// commit point; if either profile lock cannot be taken afterwards, the
// fight is rolled back to expired rather than leaving a profile falsely
// locked. This is a known best-effort trade-off, biased toward releasing
// the fight over leaving a stuck lock.
func (a *Arena) Accept(fightID, accepterID string) (*combat.Fight, error) {
	f, err := a.GetFight(fightID)
	if err != nil {
		return nil, err
	}
	if f.Status != combat.StatusPending {
		return nil, ErrAlreadyAccepted
	}
	if accepterID != f.Player2ID {
		return nil, ErrWrongPlayer
	}

	p1, err := a.profiles.GetProfile(f.Player1ID)
	if err != nil {
		return nil, fmt.Errorf("load challenger profile: %w", err)
	}
	p2, err := a.profiles.GetProfile(f.Player2ID)
	if err != nil {
		return nil, fmt.Errorf("load accepter profile: %w", err)
	}

	snap1 := a.snapshotFor(p1)
	snap2 := a.snapshotFor(p2)

	updated, err := a.fights.ActivateFight(fightID, snap1, snap2, a.now())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrFightNotFound
		case errors.Is(err, storage.ErrStale):
			// Exactly one concurrent accept wins the conditional update.
			if cur, gerr := a.fights.GetFightByID(fightID); gerr == nil && cur.Status != combat.StatusPending {
				return nil, ErrAlreadyAccepted
			}
			return nil, ErrConcurrentModification
		}
		return nil, err
	}

	if err := a.lockBothProfiles(updated, snap1, snap2); err != nil {
		return nil, err
	}

	// An expiry may have landed between activation and the lock writes;
	// in that case the locks must not stay behind.
	if cur, gerr := a.fights.GetFightByID(fightID); gerr == nil && cur.Status == combat.StatusExpired {
		a.releaseLocks(cur)
		return nil, ErrConcurrentModification
	}

	logging.Info("fight accepted", logging.Fields{
		"fight_id": fightID,
		"player1":  f.Player1ID,
		"player2":  f.Player2ID,
	})
	return updated, nil
}

// lockBothProfiles takes the combat lock on both participants, rolling the
// fight back to expired when either side fails.
func (a *Arena) lockBothProfiles(f *combat.Fight, snap1, snap2 *combat.Snapshot) error {
	fid := f.FightID
	if err := a.profiles.UpdateCombatLock(f.Player1ID, true, &fid, snap1.MaxHP, false); err != nil {
		return a.rollbackAccept(f, nil, err)
	}
	if err := a.profiles.UpdateCombatLock(f.Player2ID, true, &fid, snap2.MaxHP, false); err != nil {
		return a.rollbackAccept(f, []string{f.Player1ID}, err)
	}
	return nil
}

// rollbackAccept best-effort reverts a half-locked accept: releases any
// locks already taken and expires the fight. The caller only sees
// ErrUpdateFailed when the rollback itself fails.
func (a *Arena) rollbackAccept(f *combat.Fight, lockedUserIDs []string, cause error) error {
	logging.Warn("accept lock failed; rolling fight back", logging.Fields{
		"fight_id": f.FightID,
		"cause":    cause.Error(),
	})
	for _, uid := range lockedUserIDs {
		if err := a.profiles.ClearCombatLock(uid); err != nil {
			logging.Error("failed to release combat lock during rollback", err, logging.Fields{
				"fight_id": f.FightID,
				"user_id":  uid,
			})
		}
	}
	if _, err := a.fights.ExpireFight(f.FightID, a.now()); err != nil && !errors.Is(err, storage.ErrStale) {
		logging.Error("failed to expire fight during rollback", err, logging.Fields{"fight_id": f.FightID})
		return ErrUpdateFailed
	}
	return ErrConcurrentModification
}
