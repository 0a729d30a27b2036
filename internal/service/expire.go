package service

import (
	"errors"
	"time"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
	"github.com/ishyv/tx-discord-bot-sub002/internal/storage"
)

// Expire moves a pending or active fight to expired. Concurrent calls for
// the same fight (sweeper vs. explicit poll) collapse into one attempt.
func (a *Arena) Expire(fightID string) (*combat.Fight, error) {
	v, err, _ := a.expiry.Do(fightID, func() (interface{}, error) {
		return a.expireOnce(fightID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*combat.Fight), nil
}

func (a *Arena) expireOnce(fightID string) (*combat.Fight, error) {
	f, err := a.GetFight(fightID)
	if err != nil {
		return nil, err
	}
	if f.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	wasActive := f.Status == combat.StatusActive
	updated, err := a.fights.ExpireFight(fightID, a.now())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrFightNotFound
		case errors.Is(err, storage.ErrStale):
			// The guard covers both pending and active, so a lost race
			// means the fight reached a terminal state first.
			return nil, ErrAlreadyTerminal
		}
		return nil, err
	}

	logging.Info("fight expired", logging.Fields{
		"fight_id":   fightID,
		"was_active": wasActive,
	})
	// Pending fights never took the combat locks, but releasing is
	// idempotent either way. Expired fights have no winner, so no
	// win/loss update happens inside finishFight.
	a.finishFight(updated)
	return updated, nil
}

// SweepExpired expires every overdue fight, up to limit. Intended to run
// periodically; individual failures are logged and do not stop the sweep.
func (a *Arena) SweepExpired(now time.Time, limit int) int {
	fights, err := a.fights.FindOverdueFights(now, limit)
	if err != nil {
		logging.Error("expiry sweep failed to list fights", err, nil)
		return 0
	}
	expired := 0
	for i := range fights {
		if _, err := a.Expire(fights[i].FightID); err != nil {
			if errors.Is(err, ErrAlreadyTerminal) || errors.Is(err, ErrFightNotFound) {
				continue
			}
			logging.Error("expiry sweep failed for fight", err, logging.Fields{"fight_id": fights[i].FightID})
			continue
		}
		expired++
	}
	return expired
}
