package service

import (
	"errors"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
	"github.com/ishyv/tx-discord-bot-sub002/internal/storage"
)

// Forfeit ends an active fight in the opponent's favor.
func (a *Arena) Forfeit(fightID, playerID string) (*combat.Fight, error) {
	f, err := a.GetFight(fightID)
	if err != nil {
		return nil, err
	}
	if f.Status != combat.StatusActive {
		return nil, ErrNotActive
	}
	if _, ok := f.SlotOf(playerID); !ok {
		return nil, ErrNotAParticipant
	}

	winnerID := f.Opponent(playerID)
	updated, err := a.fights.ForfeitFight(fightID, winnerID, a.now())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrFightNotFound
		case errors.Is(err, storage.ErrStale):
			// The fight advanced under us (resolved, expired or already
			// forfeited); it is no longer active.
			return nil, ErrNotActive
		}
		return nil, err
	}

	logging.Info("fight forfeited", logging.Fields{
		"fight_id":  fightID,
		"forfeiter": playerID,
		"winner":    winnerID,
	})
	a.finishFight(updated)
	return updated, nil
}
