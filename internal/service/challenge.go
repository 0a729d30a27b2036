package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
	"github.com/ishyv/tx-discord-bot-sub002/internal/storage"
)

// Challenge opens a pending fight between challenger and opponent. The
// fight's seed is fixed here, before either side has seen anything, so the
// whole match is replayable from the stored record alone.
func (a *Arena) Challenge(challengerID, challengerName, opponentID, opponentName, guildID string) (*combat.Fight, error) {
	if challengerID == opponentID {
		return nil, ErrSelfCombat
	}

	for _, part := range []struct{ id, name string }{
		{challengerID, challengerName},
		{opponentID, opponentName},
	} {
		p, err := a.profiles.EnsureProfile(part.id, part.name, a.base.HP, a.base.Attack, a.base.Defense)
		if err != nil {
			return nil, fmt.Errorf("ensure profile %s: %w", part.id, err)
		}
		if p.InCombat {
			return nil, ErrInCombat
		}
		// A pending challenge does not set the combat lock, so check the
		// fight store as well.
		if _, err := a.fights.FindOpenFightForUser(part.id); err == nil {
			return nil, ErrInCombat
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	seed, err := a.newSeed()
	if err != nil {
		return nil, fmt.Errorf("new fight seed: %w", err)
	}

	now := a.now()
	f := &combat.Fight{
		FightID:       uuid.NewString(),
		Player1ID:     challengerID,
		Player2ID:     opponentID,
		GuildID:       guildID,
		CorrelationID: uuid.NewString(),
		Seed:          seed,
		Status:        combat.StatusPending,
		ExpiresAt:     now.Add(a.fightTTL),
	}
	if err := a.fights.CreateFight(f); err != nil {
		return nil, fmt.Errorf("create fight: %w", err)
	}
	logging.Info("fight challenged", logging.Fields{
		"fight_id":   f.FightID,
		"player1":    challengerID,
		"player2":    opponentID,
		"expires_at": f.ExpiresAt,
	})
	return f, nil
}
