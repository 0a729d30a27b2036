package service

import (
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ishyv/tx-discord-bot-sub002/internal/audit"
	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/engine"
	"github.com/ishyv/tx-discord-bot-sub002/internal/items"
	"github.com/ishyv/tx-discord-bot-sub002/internal/random"
	"github.com/ishyv/tx-discord-bot-sub002/internal/storage"
)

var (
	ErrSelfCombat             = errors.New("cannot challenge yourself")
	ErrInCombat               = errors.New("player already has an open fight")
	ErrFightNotFound          = errors.New("fight not found")
	ErrAlreadyAccepted        = errors.New("fight was already accepted")
	ErrWrongPlayer            = errors.New("only the challenged player may accept")
	ErrConcurrentModification = errors.New("fight was modified concurrently")
	ErrNotActive              = errors.New("fight is not active")
	ErrNotAParticipant        = errors.New("player is not part of this fight")
	ErrMoveAlreadySubmitted   = errors.New("move already submitted for this round")
	ErrInvalidMove            = errors.New("invalid move")
	ErrAlreadyTerminal        = errors.New("fight already reached a terminal state")
	ErrUpdateFailed           = errors.New("failed to update fight state")
	ErrProfileNotFound        = errors.New("player profile not found")
)

// BaseStats are the unequipped combat stats granted to every profile.
type BaseStats struct {
	HP      int
	Attack  int
	Defense int
}

// Options wires an Arena. Fights and Profiles are required; the rest have
// working defaults.
type Options struct {
	Fights   storage.FightRepository
	Profiles storage.ProfileRepository
	Items    items.Resolver
	Audit    audit.Sink
	Engine   engine.Config
	Base     BaseStats
	FightTTL time.Duration

	// Now and NewSeed exist for tests; zero values use the real clock and
	// crypto seeds.
	Now     func() time.Time
	NewSeed func() (int64, error)
}

// Arena coordinates the full fight lifecycle: challenge, accept, move
// submission, forfeit and expiry. One instance is constructed at startup
// and shared; all cross-request coordination happens through conditional
// updates in the fight store, never through in-process locks on fights.
type Arena struct {
	fights   storage.FightRepository
	profiles storage.ProfileRepository
	items    items.Resolver
	audit    audit.Sink
	cfg      engine.Config
	base     BaseStats
	fightTTL time.Duration
	now      func() time.Time
	newSeed  func() (int64, error)

	// expiry dedupes concurrent explicit expire calls per fight id; the
	// store-level guard stays authoritative, this just avoids duplicate
	// cleanup work when the sweeper and a poll race.
	expiry singleflight.Group
}

// New constructs an Arena from options, filling defaults.
func New(opts Options) *Arena {
	a := &Arena{
		fights:   opts.Fights,
		profiles: opts.Profiles,
		items:    opts.Items,
		audit:    opts.Audit,
		cfg:      opts.Engine,
		base:     opts.Base,
		fightTTL: opts.FightTTL,
		now:      opts.Now,
		newSeed:  opts.NewSeed,
	}
	if a.items == nil {
		a.items = items.NewConfigResolver(nil)
	}
	if a.audit == nil {
		a.audit = audit.NewLogSink()
	}
	if a.fightTTL <= 0 {
		a.fightTTL = 10 * time.Minute
	}
	if a.base.HP <= 0 {
		a.base = BaseStats{HP: 100, Attack: 10, Defense: 5}
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.newSeed == nil {
		a.newSeed = random.NewSeed
	}
	return a
}

// GetFight returns the current fight view.
func (a *Arena) GetFight(fightID string) (*combat.Fight, error) {
	f, err := a.fights.GetFightByID(fightID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}
	return f, nil
}

// GetOpenFightForUser returns the user's pending or active fight, if any.
func (a *Arena) GetOpenFightForUser(userID string) (*combat.Fight, error) {
	f, err := a.fights.FindOpenFightForUser(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}
	return f, nil
}

// GetProfile returns a player's combat profile.
func (a *Arena) GetProfile(userID string) (*combat.Profile, error) {
	p, err := a.profiles.GetProfile(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// snapshotFor freezes a profile's effective stats. Base stats plus the
// resolved loadout bonuses; never consulted again after accept.
func (a *Arena) snapshotFor(p *combat.Profile) *combat.Snapshot {
	bonus := items.Sum(a.items, p.Loadout)
	maxHP := p.BaseHP + bonus.HP
	if maxHP < 1 {
		maxHP = 1
	}
	return &combat.Snapshot{
		UserID:    p.UserID,
		MaxHP:     maxHP,
		CurrentHP: maxHP,
		Attack:    p.BaseAttack + bonus.Attack,
		Defense:   p.BaseDefense + bonus.Defense,
		HasShield: bonus.Shield,
	}
}
