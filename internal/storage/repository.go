package storage

import (
	"errors"
	"time"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
)

var (
	// ErrNotFound means the row never existed or was already cleaned up.
	ErrNotFound = errors.New("record not found")
	// ErrStale means a conditional update matched no row because another
	// writer advanced the fight first. It is distinct from ErrNotFound so
	// callers can report a lost race instead of silently succeeding twice.
	ErrStale = errors.New("fight changed concurrently")
	// ErrLockConflict means a guarded combat-lock write found the profile's
	// in-combat flag different from what the caller expected.
	ErrLockConflict = errors.New("combat lock changed concurrently")
)

// FightRepository persists fights. Every transition-bearing write is a
// single conditional update keyed on the current status (plus round and
// pending-move guards for in-round writes); unguarded read-modify-write on
// those fields is not part of this interface on purpose.
type FightRepository interface {
	CreateFight(f *combat.Fight) error
	GetFightByID(fightID string) (*combat.Fight, error)
	// FindOpenFightForUser returns the user's pending or active fight, or
	// ErrNotFound.
	FindOpenFightForUser(userID string) (*combat.Fight, error)

	// ActivateFight moves pending -> active, writing both snapshots and
	// initial HP in the same guarded update.
	ActivateFight(fightID string, p1, p2 *combat.Snapshot, acceptedAt time.Time) (*combat.Fight, error)
	// SetPendingMove stores a player's move for the current round. Guarded
	// on status == active, the round number and the slot still being empty.
	SetPendingMove(fightID string, round int, slot combat.Slot, move combat.Move) (*combat.Fight, error)
	// ApplyRound appends the resolved round, clears pending moves, advances
	// the round counter and updates HP; when finished it also moves the
	// fight to completed with a winner. Guarded on status == active and the
	// round number, so concurrent resolvers of the same round cannot both
	// commit.
	ApplyRound(f *combat.Fight, rec combat.RoundRecord, finished bool, winnerID string, finishedAt time.Time) (*combat.Fight, error)
	// ForfeitFight moves active -> forfeited with the given winner.
	ForfeitFight(fightID, winnerID string, finishedAt time.Time) (*combat.Fight, error)
	// ExpireFight moves pending or active -> expired.
	ExpireFight(fightID string, finishedAt time.Time) (*combat.Fight, error)

	// FindOverdueFights lists pending/active fights whose expiry timestamp
	// has passed, for the sweep.
	FindOverdueFights(now time.Time, limit int) ([]combat.Fight, error)
}

// ProfileRepository persists player profiles and their combat-lock fields.
type ProfileRepository interface {
	GetProfile(userID string) (*combat.Profile, error)
	// EnsureProfile returns the profile for the user, creating one with the
	// given base stats when none exists yet.
	EnsureProfile(userID, userName string, baseHP, baseAttack, baseDefense int) (*combat.Profile, error)

	// UpdateCombatLock sets the three lock fields together, guarded on the
	// expected prior in-combat flag so a profile that concurrently entered
	// another fight is detected (ErrLockConflict).
	UpdateCombatLock(userID string, inCombat bool, fightID *string, currentHP int, expectedInCombat bool) error
	// ClearCombatLock unconditionally releases the lock. Clearing an
	// already-clear lock is a no-op, not an error: terminal cleanup must
	// succeed even when the profile was modified elsewhere.
	ClearCombatLock(userID string) error

	// UpdateWinLoss adds the win/loss deltas and records the post-fight HP.
	UpdateWinLoss(userID string, wins, losses, currentHP int) error
}
