package engine

import (
	"time"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
)

// RoundOutcome is the result of resolving one simultaneous exchange.
type RoundOutcome struct {
	Record    combat.RoundRecord
	Player1HP int
	Player2HP int
	// Finished is true when either side reached 0 HP this round.
	Finished bool
	// WinnerID is set when Finished; on a double knockout the tie-break
	// picks the side that entered the round with the higher fraction of
	// its own max HP (exact tie goes to player 1).
	WinnerID string
}

// ResolveRound resolves the fight's current round from its frozen snapshots
// and pending moves. The RNG stream is derived from seed+round; player 1's
// attack consumes the stream first, then player 2's, so replays are
// bit-identical. Both damages apply simultaneously: neither side's HP this
// round influences the other's damage.
func ResolveRound(cfg Config, f *combat.Fight, now time.Time) RoundOutcome {
	p1 := f.Player1Snapshot
	p2 := f.Player2Snapshot
	m1 := f.PendingMove(combat.SlotPlayer1)
	m2 := f.PendingMove(combat.SlotPlayer2)

	rng := NewStream(f.Seed + int64(f.Round))
	toP2 := ComputeAttack(cfg, p1.Attack, p2.Defense, m1, m2, p2.HasShield, rng)
	toP1 := ComputeAttack(cfg, p2.Attack, p1.Defense, m2, m1, p1.HasShield, rng)

	hp1 := clampHP(f.Player1HP - toP1.Damage)
	hp2 := clampHP(f.Player2HP - toP2.Damage)

	rec := combat.RoundRecord{
		Round:      f.Round,
		Player1:    effectiveMove(m1, toP2, toP1),
		Player2:    effectiveMove(m2, toP1, toP2),
		DamageToP2: toP2.Damage,
		DamageToP1: toP1.Damage,
		Player1HP:  hp1,
		Player2HP:  hp2,
		ResolvedAt: now,
	}

	out := RoundOutcome{Record: rec, Player1HP: hp1, Player2HP: hp2}
	if hp1 == 0 || hp2 == 0 {
		out.Finished = true
		out.WinnerID = decideWinner(f, hp1, hp2)
	}
	return out
}

// effectiveMove reclassifies a side's recorded move after resolution. An
// attack that rolled critical is recorded as "critical"; a block stance
// that failed (or had no shield behind it) is recorded as "failed_block".
// outgoing is the attack this side dealt, incoming the one it received.
func effectiveMove(raw combat.Move, outgoing, incoming AttackResult) combat.Move {
	if raw == combat.MoveAttack && outgoing.Critical {
		return combat.MoveCritical
	}
	if raw == combat.MoveBlock && incoming.FailedBlock {
		return combat.MoveFailedBlock
	}
	return raw
}

// decideWinner picks the winner once at least one side hit 0 HP. On a
// double knockout the side that entered the round with the higher HP
// percentage of its own max wins; a tie favors player 1. This rewards
// efficient builds over raw HP pools.
func decideWinner(f *combat.Fight, hp1, hp2 int) string {
	switch {
	case hp1 > 0:
		return f.Player1ID
	case hp2 > 0:
		return f.Player2ID
	}
	pct1 := float64(f.Player1HP) / float64(f.Player1Snapshot.MaxHP)
	pct2 := float64(f.Player2HP) / float64(f.Player2Snapshot.MaxHP)
	if pct2 > pct1 {
		return f.Player2ID
	}
	return f.Player1ID
}

func clampHP(hp int) int {
	if hp < 0 {
		return 0
	}
	return hp
}
