package engine

import (
	"math"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
)

// Config holds every tunable constant of the damage model. Values are
// injected (normally from the server configuration file) so balance can
// change without touching the resolution algorithm.
type Config struct {
	// MinDamage is the floor applied to every connecting hit.
	MinDamage int `json:"min_damage"`

	// BlockChance is the probability a block stance succeeds.
	BlockChance float64 `json:"block_chance"`
	// BlockReductionMin/Max bound the uniform damage reduction applied
	// when a shielded block succeeds.
	BlockReductionMin float64 `json:"block_reduction_min"`
	BlockReductionMax float64 `json:"block_reduction_max"`

	// CritChance is the probability an unblocked attack is critical.
	CritChance        float64 `json:"crit_chance"`
	CritMultiplierMin float64 `json:"crit_multiplier_min"`
	CritMultiplierMax float64 `json:"crit_multiplier_max"`

	// NormalVarianceMin/Max bound the multiplier on non-critical hits.
	NormalVarianceMin float64 `json:"normal_variance_min"`
	NormalVarianceMax float64 `json:"normal_variance_max"`

	// DefenseReductionMin/Max bound the fraction of the defender's defense
	// subtracted from an unblocked hit.
	DefenseReductionMin float64 `json:"defense_reduction_min"`
	DefenseReductionMax float64 `json:"defense_reduction_max"`
}

// DefaultConfig returns the balance constants used when the configuration
// file does not override them.
func DefaultConfig() Config {
	return Config{
		MinDamage:           1,
		BlockChance:         0.55,
		BlockReductionMin:   0.45,
		BlockReductionMax:   0.80,
		CritChance:          0.12,
		CritMultiplierMin:   1.50,
		CritMultiplierMax:   2.00,
		NormalVarianceMin:   0.85,
		NormalVarianceMax:   1.15,
		DefenseReductionMin: 0.30,
		DefenseReductionMax: 0.60,
	}
}

// AttackResult is the outcome of a single directed attack.
type AttackResult struct {
	Damage      int
	Critical    bool
	Blocked     bool
	FailedBlock bool
}

// ComputeAttack resolves one attack direction.
//
// RNG draw order is fixed and part of the replay contract:
//   - attacker blocks: no draws.
//   - defender blocks: 1 draw (block roll); +1 draw (reduction) only when
//     the roll succeeds and the defender owns a shield.
//   - otherwise: 1 draw (crit roll), 1 draw (damage multiplier, crit or
//     normal band), 1 draw (defense reduction).
func ComputeAttack(cfg Config, atk, def int, attackerMove, defenderMove combat.Move, defenderHasShield bool, rng *Stream) AttackResult {
	// A blocking attacker deals nothing; pure defensive stance.
	if attackerMove == combat.MoveBlock {
		return AttackResult{}
	}

	if defenderMove == combat.MoveBlock {
		blockSucceeded := rng.Next() < cfg.BlockChance
		if blockSucceeded && defenderHasShield {
			reduction := rng.FloatBetween(cfg.BlockReductionMin, cfg.BlockReductionMax)
			dmg := int(math.Floor(float64(atk) * (1 - reduction)))
			return AttackResult{Damage: floorDamage(cfg, dmg), Blocked: true}
		}
		// Failed roll, or a successful block with nothing to block with:
		// near-full damage with a small defense offset.
		dmg := int(math.Floor(float64(atk)*0.95)) - int(math.Floor(float64(def)*0.05))
		return AttackResult{Damage: floorDamage(cfg, dmg), FailedBlock: true}
	}

	crit := rng.Next() < cfg.CritChance
	var mult float64
	if crit {
		mult = rng.FloatBetween(cfg.CritMultiplierMin, cfg.CritMultiplierMax)
	} else {
		mult = rng.FloatBetween(cfg.NormalVarianceMin, cfg.NormalVarianceMax)
	}
	base := float64(atk) * mult
	defReduction := float64(def) * rng.FloatBetween(cfg.DefenseReductionMin, cfg.DefenseReductionMax)
	dmg := int(math.Floor(base - defReduction))
	return AttackResult{Damage: floorDamage(cfg, dmg), Critical: crit}
}

func floorDamage(cfg Config, dmg int) int {
	min := cfg.MinDamage
	if min < 1 {
		min = 1
	}
	if dmg < min {
		return min
	}
	return dmg
}
