package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ishyv/tx-discord-bot-sub002/internal/engine"
	"github.com/ishyv/tx-discord-bot-sub002/internal/items"
)

// Env holds deployment settings read from the environment. File-based
// configuration covers game balance; everything host-specific lives here.
type Env struct {
	ConfigPath   string `env:"ARENA_CONFIG" envDefault:"./arena_config.json"`
	DatabasePath string `env:"ARENA_DB" envDefault:"./data/arena.db"`
	GatewayToken string `env:"ARENA_GATEWAY_TOKEN"`
	ServerAddr   string `env:"ARENA_ADDR"`
}

// ParseEnv reads the deployment environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	Combat *engine.Config `json:"combat"`
	Base   *struct {
		HitPoints int `json:"hit_points"`
		Attack    int `json:"attack"`
		Defense   int `json:"defense"`
	} `json:"base_stats"`
	ItemList          []items.Item `json:"item_list"`
	FightTTLSeconds   int          `json:"fight_ttl_seconds"`
	SweepEverySeconds int          `json:"sweep_every_seconds"`
	SweepBatchSize    int          `json:"sweep_batch_size"`
}

// LoadedConfig is the parsed server configuration.
type LoadedConfig struct {
	ServerAddress string
	Combat        engine.Config
	BaseHitPoints int
	BaseAttack    int
	BaseDefense   int
	Items         []items.Item
	FightTTL      time.Duration
	SweepEvery    time.Duration
	SweepBatch    int
}

// LoadConfig reads the configuration file at path. Every key is optional;
// missing balance values fall back to the engine defaults so a minimal
// deployment needs no file at all.
func LoadConfig(path string) (*LoadedConfig, error) {
	out := &LoadedConfig{
		ServerAddress: ":8080",
		Combat:        engine.DefaultConfig(),
		BaseHitPoints: 100,
		BaseAttack:    10,
		BaseDefense:   5,
		FightTTL:      10 * time.Minute,
		SweepEvery:    15 * time.Second,
		SweepBatch:    50,
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if rc.Combat != nil {
		out.Combat = *rc.Combat
	}
	if rc.Base != nil {
		if rc.Base.HitPoints > 0 {
			out.BaseHitPoints = rc.Base.HitPoints
		}
		if rc.Base.Attack > 0 {
			out.BaseAttack = rc.Base.Attack
		}
		if rc.Base.Defense >= 0 {
			out.BaseDefense = rc.Base.Defense
		}
	}
	if rc.FightTTLSeconds > 0 {
		out.FightTTL = time.Duration(rc.FightTTLSeconds) * time.Second
	}
	if rc.SweepEverySeconds > 0 {
		out.SweepEvery = time.Duration(rc.SweepEverySeconds) * time.Second
	}
	if rc.SweepBatchSize > 0 {
		out.SweepBatch = rc.SweepBatchSize
	}

	// Cross-entry validation: item ids must be present and unique
	// (case-insensitive) since loadouts reference them by id.
	idSet := make(map[string]struct{}, len(rc.ItemList))
	for _, it := range rc.ItemList {
		id := strings.ToLower(strings.TrimSpace(it.ID))
		if id == "" {
			return nil, fmt.Errorf("config file %s: item entry missing 'id'", path)
		}
		if _, exists := idSet[id]; exists {
			return nil, fmt.Errorf("config file %s: duplicate item id '%s'", path, it.ID)
		}
		idSet[id] = struct{}{}
	}
	out.Items = rc.ItemList

	if err := validateCombat(out.Combat, path); err != nil {
		return nil, err
	}
	return out, nil
}

func validateCombat(c engine.Config, path string) error {
	bands := []struct {
		name     string
		min, max float64
	}{
		{"block_reduction", c.BlockReductionMin, c.BlockReductionMax},
		{"crit_multiplier", c.CritMultiplierMin, c.CritMultiplierMax},
		{"normal_variance", c.NormalVarianceMin, c.NormalVarianceMax},
		{"defense_reduction", c.DefenseReductionMin, c.DefenseReductionMax},
	}
	for _, b := range bands {
		if b.min > b.max {
			return fmt.Errorf("config file %s: combat band %s has min > max", path, b.name)
		}
	}
	if c.BlockChance < 0 || c.BlockChance > 1 || c.CritChance < 0 || c.CritChance > 1 {
		return fmt.Errorf("config file %s: combat chances must be within [0,1]", path)
	}
	if c.MinDamage < 1 {
		return fmt.Errorf("config file %s: combat min_damage must be >= 1", path)
	}
	return nil
}
