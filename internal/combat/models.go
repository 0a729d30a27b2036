package combat

import (
	"time"

	"gorm.io/gorm"
)

// Move is a player's submitted action for a round. Using a dedicated type
// instead of plain string makes code safer and self-documenting.
type Move string

const (
	MoveNone   Move = ""
	MoveAttack Move = "attack"
	MoveBlock  Move = "block"

	// Effective moves recorded in round history when the damage
	// calculation reclassifies the raw submission.
	MoveCritical    Move = "critical"
	MoveFailedBlock Move = "failed_block"
)

// Valid reports whether m is a move a player may submit. The reclassified
// moves (critical, failed_block) only ever appear in round records.
func (m Move) Valid() bool {
	return m == MoveAttack || m == MoveBlock
}

// Status is the lifecycle state of a fight.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
	StatusForfeited Status = "forfeited"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired || s == StatusForfeited
}

// Slot identifies which side of a fight a participant occupies.
type Slot int

const (
	SlotPlayer1 Slot = 1
	SlotPlayer2 Slot = 2
)

// Snapshot holds a participant's combat stats frozen at accept time.
// Equipment or stat changes after accept never affect an in-progress fight.
type Snapshot struct {
	UserID    string `json:"user_id"`
	MaxHP     int    `json:"max_hp"`
	CurrentHP int    `json:"current_hp"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	HasShield bool   `json:"has_shield"`
}

// RoundRecord is one resolved exchange of moves. Records are append-only;
// once written they are never modified.
type RoundRecord struct {
	Round      int       `json:"round"`
	Player1    Move      `json:"player1_move"`
	Player2    Move      `json:"player2_move"`
	DamageToP2 int       `json:"damage_to_p2"`
	DamageToP1 int       `json:"damage_to_p1"`
	Player1HP  int       `json:"player1_hp"`
	Player2HP  int       `json:"player2_hp"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Fight is one match between two players. It is the unit of conditional
// update: every lifecycle transition is persisted as a single guarded write
// keyed on the current status.
type Fight struct {
	gorm.Model
	FightID       string `json:"fight_id" gorm:"uniqueIndex;size:36"`
	Player1ID     string `json:"player1_id" gorm:"index"`
	Player2ID     string `json:"player2_id" gorm:"index"`
	GuildID       string `json:"guild_id"`
	CorrelationID string `json:"correlation_id" gorm:"size:36"`

	// Seed drives every probabilistic outcome. Round n draws from a stream
	// seeded with Seed+n, so any single round can be replayed without the
	// ones before it.
	Seed int64 `json:"seed"`

	Status Status `json:"status" gorm:"index;size:16"`
	Round  int    `json:"round"`

	Player1Snapshot *Snapshot `json:"player1_snapshot" gorm:"serializer:json"`
	Player2Snapshot *Snapshot `json:"player2_snapshot" gorm:"serializer:json"`

	Player1HP int `json:"player1_hp"`
	Player2HP int `json:"player2_hp"`

	// Pending moves for the current round only; cleared on resolution.
	Player1Move *Move `json:"player1_move" gorm:"size:16"`
	Player2Move *Move `json:"player2_move" gorm:"size:16"`

	Rounds []RoundRecord `json:"rounds" gorm:"serializer:json"`

	// WinnerID is set only in terminal states that produce a winner
	// (completed, forfeited). Expired fights have no winner.
	WinnerID string `json:"winner_id"`

	AcceptedAt *time.Time `json:"accepted_at"`
	FinishedAt *time.Time `json:"finished_at"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"index"`
}

func (Fight) TableName() string { return "fights" }

// SlotOf returns which side the given user occupies, if any.
func (f *Fight) SlotOf(userID string) (Slot, bool) {
	switch userID {
	case f.Player1ID:
		return SlotPlayer1, true
	case f.Player2ID:
		return SlotPlayer2, true
	}
	return 0, false
}

// Opponent returns the other participant's user id.
func (f *Fight) Opponent(userID string) string {
	if userID == f.Player1ID {
		return f.Player2ID
	}
	return f.Player1ID
}

// PendingMove returns the stored move for a slot, or MoveNone.
func (f *Fight) PendingMove(slot Slot) Move {
	var m *Move
	if slot == SlotPlayer1 {
		m = f.Player1Move
	} else {
		m = f.Player2Move
	}
	if m == nil {
		return MoveNone
	}
	return *m
}

// BothMovesPresent reports whether the current round is ready to resolve.
func (f *Fight) BothMovesPresent() bool {
	return f.Player1Move != nil && f.Player2Move != nil
}

// Profile stores a player's persistent combat identity and aggregate stats.
// The combat-lock fields (InCombat, ActiveFightID, CurrentHP) are owned by
// this entity but mutated exclusively through the combat service's lock
// coordination; other subsystems read them to refuse equipment changes or
// a second fight.
type Profile struct {
	gorm.Model
	UserID   string `json:"user_id" gorm:"uniqueIndex"`
	UserName string `json:"user_name"`

	BaseHP      int      `json:"base_hp"`
	BaseAttack  int      `json:"base_attack"`
	BaseDefense int      `json:"base_defense"`
	Loadout     []string `json:"loadout" gorm:"serializer:json"`

	InCombat      bool    `json:"in_combat"`
	ActiveFightID *string `json:"active_fight_id"`
	CurrentHP     int     `json:"current_hp"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

func (Profile) TableName() string { return "player_profiles" }
