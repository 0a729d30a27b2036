package audit

import (
	"time"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/logging"
)

// Event describes one terminal fight transition. Together with the seed and
// round count it is enough to replay and audit the whole match from the
// fight record.
type Event struct {
	FightID       string        `json:"fight_id"`
	CorrelationID string        `json:"correlation_id"`
	GuildID       string        `json:"guild_id"`
	Seed          int64         `json:"seed"`
	Rounds        int           `json:"rounds"`
	Status        combat.Status `json:"status"`
	WinnerID      string        `json:"winner_id"`
	LoserID       string        `json:"loser_id"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// Sink receives terminal fight events. Writes are fire-and-forget relative
// to the fight transition: a failed Record is logged by the caller but never
// unwinds an already-committed state change.
type Sink interface {
	Record(ev Event) error
}

type logSink struct{}

// NewLogSink returns a sink that emits events to the structured log. Used
// as a fallback when no persistent sink is configured.
func NewLogSink() Sink { return logSink{} }

func (logSink) Record(ev Event) error {
	logging.Info("fight audit event", logging.Fields{
		"fight_id":       ev.FightID,
		"correlation_id": ev.CorrelationID,
		"seed":           ev.Seed,
		"rounds":         ev.Rounds,
		"status":         string(ev.Status),
		"winner_id":      ev.WinnerID,
		"loser_id":       ev.LoserID,
	})
	return nil
}
