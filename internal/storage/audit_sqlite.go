package storage

import (
	"time"

	"github.com/ishyv/tx-discord-bot-sub002/internal/audit"

	"gorm.io/gorm"
)

// auditEvent is the persisted form of an audit.Event. The table is
// append-only; rows are never updated or deleted by this code.
type auditEvent struct {
	gorm.Model
	FightID       string `gorm:"index"`
	CorrelationID string
	GuildID       string
	Seed          int64
	Rounds        int
	Status        string
	WinnerID      string
	LoserID       string
	OccurredAt    time.Time
}

func (auditEvent) TableName() string { return "audit_events" }

type sqliteAuditSink struct {
	db *gorm.DB
}

// NewSQLiteAuditSink returns an audit.Sink appending events to the
// audit_events table.
func NewSQLiteAuditSink(db *gorm.DB) audit.Sink {
	return &sqliteAuditSink{db: db}
}

func (s *sqliteAuditSink) Record(ev audit.Event) error {
	row := auditEvent{
		FightID:       ev.FightID,
		CorrelationID: ev.CorrelationID,
		GuildID:       ev.GuildID,
		Seed:          ev.Seed,
		Rounds:        ev.Rounds,
		Status:        string(ev.Status),
		WinnerID:      ev.WinnerID,
		LoserID:       ev.LoserID,
		OccurredAt:    ev.OccurredAt,
	}
	return s.db.Create(&row).Error
}
