package storage

import (
	"encoding/json"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database at the given path and keeps the
// schema updated via AutoMigrate.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&combat.Fight{}, &combat.Profile{}, &auditEvent{}); err != nil {
		return nil, err
	}
	return db, nil
}

// mustJSON serializes values destined for JSON columns when writing through
// map-based conditional updates, where GORM's field serializer does not run.
func mustJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
