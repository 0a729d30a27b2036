package storage

import (
	"errors"
	"time"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"

	"gorm.io/gorm"
)

type sqliteFightRepository struct {
	db *gorm.DB
}

// NewSQLiteFightRepository returns a FightRepository backed by the given DB.
func NewSQLiteFightRepository(db *gorm.DB) FightRepository {
	return &sqliteFightRepository{db: db}
}

func (r *sqliteFightRepository) CreateFight(f *combat.Fight) error {
	return r.db.Create(f).Error
}

func (r *sqliteFightRepository) GetFightByID(fightID string) (*combat.Fight, error) {
	var f combat.Fight
	if err := r.db.Where("fight_id = ?", fightID).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *sqliteFightRepository) FindOpenFightForUser(userID string) (*combat.Fight, error) {
	var f combat.Fight
	err := r.db.
		Where("status IN ?", []combat.Status{combat.StatusPending, combat.StatusActive}).
		Where("player1_id = ? OR player2_id = ?", userID, userID).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// casUpdate runs one guarded update and maps the zero-rows case to either
// ErrNotFound (no such fight) or ErrStale (fight exists but the guard no
// longer matches). On success it re-reads and returns the updated fight.
func (r *sqliteFightRepository) casUpdate(fightID string, guard func(*gorm.DB) *gorm.DB, values map[string]interface{}) (*combat.Fight, error) {
	tx := guard(r.db.Model(&combat.Fight{}).Where("fight_id = ?", fightID)).Updates(values)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		var n int64
		if err := r.db.Model(&combat.Fight{}).Where("fight_id = ?", fightID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrStale
	}
	return r.GetFightByID(fightID)
}

func (r *sqliteFightRepository) ActivateFight(fightID string, p1, p2 *combat.Snapshot, acceptedAt time.Time) (*combat.Fight, error) {
	return r.casUpdate(fightID,
		func(tx *gorm.DB) *gorm.DB { return tx.Where("status = ?", combat.StatusPending) },
		map[string]interface{}{
			"status":           combat.StatusActive,
			"player1_snapshot": mustJSON(p1),
			"player2_snapshot": mustJSON(p2),
			"player1_hp":       p1.MaxHP,
			"player2_hp":       p2.MaxHP,
			"round":            1,
			"accepted_at":      acceptedAt,
		})
}

func (r *sqliteFightRepository) SetPendingMove(fightID string, round int, slot combat.Slot, move combat.Move) (*combat.Fight, error) {
	col := "player1_move"
	if slot == combat.SlotPlayer2 {
		col = "player2_move"
	}
	return r.casUpdate(fightID,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("status = ? AND round = ? AND "+col+" IS NULL", combat.StatusActive, round)
		},
		map[string]interface{}{col: string(move)})
}

func (r *sqliteFightRepository) ApplyRound(f *combat.Fight, rec combat.RoundRecord, finished bool, winnerID string, finishedAt time.Time) (*combat.Fight, error) {
	rounds := make([]combat.RoundRecord, 0, len(f.Rounds)+1)
	rounds = append(rounds, f.Rounds...)
	rounds = append(rounds, rec)

	values := map[string]interface{}{
		"round":        rec.Round + 1,
		"player1_hp":   rec.Player1HP,
		"player2_hp":   rec.Player2HP,
		"player1_move": nil,
		"player2_move": nil,
		"rounds":       mustJSON(rounds),
	}
	if finished {
		values["status"] = combat.StatusCompleted
		values["winner_id"] = winnerID
		values["finished_at"] = finishedAt
	}
	return r.casUpdate(f.FightID,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("status = ? AND round = ?", combat.StatusActive, rec.Round)
		},
		values)
}

func (r *sqliteFightRepository) ForfeitFight(fightID, winnerID string, finishedAt time.Time) (*combat.Fight, error) {
	return r.casUpdate(fightID,
		func(tx *gorm.DB) *gorm.DB { return tx.Where("status = ?", combat.StatusActive) },
		map[string]interface{}{
			"status":      combat.StatusForfeited,
			"winner_id":   winnerID,
			"finished_at": finishedAt,
		})
}

func (r *sqliteFightRepository) ExpireFight(fightID string, finishedAt time.Time) (*combat.Fight, error) {
	return r.casUpdate(fightID,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("status IN ?", []combat.Status{combat.StatusPending, combat.StatusActive})
		},
		map[string]interface{}{
			"status":      combat.StatusExpired,
			"finished_at": finishedAt,
		})
}

func (r *sqliteFightRepository) FindOverdueFights(now time.Time, limit int) ([]combat.Fight, error) {
	if limit <= 0 {
		limit = 50
	}
	var fights []combat.Fight
	err := r.db.
		Where("status IN ?", []combat.Status{combat.StatusPending, combat.StatusActive}).
		Where("expires_at <= ?", now).
		Order("expires_at").
		Limit(limit).
		Find(&fights).Error
	if err != nil {
		return nil, err
	}
	return fights, nil
}

type sqliteProfileRepository struct {
	db *gorm.DB
}

// NewSQLiteProfileRepository returns a ProfileRepository backed by the given DB.
func NewSQLiteProfileRepository(db *gorm.DB) ProfileRepository {
	return &sqliteProfileRepository{db: db}
}

func (r *sqliteProfileRepository) GetProfile(userID string) (*combat.Profile, error) {
	var p combat.Profile
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteProfileRepository) EnsureProfile(userID, userName string, baseHP, baseAttack, baseDefense int) (*combat.Profile, error) {
	p, err := r.GetProfile(userID)
	if err == nil {
		if userName != "" && p.UserName != userName {
			p.UserName = userName
			if err := r.db.Save(p).Error; err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	p = &combat.Profile{
		UserID:      userID,
		UserName:    userName,
		BaseHP:      baseHP,
		BaseAttack:  baseAttack,
		BaseDefense: baseDefense,
		CurrentHP:   baseHP,
	}
	if err := r.db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *sqliteProfileRepository) UpdateCombatLock(userID string, inCombat bool, fightID *string, currentHP int, expectedInCombat bool) error {
	tx := r.db.Model(&combat.Profile{}).
		Where("user_id = ? AND in_combat = ?", userID, expectedInCombat).
		Updates(map[string]interface{}{
			"in_combat":       inCombat,
			"active_fight_id": fightID,
			"current_hp":      currentHP,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		var n int64
		if err := r.db.Model(&combat.Profile{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrLockConflict
	}
	return nil
}

func (r *sqliteProfileRepository) ClearCombatLock(userID string) error {
	// No guard: cleanup must succeed even when the profile changed
	// elsewhere, and clearing twice is harmless.
	return r.db.Model(&combat.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"in_combat":       false,
			"active_fight_id": nil,
		}).Error
}

func (r *sqliteProfileRepository) UpdateWinLoss(userID string, wins, losses, currentHP int) error {
	return r.db.Model(&combat.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"wins":       gorm.Expr("wins + ?", wins),
			"losses":     gorm.Expr("losses + ?", losses),
			"current_hp": currentHP,
		}).Error
}
