package service

import (
	"testing"
	"time"

	"github.com/ishyv/tx-discord-bot-sub002/internal/audit"
	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/engine"
	"github.com/ishyv/tx-discord-bot-sub002/internal/storage"
)

// memStore is an in-memory double for both repositories. It reproduces the
// conditional-update semantics of the SQLite implementation (guards return
// ErrStale, lock guards return ErrLockConflict) so concurrency-failure
// paths can be exercised without a database.
type memStore struct {
	fights   map[string]*combat.Fight
	profiles map[string]*combat.Profile

	// failLockFor makes UpdateCombatLock fail for the listed user ids.
	failLockFor map[string]bool

	audited []audit.Event
}

func newMemStore() *memStore {
	return &memStore{
		fights:      map[string]*combat.Fight{},
		profiles:    map[string]*combat.Profile{},
		failLockFor: map[string]bool{},
	}
}

func cloneFight(f *combat.Fight) *combat.Fight {
	c := *f
	if f.Player1Snapshot != nil {
		s := *f.Player1Snapshot
		c.Player1Snapshot = &s
	}
	if f.Player2Snapshot != nil {
		s := *f.Player2Snapshot
		c.Player2Snapshot = &s
	}
	if f.Player1Move != nil {
		m := *f.Player1Move
		c.Player1Move = &m
	}
	if f.Player2Move != nil {
		m := *f.Player2Move
		c.Player2Move = &m
	}
	c.Rounds = append([]combat.RoundRecord(nil), f.Rounds...)
	return &c
}

func (m *memStore) CreateFight(f *combat.Fight) error {
	m.fights[f.FightID] = cloneFight(f)
	return nil
}

func (m *memStore) GetFightByID(fightID string) (*combat.Fight, error) {
	f, ok := m.fights[fightID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneFight(f), nil
}

func (m *memStore) FindOpenFightForUser(userID string) (*combat.Fight, error) {
	for _, f := range m.fights {
		if f.Status.Terminal() {
			continue
		}
		if f.Player1ID == userID || f.Player2ID == userID {
			return cloneFight(f), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) ActivateFight(fightID string, p1, p2 *combat.Snapshot, acceptedAt time.Time) (*combat.Fight, error) {
	f, ok := m.fights[fightID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if f.Status != combat.StatusPending {
		return nil, storage.ErrStale
	}
	f.Status = combat.StatusActive
	f.Round = 1
	s1, s2 := *p1, *p2
	f.Player1Snapshot = &s1
	f.Player2Snapshot = &s2
	f.Player1HP = p1.MaxHP
	f.Player2HP = p2.MaxHP
	at := acceptedAt
	f.AcceptedAt = &at
	return cloneFight(f), nil
}

func (m *memStore) SetPendingMove(fightID string, round int, slot combat.Slot, move combat.Move) (*combat.Fight, error) {
	f, ok := m.fights[fightID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if f.Status != combat.StatusActive || f.Round != round || f.PendingMove(slot) != combat.MoveNone {
		return nil, storage.ErrStale
	}
	mv := move
	if slot == combat.SlotPlayer1 {
		f.Player1Move = &mv
	} else {
		f.Player2Move = &mv
	}
	return cloneFight(f), nil
}

func (m *memStore) ApplyRound(f *combat.Fight, rec combat.RoundRecord, finished bool, winnerID string, finishedAt time.Time) (*combat.Fight, error) {
	cur, ok := m.fights[f.FightID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if cur.Status != combat.StatusActive || cur.Round != rec.Round {
		return nil, storage.ErrStale
	}
	cur.Rounds = append(cur.Rounds, rec)
	cur.Player1HP = rec.Player1HP
	cur.Player2HP = rec.Player2HP
	cur.Player1Move = nil
	cur.Player2Move = nil
	cur.Round = rec.Round + 1
	if finished {
		cur.Status = combat.StatusCompleted
		cur.WinnerID = winnerID
		at := finishedAt
		cur.FinishedAt = &at
	}
	return cloneFight(cur), nil
}

func (m *memStore) ForfeitFight(fightID, winnerID string, finishedAt time.Time) (*combat.Fight, error) {
	f, ok := m.fights[fightID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if f.Status != combat.StatusActive {
		return nil, storage.ErrStale
	}
	f.Status = combat.StatusForfeited
	f.WinnerID = winnerID
	at := finishedAt
	f.FinishedAt = &at
	return cloneFight(f), nil
}

func (m *memStore) ExpireFight(fightID string, finishedAt time.Time) (*combat.Fight, error) {
	f, ok := m.fights[fightID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if f.Status != combat.StatusPending && f.Status != combat.StatusActive {
		return nil, storage.ErrStale
	}
	f.Status = combat.StatusExpired
	at := finishedAt
	f.FinishedAt = &at
	return cloneFight(f), nil
}

func (m *memStore) FindOverdueFights(now time.Time, limit int) ([]combat.Fight, error) {
	var out []combat.Fight
	for _, f := range m.fights {
		if f.Status.Terminal() || f.ExpiresAt.After(now) {
			continue
		}
		out = append(out, *cloneFight(f))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) GetProfile(userID string) (*combat.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (m *memStore) EnsureProfile(userID, userName string, baseHP, baseAttack, baseDefense int) (*combat.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		c := *p
		return &c, nil
	}
	p := &combat.Profile{
		UserID:      userID,
		UserName:    userName,
		BaseHP:      baseHP,
		BaseAttack:  baseAttack,
		BaseDefense: baseDefense,
		CurrentHP:   baseHP,
	}
	m.profiles[userID] = p
	c := *p
	return &c, nil
}

func (m *memStore) UpdateCombatLock(userID string, inCombat bool, fightID *string, currentHP int, expectedInCombat bool) error {
	if m.failLockFor[userID] {
		return storage.ErrLockConflict
	}
	p, ok := m.profiles[userID]
	if !ok {
		return storage.ErrNotFound
	}
	if p.InCombat != expectedInCombat {
		return storage.ErrLockConflict
	}
	p.InCombat = inCombat
	p.ActiveFightID = fightID
	p.CurrentHP = currentHP
	return nil
}

func (m *memStore) ClearCombatLock(userID string) error {
	p, ok := m.profiles[userID]
	if !ok {
		return nil
	}
	p.InCombat = false
	p.ActiveFightID = nil
	return nil
}

func (m *memStore) UpdateWinLoss(userID string, wins, losses, currentHP int) error {
	p, ok := m.profiles[userID]
	if !ok {
		return storage.ErrNotFound
	}
	p.Wins += wins
	p.Losses += losses
	p.CurrentHP = currentHP
	return nil
}

func (m *memStore) Record(ev audit.Event) error {
	m.audited = append(m.audited, ev)
	return nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestArena(st *memStore) *Arena {
	return New(Options{
		Fights:   st,
		Profiles: st,
		Audit:    st,
		Engine:   engine.DefaultConfig(),
		FightTTL: 10 * time.Minute,
		Now:      func() time.Time { return testNow },
		NewSeed:  func() (int64, error) { return 12345, nil },
	})
}

// startFight drives a fight through challenge and accept.
func startFight(t *testing.T, a *Arena) *combat.Fight {
	t.Helper()
	f, err := a.Challenge("u1", "Alice", "u2", "Bob", "guild-1")
	if err != nil {
		t.Fatalf("challenge failed: %v", err)
	}
	f, err = a.Accept(f.FightID, "u2")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	return f
}
