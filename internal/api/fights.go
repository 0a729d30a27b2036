package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ishyv/tx-discord-bot-sub002/internal/combat"
	"github.com/ishyv/tx-discord-bot-sub002/internal/constants"
)

type challengeRequest struct {
	ChallengerID   string `json:"challenger_id" binding:"required"`
	ChallengerName string `json:"challenger_name"`
	OpponentID     string `json:"opponent_id" binding:"required"`
	OpponentName   string `json:"opponent_name"`
	GuildID        string `json:"guild_id"`
}

type actorRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type moveRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Move   string `json:"move" binding:"required"`
}

// fightView is the wire shape of a fight. It hides storage bookkeeping and
// exposes pending moves only as booleans so a player cannot read the
// opponent's choice before the round resolves.
type fightView struct {
	FightID       string               `json:"fight_id"`
	CorrelationID string               `json:"correlation_id"`
	GuildID       string               `json:"guild_id,omitempty"`
	Status        combat.Status        `json:"status"`
	Round         int                  `json:"round"`
	Player1ID     string               `json:"player1_id"`
	Player2ID     string               `json:"player2_id"`
	Player1       *combat.Snapshot     `json:"player1,omitempty"`
	Player2       *combat.Snapshot     `json:"player2,omitempty"`
	Player1HP     int                  `json:"player1_hp"`
	Player2HP     int                  `json:"player2_hp"`
	Player1Moved  bool                 `json:"player1_moved"`
	Player2Moved  bool                 `json:"player2_moved"`
	Rounds        []combat.RoundRecord `json:"rounds"`
	WinnerID      string               `json:"winner_id,omitempty"`
	AcceptedAt    *time.Time           `json:"accepted_at,omitempty"`
	FinishedAt    *time.Time           `json:"finished_at,omitempty"`
	ExpiresAt     time.Time            `json:"expires_at"`
}

func newFightView(f *combat.Fight) fightView {
	rounds := f.Rounds
	if rounds == nil {
		rounds = []combat.RoundRecord{}
	}
	return fightView{
		FightID:       f.FightID,
		CorrelationID: f.CorrelationID,
		GuildID:       f.GuildID,
		Status:        f.Status,
		Round:         f.Round,
		Player1ID:     f.Player1ID,
		Player2ID:     f.Player2ID,
		Player1:       f.Player1Snapshot,
		Player2:       f.Player2Snapshot,
		Player1HP:     f.Player1HP,
		Player2HP:     f.Player2HP,
		Player1Moved:  f.Player1Move != nil,
		Player2Moved:  f.Player2Move != nil,
		Rounds:        rounds,
		WinnerID:      f.WinnerID,
		AcceptedAt:    f.AcceptedAt,
		FinishedAt:    f.FinishedAt,
		ExpiresAt:     f.ExpiresAt,
	}
}

type profileView struct {
	UserID        string   `json:"user_id"`
	UserName      string   `json:"user_name"`
	BaseHP        int      `json:"base_hp"`
	BaseAttack    int      `json:"base_attack"`
	BaseDefense   int      `json:"base_defense"`
	Loadout       []string `json:"loadout"`
	InCombat      bool     `json:"in_combat"`
	ActiveFightID string   `json:"active_fight_id,omitempty"`
	CurrentHP     int      `json:"current_hp"`
	Wins          int      `json:"wins"`
	Losses        int      `json:"losses"`
}

func newProfileView(p *combat.Profile) profileView {
	loadout := p.Loadout
	if loadout == nil {
		loadout = []string{}
	}
	v := profileView{
		UserID:      p.UserID,
		UserName:    p.UserName,
		BaseHP:      p.BaseHP,
		BaseAttack:  p.BaseAttack,
		BaseDefense: p.BaseDefense,
		Loadout:     loadout,
		InCombat:    p.InCombat,
		CurrentHP:   p.CurrentHP,
		Wins:        p.Wins,
		Losses:      p.Losses,
	}
	if p.ActiveFightID != nil {
		v.ActiveFightID = *p.ActiveFightID
	}
	return v
}

// Challenge creates a pending fight between two players.
func (h *FightHandler) Challenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			constants.JSONKeyError: constants.ErrInvalidRequest,
			constants.JSONKeyCode:  constants.CodeInvalidRequest,
		})
		return
	}
	f, err := h.arena.Challenge(req.ChallengerID, req.ChallengerName, req.OpponentID, req.OpponentName, req.GuildID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newFightView(f))
}

// Accept transitions a pending fight to active and locks both profiles.
func (h *FightHandler) Accept(c *gin.Context) {
	fightID, ok := fightIDParam(c)
	if !ok {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			constants.JSONKeyError: constants.ErrInvalidRequest,
			constants.JSONKeyCode:  constants.CodeInvalidRequest,
		})
		return
	}
	f, err := h.arena.Accept(fightID, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFightView(f))
}

// SubmitMove records a player's move for the current round. When both
// moves are present the round resolves in the same request; the response
// carries the post-resolution fight and a resolved flag.
func (h *FightHandler) SubmitMove(c *gin.Context) {
	fightID, ok := fightIDParam(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			constants.JSONKeyError: constants.ErrInvalidRequest,
			constants.JSONKeyCode:  constants.CodeInvalidRequest,
		})
		return
	}
	f, resolved, err := h.arena.SubmitMove(fightID, req.UserID, combat.Move(req.Move))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fight":    newFightView(f),
		"resolved": resolved,
	})
}

// Forfeit ends an active fight, awarding the win to the opponent.
func (h *FightHandler) Forfeit(c *gin.Context) {
	fightID, ok := fightIDParam(c)
	if !ok {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			constants.JSONKeyError: constants.ErrInvalidRequest,
			constants.JSONKeyCode:  constants.CodeInvalidRequest,
		})
		return
	}
	f, err := h.arena.Forfeit(fightID, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFightView(f))
}

// Expire forces expiry of an overdue fight. Idempotent at the API level:
// callers racing the sweeper get ALREADY_TERMINAL rather than an error
// they need to distinguish.
func (h *FightHandler) Expire(c *gin.Context) {
	fightID, ok := fightIDParam(c)
	if !ok {
		return
	}
	f, err := h.arena.Expire(fightID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFightView(f))
}

// GetFight returns the current fight state.
func (h *FightHandler) GetFight(c *gin.Context) {
	fightID, ok := fightIDParam(c)
	if !ok {
		return
	}
	f, err := h.arena.GetFight(fightID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFightView(f))
}

// GetOpenFight returns the pending or active fight a player is part of.
func (h *FightHandler) GetOpenFight(c *gin.Context) {
	userID := c.Param("userID")
	f, err := h.arena.GetOpenFightForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFightView(f))
}

// GetProfile returns a player's combat profile and record.
func (h *FightHandler) GetProfile(c *gin.Context) {
	userID := c.Param("userID")
	p, err := h.arena.GetProfile(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileView(p))
}

func fightIDParam(c *gin.Context) (string, bool) {
	fightID := normalizeFightID(c.Param("fightID"))
	if !fightIDRegex.MatchString(fightID) {
		c.JSON(http.StatusBadRequest, gin.H{
			constants.JSONKeyError: constants.ErrInvalidFightID,
			constants.JSONKeyCode:  constants.CodeInvalidRequest,
		})
		return "", false
	}
	return fightID, true
}
