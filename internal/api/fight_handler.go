package api

import (
	"github.com/ishyv/tx-discord-bot-sub002/internal/service"
)

// FightHandler groups all fight-related HTTP handlers.
type FightHandler struct {
	arena *service.Arena
}

// NewFightHandler creates a new FightHandler around the combat service.
func NewFightHandler(arena *service.Arena) *FightHandler {
	return &FightHandler{arena: arena}
}
