package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ishyv/tx-discord-bot-sub002/internal/constants"
	"github.com/ishyv/tx-discord-bot-sub002/internal/service"
)

var fightIDRegex = regexp.MustCompile("^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$")

func normalizeFightID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// respondServiceError maps service sentinel errors to HTTP status plus a
// stable machine-readable code. Callers rely on the code, not the status,
// to decide whether to re-read and retry.
func respondServiceError(c *gin.Context, err error) {
	type mapping struct {
		status int
		code   string
	}
	var m mapping
	switch {
	case errors.Is(err, service.ErrSelfCombat):
		m = mapping{http.StatusBadRequest, constants.CodeSelfCombat}
	case errors.Is(err, service.ErrInCombat):
		m = mapping{http.StatusConflict, constants.CodeInCombat}
	case errors.Is(err, service.ErrFightNotFound):
		m = mapping{http.StatusNotFound, constants.CodeNotFound}
	case errors.Is(err, service.ErrProfileNotFound):
		m = mapping{http.StatusNotFound, constants.CodeNotFound}
	case errors.Is(err, service.ErrAlreadyAccepted):
		m = mapping{http.StatusConflict, constants.CodeAlreadyAccepted}
	case errors.Is(err, service.ErrWrongPlayer):
		m = mapping{http.StatusForbidden, constants.CodeWrongPlayer}
	case errors.Is(err, service.ErrConcurrentModification):
		m = mapping{http.StatusConflict, constants.CodeConcurrentModification}
	case errors.Is(err, service.ErrNotActive):
		m = mapping{http.StatusConflict, constants.CodeNotActive}
	case errors.Is(err, service.ErrNotAParticipant):
		m = mapping{http.StatusForbidden, constants.CodeNotAParticipant}
	case errors.Is(err, service.ErrMoveAlreadySubmitted):
		m = mapping{http.StatusConflict, constants.CodeMoveAlreadySubmitted}
	case errors.Is(err, service.ErrInvalidMove):
		m = mapping{http.StatusBadRequest, constants.CodeInvalidMove}
	case errors.Is(err, service.ErrAlreadyTerminal):
		m = mapping{http.StatusConflict, constants.CodeAlreadyTerminal}
	case errors.Is(err, service.ErrUpdateFailed):
		m = mapping{http.StatusInternalServerError, constants.CodeUpdateFailed}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			constants.JSONKeyError: constants.ErrInternal,
			constants.JSONKeyCode:  constants.CodeInternal,
		})
		return
	}
	c.JSON(m.status, gin.H{
		constants.JSONKeyError: err.Error(),
		constants.JSONKeyCode:  m.code,
	})
}
