package ui

import (
	"net/http"
	"strconv"

	"tribunal/app"

	"github.com/gin-gonic/gin"
)

// VerdictHandler exposes adjudication endpoints.
type VerdictHandler struct {
	verdicts *app.VerdictService
}

// NewVerdictHandler creates a new verdict handler
func NewVerdictHandler(verdicts *app.VerdictService) *VerdictHandler {
	return &VerdictHandler{verdicts: verdicts}
}

// GenerateInitial triggers the round-0 verdict. The call is idempotent at
// the persistence boundary: a concurrent duplicate returns the verdict
// that won the race.
func (h *VerdictHandler) GenerateInitial(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	v, err := h.verdicts.GenerateInitial(c.Request.Context(), currentUserID(c), caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// List returns all verdicts for a case in round order.
func (h *VerdictHandler) List(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	verdicts, err := h.verdicts.List(c.Request.Context(), currentUserID(c), caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdicts": verdicts, "total": len(verdicts)})
}

// GetByRound returns the verdict for one round.
func (h *VerdictHandler) GetByRound(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}
	round, err := strconv.Atoi(c.Param("round"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid round number"})
		return
	}

	v, err := h.verdicts.GetByRound(c.Request.Context(), currentUserID(c), caseID, round)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
