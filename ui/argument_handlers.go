package ui

import (
	"net/http"

	"tribunal/app"
	"tribunal/domain/trial"

	"github.com/gin-gonic/gin"
)

// ArgumentHandler exposes round argument endpoints.
type ArgumentHandler struct {
	arguments *app.ArgumentService
}

// NewArgumentHandler creates a new argument handler
func NewArgumentHandler(arguments *app.ArgumentService) *ArgumentHandler {
	return &ArgumentHandler{arguments: arguments}
}

type submitArgumentRequest struct {
	Side         string `json:"side" binding:"required"`
	ArgumentText string `json:"argument_text" binding:"required"`
}

// Submit records one side's argument for the current round. When both
// sides are in, the round verdict is generated before responding.
func (h *ArgumentHandler) Submit(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	var req submitArgumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "side and argument_text are required"})
		return
	}

	result, err := h.arguments.Submit(c.Request.Context(), currentUserID(c), caseID, trial.Side(req.Side), req.ArgumentText)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Resume retriggers adjudication for a round whose arguments are complete
// but whose verdict generation previously failed.
func (h *ArgumentHandler) Resume(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	v, err := h.arguments.Resume(c.Request.Context(), currentUserID(c), caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// List returns all arguments for a case ordered by round, then side.
func (h *ArgumentHandler) List(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	args, err := h.arguments.List(c.Request.Context(), currentUserID(c), caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"arguments": args, "total": len(args)})
}
