package ui

import (
	"fmt"
	"net/http"

	"tribunal/adapters/excel"
	"tribunal/app"
	"tribunal/internal/report"
	"tribunal/ports"

	"github.com/gin-gonic/gin"
)

// CaseHandler exposes case lifecycle endpoints.
type CaseHandler struct {
	cases     *app.CaseService
	documents *app.DocumentService
	arguments *app.ArgumentService
	verdicts  *app.VerdictService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(cases *app.CaseService, documents *app.DocumentService, arguments *app.ArgumentService, verdicts *app.VerdictService) *CaseHandler {
	return &CaseHandler{cases: cases, documents: documents, arguments: arguments, verdicts: verdicts}
}

// Create opens a new case in draft status.
func (h *CaseHandler) Create(c *gin.Context) {
	var input app.CreateCaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request body"})
		return
	}

	created, err := h.cases.Create(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns the caller's cases.
func (h *CaseHandler) List(c *gin.Context) {
	cases, err := h.cases.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases, "total": len(cases)})
}

// Get returns one case with counts and confidence trend.
func (h *CaseHandler) Get(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	detail, err := h.cases.Detail(c.Request.Context(), currentUserID(c), caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update applies partial case edits. Finalized cases reject edits.
func (h *CaseHandler) Update(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	var input app.UpdateCaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request body"})
		return
	}

	updated, err := h.cases.Update(c.Request.Context(), currentUserID(c), caseID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a case and its related records.
func (h *CaseHandler) Delete(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	if err := h.cases.Delete(c.Request.Context(), currentUserID(c), caseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Case deleted"})
}

// Finalize closes the case. Requires an initial verdict.
func (h *CaseHandler) Finalize(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	finalized, err := h.cases.Finalize(c.Request.Context(), currentUserID(c), caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, finalized)
}

// Report renders the case transcript. Use ?format=markdown for raw
// markdown; HTML is the default.
func (h *CaseHandler) Report(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}
	userID := currentUserID(c)
	ctx := c.Request.Context()

	detail, err := h.cases.Detail(ctx, userID, caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	docs, err := h.documents.List(ctx, userID, caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	args, err := h.arguments.List(ctx, userID, caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	verdicts, err := h.verdicts.List(ctx, userID, caseID)
	if err != nil {
		respondError(c, err)
		return
	}

	in := report.Input{
		Case:      &detail.Case,
		Counts:    &ports.CaseCounts{Documents: detail.Documents, SideADocs: detail.SideADocs, SideBDocs: detail.SideBDocs, Arguments: detail.Arguments, Verdicts: detail.Verdicts},
		Documents: docs,
		Arguments: args,
		Verdicts:  verdicts,
	}

	if c.Query("format") == "markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(in)))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(in))
}

// Export streams the case as an xlsx workbook.
func (h *CaseHandler) Export(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}
	userID := currentUserID(c)
	ctx := c.Request.Context()

	detail, err := h.cases.Detail(ctx, userID, caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	docs, err := h.documents.List(ctx, userID, caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	args, err := h.arguments.List(ctx, userID, caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	verdicts, err := h.verdicts.List(ctx, userID, caseID)
	if err != nil {
		respondError(c, err)
		return
	}

	fileName := fmt.Sprintf("%s.xlsx", detail.CaseNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	err = excel.WriteWorkbook(c.Writer, excel.Export{
		Case:      &detail.Case,
		Documents: docs,
		Arguments: args,
		Verdicts:  verdicts,
	})
	if err != nil {
		respondError(c, err)
	}
}
