package ui

import (
	"io"
	"net/http"

	"tribunal/app"
	"tribunal/domain/trial"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler exposes evidence upload and retrieval endpoints.
type DocumentHandler struct {
	documents *app.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Upload accepts a multipart evidence file. The document is created in
// pending status; extraction runs in the background.
func (h *DocumentHandler) Upload(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "file is required"})
		return
	}
	title := c.PostForm("title")
	side := trial.Side(c.PostForm("side"))

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "failed to read uploaded file"})
		return
	}

	doc, err := h.documents.Upload(c.Request.Context(), currentUserID(c), caseID, title, side, fileHeader.Filename, content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// List returns all documents for a case.
func (h *DocumentHandler) List(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}

	docs, err := h.documents.List(c.Request.Context(), currentUserID(c), caseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

// Get returns one document, including its extraction status and, once
// ready, the extracted text.
func (h *DocumentHandler) Get(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}
	docID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid document ID"})
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), currentUserID(c), caseID, docID)
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("include_text") != "true" {
		doc.FullText = nil
	}
	c.JSON(http.StatusOK, doc)
}

// Delete removes a document and its stored file.
func (h *DocumentHandler) Delete(c *gin.Context) {
	caseID, ok := caseIDParam(c)
	if !ok {
		return
	}
	docID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid document ID"})
		return
	}

	if err := h.documents.Delete(c.Request.Context(), currentUserID(c), caseID, docID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
