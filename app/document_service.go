package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tribunal/ai"
	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/internal/errors"
	"tribunal/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// allowedFileTypes are the upload formats the pipeline knows how to
// extract text from.
var allowedFileTypes = map[string]bool{
	"txt":  true,
	"pdf":  true,
	"docx": true,
	"doc":  true,
}

// binaryPreviewBytes bounds how much of a binary file is handed to the
// extractor.
const binaryPreviewBytes = 10000

// charsPerPage and wordsPerPage are the page-count estimates for text and
// extracted binary documents respectively.
const (
	charsPerPage = 3000
	wordsPerPage = 500
)

// extractionTimeout caps one background extraction task.
const extractionTimeout = 3 * time.Minute

// DocumentService handles evidence intake and the asynchronous text
// extraction pipeline. Every uploaded document reaches an observable
// terminal status: ready with extracted text, or failed with the recorded
// reason. Failures are never swallowed.
type DocumentService struct {
	cases     ports.CaseRepository
	documents ports.DocumentRepository
	extractor ports.TextExtractor

	uploadDir    string
	maxSizeBytes int64

	// sem bounds concurrent extraction tasks; wg lets Close drain them.
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewDocumentService creates a new document service
func NewDocumentService(
	cases ports.CaseRepository,
	documents ports.DocumentRepository,
	extractor ports.TextExtractor,
	uploadDir string,
	maxSizeMB int,
	extractionConcurrency int,
) *DocumentService {
	return &DocumentService{
		cases:        cases,
		documents:    documents,
		extractor:    extractor,
		uploadDir:    uploadDir,
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
		sem:          semaphore.NewWeighted(int64(extractionConcurrency)),
	}
}

// Upload validates and stores an evidence file, creates its pending record
// and schedules extraction. The returned document is in status pending;
// callers poll it until ready or failed.
func (s *DocumentService) Upload(ctx context.Context, userID, caseID uuid.UUID, title string, side trial.Side, fileName string, content []byte) (*trial.Document, error) {
	if !side.Valid() {
		return nil, core.ErrInvalidSide
	}
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 500 {
		return nil, core.NewValidationError("title must be 1-500 characters")
	}
	if int64(len(content)) > s.maxSizeBytes {
		return nil, core.NewValidationError(fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxSizeBytes))
	}

	fileType := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if !allowedFileTypes[fileType] {
		return nil, core.NewValidationError("unsupported file type: " + fileType)
	}

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy != userID {
		return nil, core.ErrAccessDenied
	}
	if c.Status == trial.StatusFinalized {
		return nil, core.ErrCaseFinalized
	}

	docID := uuid.New()
	caseDir := filepath.Join(s.uploadDir, caseID.String())
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		return nil, errors.StorageError("failed to create upload directory", err)
	}
	filePath := filepath.Join(caseDir, docID.String()+"."+fileType)
	if err := os.WriteFile(filePath, content, 0o644); err != nil {
		return nil, errors.StorageError("failed to store upload", err)
	}

	doc := &trial.Document{
		ID:         docID,
		CaseID:     caseID,
		Side:       side,
		Title:      title,
		FileName:   fileName,
		FilePath:   filePath,
		FileType:   fileType,
		UploadedBy: userID,
		UploadedAt: time.Now().UTC(),
		Status:     trial.DocPending,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	s.scheduleExtraction(docID, caseID)
	return doc, nil
}

// scheduleExtraction runs the extraction task in the background, bounded
// by the service semaphore.
func (s *DocumentService) scheduleExtraction(docID, caseID uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), extractionTimeout)
		defer cancel()

		if err := s.sem.Acquire(ctx, 1); err != nil {
			log.Printf("[DocumentService] Extraction slot unavailable for %s: %v", docID, err)
			_ = s.documents.MarkFailed(ctx, docID, "extraction scheduling timed out")
			return
		}
		defer s.sem.Release(1)

		if err := s.process(ctx, docID, caseID); err != nil {
			log.Printf("[DocumentService] Extraction failed for %s: %v", docID, err)
		}
	}()
}

// process runs one extraction task through to a terminal status.
func (s *DocumentService) process(ctx context.Context, docID, caseID uuid.UUID) error {
	doc, err := s.documents.GetByID(ctx, caseID, docID)
	if err != nil {
		return err
	}

	if err := s.documents.MarkProcessing(ctx, docID); err != nil {
		return err
	}

	fullText, wordCount, pageCount, err := s.extractText(ctx, doc)
	if err != nil {
		if markErr := s.documents.MarkFailed(ctx, docID, err.Error()); markErr != nil {
			return markErr
		}
		return err
	}

	if err := s.documents.MarkReady(ctx, docID, fullText, wordCount, pageCount); err != nil {
		return err
	}

	log.Printf("[DocumentService] Document ready: %s (%d words)", docID, wordCount)
	return nil
}

func (s *DocumentService) extractText(ctx context.Context, doc *trial.Document) (string, int, int, error) {
	raw, err := os.ReadFile(doc.FilePath)
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to read stored file: %w", err)
	}

	if doc.FileType == "txt" {
		fullText := string(raw)
		wordCount := ai.CountWords(fullText)
		pageCount := len(fullText) / charsPerPage
		if pageCount < 1 {
			pageCount = 1
		}
		return fullText, wordCount, pageCount, nil
	}

	preview := raw
	if len(preview) > binaryPreviewBytes {
		preview = preview[:binaryPreviewBytes]
	}
	content := strings.ToValidUTF8(string(preview), "")

	fullText, err := s.extractor.Extract(ctx, content, doc.FileType)
	if err != nil {
		return "", 0, 0, err
	}

	wordCount := ai.CountWords(fullText)
	pageCount := wordCount / wordsPerPage
	if pageCount < 1 {
		pageCount = 1
	}
	return fullText, wordCount, pageCount, nil
}

// Get returns one document for a case the caller owns.
func (s *DocumentService) Get(ctx context.Context, userID, caseID, docID uuid.UUID) (*trial.Document, error) {
	if _, err := s.ownedCase(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.documents.GetByID(ctx, caseID, docID)
}

// List returns all documents for a case the caller owns.
func (s *DocumentService) List(ctx context.Context, userID, caseID uuid.UUID) ([]trial.Document, error) {
	if _, err := s.ownedCase(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.documents.ListByCase(ctx, caseID)
}

// Delete removes a document record and its stored file.
func (s *DocumentService) Delete(ctx context.Context, userID, caseID, docID uuid.UUID) error {
	c, err := s.ownedCase(ctx, userID, caseID)
	if err != nil {
		return err
	}
	if c.Status == trial.StatusFinalized {
		return core.ErrCaseFinalized
	}

	doc, err := s.documents.GetByID(ctx, caseID, docID)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, caseID, docID); err != nil {
		return err
	}
	if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("[DocumentService] Failed to remove stored file %s: %v", doc.FilePath, err)
	}
	return nil
}

// Close waits for in-flight extraction tasks to finish.
func (s *DocumentService) Close() {
	s.wg.Wait()
}

func (s *DocumentService) ownedCase(ctx context.Context, userID, caseID uuid.UUID) (*trial.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy != userID {
		return nil, core.ErrAccessDenied
	}
	return c, nil
}
