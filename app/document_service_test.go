package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tribunal/domain/core"
	"tribunal/domain/trial"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) Extract(_ context.Context, _, _ string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

func newDocumentService(t *testing.T, f *fixture, extractor *fakeExtractor) *DocumentService {
	t.Helper()
	return NewDocumentService(f.cases, f.documents, extractor, t.TempDir(), 10, 2)
}

func TestUploadTextDocumentExtractsDirectly(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	svc := newDocumentService(t, f, &fakeExtractor{})

	content := []byte("The quick brown fox jumps over the lazy dog.")
	doc, err := svc.Upload(context.Background(), f.userID, f.caseID, "Witness statement", trial.SideA, "statement.txt", content)
	require.NoError(t, err)
	assert.Equal(t, trial.DocPending, doc.Status)

	svc.Close()

	stored, err := f.documents.GetByID(context.Background(), f.caseID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, trial.DocReady, stored.Status)
	require.NotNil(t, stored.FullText)
	assert.Equal(t, string(content), *stored.FullText)
	require.NotNil(t, stored.WordCount)
	assert.Equal(t, 9, *stored.WordCount)
	require.NotNil(t, stored.PageCount)
	assert.Equal(t, 1, *stored.PageCount)
	assert.Nil(t, stored.ErrorMessage)
}

func TestUploadBinaryDocumentUsesExtractor(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	svc := newDocumentService(t, f, &fakeExtractor{text: "Extracted body of the filing."})

	doc, err := svc.Upload(context.Background(), f.userID, f.caseID, "Filing", trial.SideB, "filing.pdf", []byte("%PDF-1.7 binary junk"))
	require.NoError(t, err)

	svc.Close()

	stored, err := f.documents.GetByID(context.Background(), f.caseID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, trial.DocReady, stored.Status)
	require.NotNil(t, stored.FullText)
	assert.Equal(t, "Extracted body of the filing.", *stored.FullText)
}

func TestUploadExtractionFailureIsObservable(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	svc := newDocumentService(t, f, &fakeExtractor{err: errors.New("model refused the content")})

	doc, err := svc.Upload(context.Background(), f.userID, f.caseID, "Filing", trial.SideA, "filing.pdf", []byte("%PDF junk"))
	require.NoError(t, err)

	svc.Close()

	stored, err := f.documents.GetByID(context.Background(), f.caseID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, trial.DocFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Contains(t, *stored.ErrorMessage, "model refused")
	assert.Nil(t, stored.FullText)
}

func TestUploadValidation(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	svc := newDocumentService(t, f, &fakeExtractor{})
	ctx := context.Background()

	_, err := svc.Upload(ctx, f.userID, f.caseID, "Doc", trial.Side("X"), "a.txt", []byte("x"))
	assert.True(t, errors.Is(err, core.ErrValidation))

	_, err = svc.Upload(ctx, f.userID, f.caseID, "  ", trial.SideA, "a.txt", []byte("x"))
	assert.True(t, errors.Is(err, core.ErrValidation))

	_, err = svc.Upload(ctx, f.userID, f.caseID, "Doc", trial.SideA, "malware.exe", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrValidation))
	assert.Contains(t, err.Error(), "unsupported file type")

	oversized := make([]byte, 11*1024*1024)
	_, err = svc.Upload(ctx, f.userID, f.caseID, "Doc", trial.SideA, "big.txt", oversized)
	assert.True(t, errors.Is(err, core.ErrValidation))
}

func TestUploadToFinalizedCaseRejected(t *testing.T) {
	f := newFixture(t, trial.StatusFinalized, 2)
	svc := newDocumentService(t, f, &fakeExtractor{})

	_, err := svc.Upload(context.Background(), f.userID, f.caseID, "Late evidence", trial.SideA, "late.txt", []byte("too late"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrCaseFinalized))
}

func TestUploadAccessDenied(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	svc := newDocumentService(t, f, &fakeExtractor{})

	_, err := svc.Upload(context.Background(), uuid.New(), f.caseID, "Doc", trial.SideA, "a.txt", []byte("content"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAccessDenied))
}

func TestLargeTextPageCount(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	svc := newDocumentService(t, f, &fakeExtractor{})

	content := []byte(strings.Repeat("word ", 2000)) // 10000 chars
	doc, err := svc.Upload(context.Background(), f.userID, f.caseID, "Long doc", trial.SideA, "long.txt", content)
	require.NoError(t, err)

	svc.Close()

	stored, err := f.documents.GetByID(context.Background(), f.caseID, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PageCount)
	assert.Equal(t, 3, *stored.PageCount)
}

func TestDeleteDocument(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	svc := newDocumentService(t, f, &fakeExtractor{})
	ctx := context.Background()

	doc, err := svc.Upload(ctx, f.userID, f.caseID, "Doc", trial.SideA, "a.txt", []byte("some content here"))
	require.NoError(t, err)
	svc.Close()

	require.NoError(t, svc.Delete(ctx, f.userID, f.caseID, doc.ID))

	_, err = f.documents.GetByID(ctx, f.caseID, doc.ID)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
