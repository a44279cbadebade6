package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tribunal/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorReturnsContent(t *testing.T) {
	srv := fakeOracleServer(t, http.StatusOK, "Extracted paragraph one.\n\nExtracted paragraph two.")
	defer srv.Close()

	cfg := testAIConfig(srv.URL + "/v1")
	cfg.MaxExtractionTokens = 4000
	extractor := NewExtractor(cfg)

	text, err := extractor.Extract(context.Background(), "%PDF-1.7 raw bytes", "pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Extracted paragraph one.")
}

func TestExtractorStalledOracleTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL + "/v1")
	cfg.Timeout = 50 * time.Millisecond
	extractor := NewExtractor(cfg)

	start := time.Now()
	_, err := extractor.Extract(context.Background(), "binary content", "pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrOracleUnavailable))
	assert.Less(t, time.Since(start), time.Second)
}

func TestBuildExtractionPromptCapsContent(t *testing.T) {
	long := make([]byte, extractionContentCap+500)
	for i := range long {
		long[i] = 'x'
	}
	prompt := buildExtractionPrompt(string(long), "docx")
	assert.Less(t, len(prompt), extractionContentCap+600)
	assert.Contains(t, prompt, "DOCX")
}
