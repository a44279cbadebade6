package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tribunal/app"
	"tribunal/internal/config"
	"tribunal/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, _, _ string) (string, error) {
	return "extracted text", nil
}

func newTestAPI(t *testing.T) (*App, *testkit.ScriptedOracle) {
	t.Helper()

	cases := testkit.NewCaseStore()
	documents := testkit.NewDocumentStore()
	arguments := testkit.NewArgumentStore()
	verdicts := testkit.NewVerdictStore(cases)
	cases.Documents = documents
	cases.Arguments = arguments
	cases.Verdicts = verdicts
	users := testkit.NewUserStore()
	oracle := testkit.NewScriptedOracle(testkit.Judgment("A", 0.8))

	auth := app.NewAuthService(users, &config.AuthConfig{SecretKey: "test-secret", TokenTTL: time.Hour})
	documentSvc := app.NewDocumentService(cases, documents, stubExtractor{}, t.TempDir(), 10, 2)

	api := NewApp(&config.ServerConfig{Port: "0", GinMode: "test"}, Services{
		Auth:      auth,
		Cases:     app.NewCaseService(cases, cases, verdicts),
		Documents: documentSvc,
		Arguments: app.NewArgumentService(cases, documents, arguments, verdicts, oracle),
		Verdicts:  app.NewVerdictService(cases, documents, verdicts, oracle),
	})
	return api, oracle
}

func doJSON(t *testing.T, api *App, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.Handler().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, api *App) string {
	t.Helper()
	w := doJSON(t, api, http.MethodPost, "/api/auth/login", "", map[string]string{"phone": "5551234567"})
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Token string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func createCase(t *testing.T, api *App, token string) string {
	t.Helper()
	w := doJSON(t, api, http.MethodPost, "/api/cases", token, map[string]string{
		"title":        "Smith v. Jones",
		"jurisdiction": "California",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created.ID
}

func TestAuthRequired(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doJSON(t, api, http.MethodGet, "/api/cases", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, api, http.MethodGet, "/api/cases", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCaseLifecycleOverHTTP(t *testing.T) {
	api, _ := newTestAPI(t)
	token := login(t, api)
	caseID := createCase(t, api, token)

	w := doJSON(t, api, http.MethodGet, "/api/cases/"+caseID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Status       string `json:"status"`
		CurrentRound int    `json:"current_round"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "draft", detail.Status)
	assert.Equal(t, 0, detail.CurrentRound)

	w = doJSON(t, api, http.MethodGet, "/api/cases", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), caseID)
}

func TestErrorMapping(t *testing.T) {
	api, _ := newTestAPI(t)
	token := login(t, api)
	caseID := createCase(t, api, token)

	// Unknown case id maps to 404.
	w := doJSON(t, api, http.MethodGet, "/api/cases/00000000-0000-0000-0000-000000000001", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Another user's case maps to 403.
	other := loginAs(t, api, "5559876543")
	w = doJSON(t, api, http.MethodGet, "/api/cases/"+caseID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Argument on a draft case maps to 422 (no initial verdict yet).
	w = doJSON(t, api, http.MethodPost, fmt.Sprintf("/api/cases/%s/arguments", caseID), token, map[string]string{
		"side":          "A",
		"argument_text": "An argument before the trial even started.",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Initial verdict without evidence maps to 422.
	w = doJSON(t, api, http.MethodPost, fmt.Sprintf("/api/cases/%s/verdict", caseID), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "has not submitted any documents")

	// Finalize without an initial verdict maps to 422.
	w = doJSON(t, api, http.MethodPost, fmt.Sprintf("/api/cases/%s/finalize", caseID), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func loginAs(t *testing.T, api *App, phone string) string {
	t.Helper()
	w := doJSON(t, api, http.MethodPost, "/api/auth/login", "", map[string]string{"phone": phone})
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Token string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result.Token
}
