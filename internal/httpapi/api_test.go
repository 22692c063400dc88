package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongjun500/codepair-go/internal/session"
)

func newTestServer(t *testing.T) (*echo.Echo, *session.Registry) {
	t.Helper()
	registry := session.NewRegistry()
	e := echo.New()
	New(registry, "http://localhost:5173").Register(e)
	return e, registry
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateSessionDefaults(t *testing.T) {
	e, registry := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp createSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NoError(t, session.ValidateID(resp.SessionID))
	assert.Equal(t, "http://localhost:5173/session/"+resp.SessionID, resp.ShareLink)

	sess, ok := registry.Get(resp.SessionID)
	require.True(t, ok)
	assert.Equal(t, "javascript", sess.Language)
	assert.Equal(t, "// Write your JavaScript code here\n", sess.Code)
}

func TestCreateSessionWithLanguage(t *testing.T) {
	e, registry := newTestServer(t)

	body := strings.NewReader(`{"language":"python"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp createSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	sess, ok := registry.Get(resp.SessionID)
	require.True(t, ok)
	assert.Equal(t, "python", sess.Language)
	assert.Equal(t, "# Write your Python code here\n", sess.Code)
}

func TestGetSession(t *testing.T) {
	e, registry := newTestServer(t)
	sess, err := registry.Create("abc123xyz", "print(1)", "python")
	require.NoError(t, err)
	sess.Lock()
	sess.AddMember("c1")
	sess.AddMember("c2")
	sess.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc123xyz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, sessionResponse{
		ID:        "abc123xyz",
		Code:      "print(1)",
		Language:  "python",
		UserCount: 2,
	}, resp)
}

func TestGetSessionNotFound(t *testing.T) {
	e, _ := newTestServer(t)

	for _, id := range []string{"missingxx", "bad-id", "x"} {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code, "id %q", id)
		assert.JSONEq(t, `{"error":"Session not found"}`, rec.Body.String())
	}
}
