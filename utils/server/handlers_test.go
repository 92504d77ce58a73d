package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kris-hansen/chainforge/utils/config"
	"github.com/kris-hansen/chainforge/utils/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() (*Server, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	cfg := config.DefaultServerConfig()
	cfg.BearerToken = "test-token"
	return NewServer(cfg, store), store
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthNoAuth(t *testing.T) {
	server, _ := newTestServer()
	handler := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestBearerAuth(t *testing.T) {
	server, _ := newTestServer()
	handler := server.Handler()

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"no bearer prefix", "test-token", http.StatusUnauthorized},
		{"valid token", "Bearer test-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/chains", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestOpenSessionNewDocument(t *testing.T) {
	server, _ := newTestServer()
	handler := server.Handler()

	w := doRequest(t, handler, http.MethodPost, "/chains/triage/open", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "triage", resp.Name)
	assert.Equal(t, "null", string(resp.Working))
	assert.True(t, resp.Clean)
	assert.Equal(t, 0, resp.NextID)
}

func TestGetSessionNotOpen(t *testing.T) {
	server, _ := newTestServer()
	handler := server.Handler()

	w := doRequest(t, handler, http.MethodGet, "/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "session_not_found", resp.Error.Type)
}

func TestEditCommitFlow(t *testing.T) {
	server, store := newTestServer()
	handler := server.Handler()

	w := doRequest(t, handler, http.MethodPost, "/chains/triage/open", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Root insert: parent and index are ignored on an empty tree.
	w = doRequest(t, handler, http.MethodPost, "/sessions/triage/insert",
		InsertRequest{ChainType: "sequential_spec", ParentID: -1, Index: 0})
	require.Equal(t, http.StatusOK, w.Code)

	var ins InsertResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ins))
	assert.Equal(t, 0, ins.ChainID)

	// Child LLM node under the root.
	w = doRequest(t, handler, http.MethodPost, "/sessions/triage/insert",
		InsertRequest{ChainType: "llm_spec", ParentID: 0, Index: 0})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ins))
	assert.Equal(t, 1, ins.ChainID)

	// Prompt edit re-derives input keys.
	w = doRequest(t, handler, http.MethodPost, "/sessions/triage/prompt",
		PromptRequest{ChainID: 1, Prompt: "Answer {question} using {context}"})
	require.Equal(t, http.StatusOK, w.Code)

	var keys InputKeysResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&keys))
	assert.Equal(t, []string{"question", "context"}, keys.InputKeys)

	// Commit is rejected while the LLM node is incomplete.
	w = doRequest(t, handler, http.MethodPost, "/sessions/triage/commit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var apiErr APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&apiErr))
	assert.Equal(t, "commit_rejected", apiErr.Error.Type)

	// Fill in the missing fields via replace.
	node := `{
		"chain_type": "llm_spec",
		"chain_id": 1,
		"prompt": "Answer {question} using {context}",
		"llm_key": "gpt-4o",
		"output_key": "answer",
		"input_keys": ["question", "context"]
	}`
	w = doRequest(t, handler, http.MethodPost, "/sessions/triage/replace",
		ReplaceRequest{ChainID: 1, Node: json.RawMessage(node)})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, handler, http.MethodPost, "/sessions/triage/commit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Clean)

	// Commit persisted the document.
	doc, err := store.Load(t.Context(), "triage")
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), `"llm_key":"gpt-4o"`)

	w = doRequest(t, handler, http.MethodGet, "/chains", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list ChainListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Equal(t, []string{"triage"}, list.Chains)
}

func TestReplaceMissingNode(t *testing.T) {
	server, _ := newTestServer()
	handler := server.Handler()

	doRequest(t, handler, http.MethodPost, "/chains/triage/open", nil)
	doRequest(t, handler, http.MethodPost, "/sessions/triage/insert",
		InsertRequest{ChainType: "llm_spec"})

	node := json.RawMessage(`{"chain_type": "llm_spec", "chain_id": 99}`)
	w := doRequest(t, handler, http.MethodPost, "/sessions/triage/replace",
		ReplaceRequest{ChainID: 99, Node: node})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInsertInvalidTarget(t *testing.T) {
	server, _ := newTestServer()
	handler := server.Handler()

	doRequest(t, handler, http.MethodPost, "/chains/triage/open", nil)
	doRequest(t, handler, http.MethodPost, "/sessions/triage/insert",
		InsertRequest{ChainType: "llm_spec"})

	// An LLM root cannot hold children.
	w := doRequest(t, handler, http.MethodPost, "/sessions/triage/insert",
		InsertRequest{ChainType: "llm_spec", ParentID: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A parent id that resolves to nothing is equally a bad request.
	w = doRequest(t, handler, http.MethodPost, "/sessions/triage/insert",
		InsertRequest{ChainType: "llm_spec", ParentID: 42})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractEndpoint(t *testing.T) {
	server, _ := newTestServer()
	handler := server.Handler()

	doRequest(t, handler, http.MethodPost, "/chains/triage/open", nil)

	w := doRequest(t, handler, http.MethodPost, "/sessions/triage/extract",
		ExtractRequest{Template: "{join:items:joined} {item} {oops:}"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ExtractResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"items"}, resp.InputKeys)
	assert.Contains(t, resp.Preview, ">>{oops:}<<")
}

func TestOpenSessionLoadsStoredDocument(t *testing.T) {
	server, store := newTestServer()
	handler := server.Handler()

	body := []byte(`{
		"chain_type": "llm_spec",
		"chain_id": 4,
		"prompt": "Summarize {text}",
		"llm_key": "gpt-4o",
		"output_key": "summary",
		"input_keys": ["text"]
	}`)
	require.NoError(t, store.Save(t.Context(), &storage.Document{Name: "summarize", Body: body}))

	w := doRequest(t, handler, http.MethodPost, "/chains/summarize/open", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Clean)
	assert.Equal(t, 5, resp.NextID)
	assert.Contains(t, string(resp.Working), `"output_key":"summary"`)
}
