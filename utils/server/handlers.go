package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kris-hansen/chainforge/utils/chainspec"
	"github.com/kris-hansen/chainforge/utils/config"
	"github.com/kris-hansen/chainforge/utils/editor"
	"github.com/kris-hansen/chainforge/utils/storage"
	"github.com/kris-hansen/chainforge/utils/template"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleListChains(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		sendError(w, http.StatusInternalServerError, "server_error", "Failed to list chains: "+err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	sendJSON(w, http.StatusOK, ChainListResponse{Chains: names})
}

// handleOpenSession loads the named document into a fresh session. A
// missing document opens an empty session so new chains can be built
// from nothing.
func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var committed chainspec.ChainSpec
	doc, err := s.store.Load(r.Context(), name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// New document, empty tree.
	case err != nil:
		sendError(w, http.StatusInternalServerError, "server_error", "Failed to load chain: "+err.Error())
		return
	default:
		committed, err = chainspec.DecodeJSON(doc.Body)
		if err != nil {
			sendError(w, http.StatusInternalServerError, "server_error", "Stored chain is unreadable: "+err.Error())
			return
		}
	}

	session := editor.NewSession(committed, editor.WithLLMKeyChecker(llmKeyChecker))
	e := s.openEntry(name, session)
	config.VerboseLog("[Server] opened session %q", name)

	e.mu.Lock()
	defer e.mu.Unlock()
	s.sendSession(w, name, e.session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	e := s.entry(name)
	if e == nil {
		sendError(w, http.StatusNotFound, "session_not_found", "No open session for "+name)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s.sendSession(w, name, e.session)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	e, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	var req InsertRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	id, err := e.session.Insert(req.ChainType, req.ParentID, req.Index)
	if err != nil {
		// A parent that cannot take the child, including one that does
		// not exist, is a bad request rather than a missing resource.
		sendError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
		return
	}
	sendJSON(w, http.StatusOK, InsertResponse{ChainID: id})
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	e, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	var req ReplaceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	node, err := chainspec.DecodeJSON(req.Node)
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid_request_error", "Bad node encoding: "+err.Error())
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.session.Replace(req.ChainID, node); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, chainspec.ErrNodeNotFound) {
			status = http.StatusNotFound
		}
		sendError(w, status, "invalid_request_error", err.Error())
		return
	}
	s.sendSession(w, r.PathValue("name"), e.session)
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	e, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	var req PromptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	keys, err := e.session.SetPrompt(req.ChainID, req.Prompt)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, chainspec.ErrNodeNotFound) {
			status = http.StatusNotFound
		}
		sendError(w, status, "invalid_request_error", err.Error())
		return
	}
	sendJSON(w, http.StatusOK, InputKeysResponse{InputKeys: keys})
}

// handleExtract derives inputs for a bare template without touching any
// tree. It still lives under the session path so clients keep one base
// URL per document.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireSession(w, r); !ok {
		return
	}
	var req ExtractRequest
	if !decodeBody(w, r, &req) {
		return
	}
	keys, preview := template.ExtractInputsRendered(req.Template, annotateToken)
	sendJSON(w, http.StatusOK, ExtractResponse{InputKeys: keys, Preview: preview})
}

// annotateToken marks malformed tokens in the preview so clients can
// surface them without terminal styling.
func annotateToken(kind template.TokenKind, raw string) string {
	if kind == template.TokenError {
		return ">>" + raw + "<<"
	}
	return raw
}

// handleCommit validates and accepts the working tree, then persists it.
// Validation failures return 409 so clients can distinguish a rejected
// commit from a malformed request.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	e, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.session.Commit(); err != nil {
		sendError(w, http.StatusConflict, "commit_rejected", err.Error())
		return
	}

	body, err := chainspec.EncodeJSON(e.session.Committed())
	if err != nil {
		sendError(w, http.StatusInternalServerError, "server_error", "Failed to encode chain: "+err.Error())
		return
	}
	if err := s.store.Save(r.Context(), &storage.Document{Name: name, Body: body}); err != nil {
		sendError(w, http.StatusInternalServerError, "server_error", "Failed to persist chain: "+err.Error())
		return
	}
	config.VerboseLog("[Server] committed and saved %q", name)
	s.sendSession(w, name, e.session)
}

// requireSession resolves the request's session entry or writes a 404.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (*sessionEntry, bool) {
	name := r.PathValue("name")
	e := s.entry(name)
	if e == nil {
		sendError(w, http.StatusNotFound, "session_not_found", "No open session for "+name)
		return nil, false
	}
	return e, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendError(w, http.StatusBadRequest, "invalid_request_error", "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// sendSession writes the session state response. Caller holds the
// session mutex.
func (s *Server) sendSession(w http.ResponseWriter, name string, session *editor.Session) {
	body, err := chainspec.EncodeJSON(session.Working())
	if err != nil {
		sendError(w, http.StatusInternalServerError, "server_error", "Failed to encode chain: "+err.Error())
		return
	}
	sendJSON(w, http.StatusOK, SessionResponse{
		Name:    name,
		Working: body,
		Clean:   session.Clean(),
		NextID:  session.NextID(),
	})
}
