package server

import "encoding/json"

// APIError is the error envelope every handler returns.
type APIError struct {
	Error APIErrorDetail `json:"error"`
}

// APIErrorDetail carries the error type and human message.
type APIErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ChainListResponse lists stored chain document names.
type ChainListResponse struct {
	Chains []string `json:"chains"`
}

// SessionResponse describes a session's current state. Working holds the
// canonical JSON encoding of the working tree ("null" for an empty
// document).
type SessionResponse struct {
	Name    string          `json:"name"`
	Working json.RawMessage `json:"working"`
	Clean   bool            `json:"clean"`
	NextID  int             `json:"next_id"`
}

// InsertRequest asks for a new default node under a parent.
type InsertRequest struct {
	ChainType string `json:"chain_type"`
	ParentID  int    `json:"parent_id"`
	Index     int    `json:"index"`
}

// InsertResponse returns the id the allocator handed out.
type InsertResponse struct {
	ChainID int `json:"chain_id"`
}

// ReplaceRequest substitutes the subtree at ChainID with Node, given in
// the canonical JSON encoding.
type ReplaceRequest struct {
	ChainID int             `json:"chain_id"`
	Node    json.RawMessage `json:"node"`
}

// PromptRequest updates an LLM node's prompt text.
type PromptRequest struct {
	ChainID int    `json:"chain_id"`
	Prompt  string `json:"prompt"`
}

// InputKeysResponse returns keys re-derived from template text.
type InputKeysResponse struct {
	InputKeys []string `json:"input_keys"`
}

// ExtractRequest asks for input extraction over a bare template, outside
// any tree.
type ExtractRequest struct {
	Template string `json:"template"`
}

// ExtractResponse carries the derived inputs plus the annotated preview.
type ExtractResponse struct {
	InputKeys []string `json:"input_keys"`
	Preview   string   `json:"preview"`
}
