// Package editor holds the single-writer editing session for one chain
// document: a committed tree, a working copy, and the id allocator that
// hands out globally unique chain ids. All edits go through the session
// so that input_keys stay derived from the node's own template text and
// the committed/working pair stays comparable.
package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/kris-hansen/chainforge/utils/chainspec"
	"github.com/kris-hansen/chainforge/utils/config"
	"github.com/kris-hansen/chainforge/utils/template"
)

// ErrDirty reports an attempt to export a session whose working copy has
// diverged from the committed tree.
var ErrDirty = errors.New("session has uncommitted edits")

// Session is not safe for concurrent use. One document, one writer: two
// goroutines inserting through the same session would race the id
// allocator and break global id uniqueness.
type Session struct {
	committed chainspec.ChainSpec
	working   chainspec.ChainSpec
	nextID    int

	llmKeyOK func(string) bool

	// Header text that failed to parse is kept verbatim, per node, so a
	// typo never throws away what the user typed. The last good value
	// stays on the node itself.
	rawHeaders map[int]string
	headerErrs map[int]string
}

// Option configures a new session.
type Option func(*Session)

// WithLLMKeyChecker installs a registry check applied when an llm_key is
// set and when the session commits.
func WithLLMKeyChecker(ok func(string) bool) Option {
	return func(s *Session) { s.llmKeyOK = ok }
}

// NewSession opens a session over a committed tree (nil for a new,
// empty document). The id allocator resumes above the largest id already
// present.
func NewSession(committed chainspec.ChainSpec, opts ...Option) *Session {
	s := &Session{
		committed:  committed,
		working:    committed,
		nextID:     chainspec.MaxID(committed) + 1,
		rawHeaders: make(map[int]string),
		headerErrs: make(map[int]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	config.DebugLog("[Editor] session opened, next id %d", s.nextID)
	return s
}

// Working returns the current edit buffer. Callers must treat it as
// read-only; every mutation rebuilds the affected path.
func (s *Session) Working() chainspec.ChainSpec { return s.working }

// Committed returns the last externally accepted tree.
func (s *Session) Committed() chainspec.ChainSpec { return s.committed }

// NextID exposes the allocator value, for display only.
func (s *Session) NextID() int { return s.nextID }

// Clean reports whether the working copy still matches the committed
// tree. The digest comparison short-circuits the common no-drift case.
func (s *Session) Clean() bool {
	if chainspec.Hash(s.committed) == chainspec.Hash(s.working) {
		return chainspec.Equal(s.committed, s.working)
	}
	return false
}

// Insert allocates the next chain id, creates a default node of
// chainType, and splices it under parentID at index. On an empty working
// tree the node becomes the root. Returns the new node's id.
func (s *Session) Insert(chainType string, parentID, index int) (int, error) {
	newTree, next, err := chainspec.Insert(s.working, s.nextID, chainType, parentID, index)
	if err != nil {
		return 0, err
	}
	id := s.nextID
	s.working, s.nextID = newTree, next
	config.DebugLog("[Editor] inserted %s id %d under %d", chainType, id, parentID)
	return id, nil
}

// Replace substitutes the whole subtree at id. A miss is fatal to the
// edit: it means the caller's view of the tree is stale. Header text
// retained for nodes inside the outgoing subtree is dropped with it.
func (s *Session) Replace(id int, node chainspec.ChainSpec) error {
	outgoing := chainspec.Find(s.working, id)
	if err := s.replace(id, node); err != nil {
		return err
	}
	chainspec.Walk(outgoing, func(_ string, n chainspec.ChainSpec) bool {
		delete(s.rawHeaders, n.ChainID())
		delete(s.headerErrs, n.ChainID())
		return true
	})
	return nil
}

// replace is the shared substitution path. Field editors use it directly
// so the header text they just recorded survives the swap. A replacement
// subtree may carry ids the session never allocated; the allocator
// resyncs so a later Insert cannot re-mint one of them.
func (s *Session) replace(id int, node chainspec.ChainSpec) error {
	newTree, err := chainspec.Replace(s.working, id, node)
	if err != nil {
		return err
	}
	s.working = newTree
	if next := chainspec.MaxID(s.working) + 1; next > s.nextID {
		s.nextID = next
	}
	return nil
}

// SetPrompt updates an LLM node's prompt and re-derives its input keys
// from the new template text. Returns the derived keys.
func (s *Session) SetPrompt(id int, prompt string) ([]string, error) {
	node, err := findLLM(s.working, id)
	if err != nil {
		return nil, err
	}
	inputs, _ := template.ExtractInputs(prompt)
	updated := *node
	updated.Prompt = prompt
	updated.InputKeys = inputs
	if err := s.replace(id, &updated); err != nil {
		return nil, err
	}
	return inputs, nil
}

// SetLLMKey updates an LLM node's backend key, vetting it against the
// registry when a checker is installed.
func (s *Session) SetLLMKey(id int, key string) error {
	node, err := findLLM(s.working, id)
	if err != nil {
		return err
	}
	if s.llmKeyOK != nil && !s.llmKeyOK(key) {
		return fmt.Errorf("llm_key %q matches no registered backend", key)
	}
	updated := *node
	updated.LLMKey = key
	return s.replace(id, &updated)
}

// SetOutputKey renames the variable an LLM or API node publishes.
func (s *Session) SetOutputKey(id int, key string) error {
	switch node := chainspec.Find(s.working, id).(type) {
	case *chainspec.LLMSpec:
		updated := *node
		updated.OutputKey = key
		return s.replace(id, &updated)
	case *chainspec.APISpec:
		updated := *node
		updated.OutputKey = key
		return s.replace(id, &updated)
	case nil:
		return fmt.Errorf("set output_key: no node with id %d: %w", id, chainspec.ErrNodeNotFound)
	default:
		return fmt.Errorf("set output_key: node %d is a %s", id, node.ChainType())
	}
}

// SetFormatter sets one format template on a reformat node and
// recomputes input_keys as the union over all of its templates.
func (s *Session) SetFormatter(id int, outputKey, tmpl string) ([]string, error) {
	node, err := findReformat(s.working, id)
	if err != nil {
		return nil, err
	}
	formatters := make(map[string]string, len(node.Formatters)+1)
	for k, v := range node.Formatters {
		formatters[k] = v
	}
	formatters[outputKey] = tmpl

	inputs := formatterUnion(formatters)
	updated := chainspec.ReformatSpec{ID: node.ID, Formatters: formatters, InputKeys: inputs}
	if err := s.replace(id, &updated); err != nil {
		return nil, err
	}
	return inputs, nil
}

// RemoveFormatter drops one format template and recomputes input_keys.
func (s *Session) RemoveFormatter(id int, outputKey string) error {
	node, err := findReformat(s.working, id)
	if err != nil {
		return err
	}
	formatters := make(map[string]string, len(node.Formatters))
	for k, v := range node.Formatters {
		if k != outputKey {
			formatters[k] = v
		}
	}
	updated := chainspec.ReformatSpec{ID: node.ID, Formatters: formatters, InputKeys: formatterUnion(formatters)}
	return s.replace(id, &updated)
}

// SetEndpoint updates an API node's URL and method and re-derives its
// input keys over every template-bearing field.
func (s *Session) SetEndpoint(id int, url, method string) ([]string, error) {
	node, err := findAPI(s.working, id)
	if err != nil {
		return nil, err
	}
	updated := *node
	updated.URL = url
	updated.Method = method
	updated.InputKeys = apiInputKeys(&updated)
	if err := s.replace(id, &updated); err != nil {
		return nil, err
	}
	return updated.InputKeys, nil
}

// SetBody updates an API node's body template.
func (s *Session) SetBody(id int, body string) ([]string, error) {
	node, err := findAPI(s.working, id)
	if err != nil {
		return nil, err
	}
	updated := *node
	updated.Body = body
	updated.InputKeys = apiInputKeys(&updated)
	if err := s.replace(id, &updated); err != nil {
		return nil, err
	}
	return updated.InputKeys, nil
}

// SetHeaders parses raw as a JSON object of header templates. A parse
// failure is recoverable: the node keeps its last good headers, the raw
// text is retained for the caller to re-edit, and the error is surfaced
// through HeaderError instead of failing the edit.
func (s *Session) SetHeaders(id int, raw string) ([]string, error) {
	node, err := findAPI(s.working, id)
	if err != nil {
		return nil, err
	}

	s.rawHeaders[id] = raw
	var headers map[string]string
	if err := json.Unmarshal([]byte(raw), &headers); err != nil {
		s.headerErrs[id] = err.Error()
		config.DebugLog("[Editor] headers for node %d kept at last good value: %v", id, err)
		return node.InputKeys, nil
	}
	delete(s.headerErrs, id)

	updated := *node
	updated.Headers = headers
	updated.InputKeys = apiInputKeys(&updated)
	if err := s.replace(id, &updated); err != nil {
		return nil, err
	}
	return updated.InputKeys, nil
}

// HeaderError reports the pending header parse error for a node, if any.
func (s *Session) HeaderError(id int) (string, bool) {
	msg, ok := s.headerErrs[id]
	return msg, ok
}

// RawHeaders returns the header text exactly as last entered for a node,
// parsed or not. Empty when the node was never edited in this session.
func (s *Session) RawHeaders(id int) string { return s.rawHeaders[id] }

// Commit validates the working tree and accepts it as the committed
// copy. A failed validation leaves both trees untouched.
func (s *Session) Commit() error {
	result := chainspec.Validate(s.working, s.llmKeyOK)
	if !result.Valid {
		return fmt.Errorf("commit rejected:\n%s", result.ErrorSummary())
	}
	s.committed = s.working
	config.DebugLog("[Editor] committed tree, digest %x", chainspec.Hash(s.committed))
	return nil
}

// Runnable returns the committed tree for execution. While the session
// is dirty the tree is withheld: external consumers must never run a
// half-edited document.
func (s *Session) Runnable() (chainspec.ChainSpec, error) {
	if !s.Clean() {
		return nil, ErrDirty
	}
	return s.committed, nil
}

func findLLM(tree chainspec.ChainSpec, id int) (*chainspec.LLMSpec, error) {
	switch node := chainspec.Find(tree, id).(type) {
	case *chainspec.LLMSpec:
		return node, nil
	case nil:
		return nil, fmt.Errorf("no node with id %d: %w", id, chainspec.ErrNodeNotFound)
	default:
		return nil, fmt.Errorf("node %d is a %s, not an llm_spec", id, node.ChainType())
	}
}

func findReformat(tree chainspec.ChainSpec, id int) (*chainspec.ReformatSpec, error) {
	switch node := chainspec.Find(tree, id).(type) {
	case *chainspec.ReformatSpec:
		return node, nil
	case nil:
		return nil, fmt.Errorf("no node with id %d: %w", id, chainspec.ErrNodeNotFound)
	default:
		return nil, fmt.Errorf("node %d is a %s, not a reformat_spec", id, node.ChainType())
	}
}

func findAPI(tree chainspec.ChainSpec, id int) (*chainspec.APISpec, error) {
	switch node := chainspec.Find(tree, id).(type) {
	case *chainspec.APISpec:
		return node, nil
	case nil:
		return nil, fmt.Errorf("no node with id %d: %w", id, chainspec.ErrNodeNotFound)
	default:
		return nil, fmt.Errorf("node %d is a %s, not an api_spec", id, node.ChainType())
	}
}

// formatterUnion merges inputs over all formatter templates, iterating
// keys in sorted order so the result is deterministic.
func formatterUnion(formatters map[string]string) []string {
	keys := make([]string, 0, len(formatters))
	for k := range formatters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	templates := make([]string, 0, len(keys))
	for _, k := range keys {
		templates = append(templates, formatters[k])
	}
	return template.InputUnion(templates...)
}

// apiInputKeys derives input_keys over every template-bearing field of
// an API node: URL first, then headers in sorted key order, then body.
func apiInputKeys(node *chainspec.APISpec) []string {
	templates := []string{node.URL}
	keys := make([]string, 0, len(node.Headers))
	for k := range node.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		templates = append(templates, node.Headers[k])
	}
	templates = append(templates, node.Body)
	return template.InputUnion(templates...)
}
