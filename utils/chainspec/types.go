// Package chainspec defines the recursive configuration tree for a
// multi-stage LLM pipeline and the operations that edit it: lookup by
// node identity, insertion at a structural position, whole-subtree
// replacement, and structural comparison. Every mutation leaves its
// input tree untouched and returns a rebuilt copy.
package chainspec

import "fmt"

// Chain type tags used in the persisted wire form.
const (
	TypeLLM        = "llm_spec"
	TypeSequential = "sequential_spec"
	TypeCase       = "case_spec"
	TypeReformat   = "reformat_spec"
	TypeAPI        = "api_spec"
)

// ChainSpec is one node of the pipeline tree. Every node carries a
// chain id that is unique across the entire tree, assigned once at
// creation and never reused.
type ChainSpec interface {
	ChainID() int
	ChainType() string
}

// LLMSpec sends a prompt template to a configured model backend and
// publishes the completion under OutputKey.
type LLMSpec struct {
	ID        int      `json:"chain_id" yaml:"chain_id"`
	Prompt    string   `json:"prompt" yaml:"prompt"`
	LLMKey    string   `json:"llm_key" yaml:"llm_key"`
	OutputKey string   `json:"output_key" yaml:"output_key"`
	InputKeys []string `json:"input_keys" yaml:"input_keys"`
}

func (s *LLMSpec) ChainID() int      { return s.ID }
func (s *LLMSpec) ChainType() string { return TypeLLM }

// SequentialSpec runs its children in order.
type SequentialSpec struct {
	ID     int
	Chains []ChainSpec
}

func (s *SequentialSpec) ChainID() int      { return s.ID }
func (s *SequentialSpec) ChainType() string { return TypeSequential }

// CaseBranch is one labeled branch of a CaseSpec. Branch order is the
// order of the entries in the persisted document; equality between trees
// ignores it.
type CaseBranch struct {
	Label string
	Chain ChainSpec
}

// CaseSpec routes to the branch whose label matches the runtime value of
// CategorizationKey, falling back to Default when no label matches.
// Default, when present, behaves as one more branch for traversal and id
// uniqueness.
type CaseSpec struct {
	ID                int
	CategorizationKey string
	Cases             []CaseBranch
	Default           ChainSpec
}

func (s *CaseSpec) ChainID() int      { return s.ID }
func (s *CaseSpec) ChainType() string { return TypeCase }

// branch returns the branch for label, or nil.
func (s *CaseSpec) branch(label string) ChainSpec {
	for _, b := range s.Cases {
		if b.Label == label {
			return b.Chain
		}
	}
	return nil
}

// ReformatSpec renders one format template per output key. InputKeys is
// the union of external variables over all formatter templates.
type ReformatSpec struct {
	ID         int
	Formatters map[string]string
	InputKeys  []string
}

func (s *ReformatSpec) ChainID() int      { return s.ID }
func (s *ReformatSpec) ChainType() string { return TypeReformat }

// APISpec calls an HTTP endpoint. URL, header values, and Body are all
// template-bearing strings.
type APISpec struct {
	ID        int
	URL       string
	Method    string
	Headers   map[string]string
	Body      string
	OutputKey string
	InputKeys []string
}

func (s *APISpec) ChainID() int      { return s.ID }
func (s *APISpec) ChainType() string { return TypeAPI }

// NewDefault constructs a variant-appropriate empty node with the given
// id. Insert is the only caller that allocates ids for fresh nodes.
func NewDefault(chainType string, id int) (ChainSpec, error) {
	switch chainType {
	case TypeLLM:
		return &LLMSpec{ID: id, InputKeys: []string{}}, nil
	case TypeSequential:
		return &SequentialSpec{ID: id, Chains: []ChainSpec{}}, nil
	case TypeCase:
		return &CaseSpec{ID: id, Cases: []CaseBranch{}}, nil
	case TypeReformat:
		return &ReformatSpec{ID: id, Formatters: map[string]string{}, InputKeys: []string{}}, nil
	case TypeAPI:
		return &APISpec{ID: id, Method: "GET", Headers: map[string]string{}, InputKeys: []string{}}, nil
	default:
		return nil, fmt.Errorf("unknown chain type %q", chainType)
	}
}

// MaxID returns the largest chain id present in the tree, or -1 for an
// empty tree. Editor sessions seed their id allocators from it.
func MaxID(tree ChainSpec) int {
	max := -1
	Walk(tree, func(_ string, node ChainSpec) bool {
		if node.ChainID() > max {
			max = node.ChainID()
		}
		return true
	})
	return max
}
