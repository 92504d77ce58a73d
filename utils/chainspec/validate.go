package chainspec

import (
	"fmt"
	"strings"
)

// ValidationError describes one problem found in a tree, with a
// suggested fix the editor can surface directly.
type ValidationError struct {
	ChainID int    // Offending node id (-1 if unknown)
	Field   string // Field involved, when specific
	Message string
	Fix     string
}

func (e ValidationError) String() string {
	if e.ChainID >= 0 {
		return fmt.Sprintf("Node %d: %s. %s", e.ChainID, e.Message, e.Fix)
	}
	return fmt.Sprintf("%s. %s", e.Message, e.Fix)
}

// ValidationResult collects every error found in one pass.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ErrorSummary formats all errors as a numbered list.
func (r ValidationResult) ErrorSummary() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	lines := []string{"Validation errors found:"}
	for i, err := range r.Errors {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, err.String()))
	}
	return strings.Join(lines, "\n")
}

var apiMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
}

// Validate checks the structural invariants of a tree: global id
// uniqueness, non-negative ids, and per-variant field requirements.
// llmKeyOK, when non-nil, vets each llm_key against the backend
// registry; pass nil to skip registry checks (offline validation).
func Validate(tree ChainSpec, llmKeyOK func(string) bool) ValidationResult {
	result := ValidationResult{Valid: true}
	if tree == nil {
		return result
	}

	seen := make(map[int]bool)
	Walk(tree, func(_ string, node ChainSpec) bool {
		id := node.ChainID()
		if id < 0 {
			result.Errors = append(result.Errors, ValidationError{
				ChainID: id,
				Field:   "chain_id",
				Message: "chain_id must be non-negative",
				Fix:     "Recreate the node through an editor session so it receives an allocated id.",
			})
		} else if seen[id] {
			result.Errors = append(result.Errors, ValidationError{
				ChainID: id,
				Field:   "chain_id",
				Message: "duplicate chain_id",
				Fix:     "Every node needs a unique id; rebuild the duplicated subtree through insert.",
			})
		}
		seen[id] = true

		result.Errors = append(result.Errors, validateNode(node, llmKeyOK)...)
		return true
	})

	if len(result.Errors) > 0 {
		result.Valid = false
	}
	return result
}

func validateNode(node ChainSpec, llmKeyOK func(string) bool) []ValidationError {
	var errs []ValidationError
	id := node.ChainID()

	switch n := node.(type) {
	case *LLMSpec:
		if n.LLMKey == "" {
			errs = append(errs, ValidationError{
				ChainID: id, Field: "llm_key",
				Message: "llm_key is empty",
				Fix:     "Set llm_key to a model known to the backend registry.",
			})
		} else if llmKeyOK != nil && !llmKeyOK(n.LLMKey) {
			errs = append(errs, ValidationError{
				ChainID: id, Field: "llm_key",
				Message: fmt.Sprintf("llm_key %q matches no registered backend", n.LLMKey),
				Fix:     "Pick a model from the registry, or register the backend first.",
			})
		}
		if n.OutputKey == "" {
			errs = append(errs, ValidationError{
				ChainID: id, Field: "output_key",
				Message: "output_key is empty",
				Fix:     "Name the variable this node publishes for later nodes.",
			})
		}

	case *SequentialSpec:
		for i, child := range n.Chains {
			if child == nil {
				errs = append(errs, ValidationError{
					ChainID: id, Field: "chains",
					Message: fmt.Sprintf("child %d is missing", i),
					Fix:     "Remove the empty slot or insert a node there.",
				})
			}
		}

	case *CaseSpec:
		if n.CategorizationKey == "" {
			errs = append(errs, ValidationError{
				ChainID: id, Field: "categorization_key",
				Message: "categorization_key is empty",
				Fix:     "Name the variable whose value selects a branch.",
			})
		}
		labels := make(map[string]bool)
		for _, b := range n.Cases {
			if labels[b.Label] {
				errs = append(errs, ValidationError{
					ChainID: id, Field: "cases",
					Message: fmt.Sprintf("duplicate case label %q", b.Label),
					Fix:     "Rename one of the branches; labels are the branch keys.",
				})
			}
			labels[b.Label] = true
			if b.Chain == nil {
				errs = append(errs, ValidationError{
					ChainID: id, Field: "cases",
					Message: fmt.Sprintf("case %q has no node", b.Label),
					Fix:     "Insert a node for the branch or remove it.",
				})
			}
		}

	case *ReformatSpec:
		for key := range n.Formatters {
			if key == "" {
				errs = append(errs, ValidationError{
					ChainID: id, Field: "formatters",
					Message: "formatter with empty output key",
					Fix:     "Every formatter needs the output key it rewrites.",
				})
			}
		}

	case *APISpec:
		if n.URL == "" {
			errs = append(errs, ValidationError{
				ChainID: id, Field: "url",
				Message: "url is empty",
				Fix:     "Set the endpoint URL (templates are allowed).",
			})
		}
		if !apiMethods[n.Method] {
			errs = append(errs, ValidationError{
				ChainID: id, Field: "method",
				Message: fmt.Sprintf("unsupported HTTP method %q", n.Method),
				Fix:     "Use one of GET, POST, PUT, PATCH, DELETE.",
			})
		}
		if n.OutputKey == "" {
			errs = append(errs, ValidationError{
				ChainID: id, Field: "output_key",
				Message: "output_key is empty",
				Fix:     "Name the variable the response is published under.",
			})
		}
	}
	return errs
}
