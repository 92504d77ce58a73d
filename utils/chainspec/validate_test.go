package chainspec

import (
	"strings"
	"testing"
)

func TestValidateCleanTree(t *testing.T) {
	result := Validate(buildFixture(), nil)
	if !result.Valid {
		t.Errorf("fixture should validate: %s", result.ErrorSummary())
	}
	if result.ErrorSummary() != "" {
		t.Error("valid result must have an empty summary")
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	tree := &SequentialSpec{ID: 0, Chains: []ChainSpec{
		&LLMSpec{ID: 1, LLMKey: "m", OutputKey: "a", InputKeys: []string{}},
		&LLMSpec{ID: 1, LLMKey: "m", OutputKey: "b", InputKeys: []string{}},
	}}
	result := Validate(tree, nil)
	if result.Valid {
		t.Fatal("duplicate ids must fail validation")
	}
	if !strings.Contains(result.ErrorSummary(), "duplicate chain_id") {
		t.Errorf("summary missing duplicate id error: %s", result.ErrorSummary())
	}
}

func TestValidateLLMKeyAgainstRegistry(t *testing.T) {
	tree := &LLMSpec{ID: 0, LLMKey: "made-up-model", OutputKey: "out", InputKeys: []string{}}

	known := func(key string) bool { return key == "gpt-4o" }
	result := Validate(tree, known)
	if result.Valid {
		t.Fatal("unknown llm_key must fail when a registry check is supplied")
	}

	// Without a registry check the same tree passes.
	if result := Validate(tree, nil); !result.Valid {
		t.Errorf("offline validation should pass: %s", result.ErrorSummary())
	}
}

func TestValidateFieldRequirements(t *testing.T) {
	tests := []struct {
		name string
		tree ChainSpec
		want string
	}{
		{
			name: "empty llm_key",
			tree: &LLMSpec{ID: 0, OutputKey: "out", InputKeys: []string{}},
			want: "llm_key is empty",
		},
		{
			name: "empty categorization key",
			tree: &CaseSpec{ID: 0, Cases: []CaseBranch{}},
			want: "categorization_key is empty",
		},
		{
			name: "duplicate case labels",
			tree: &CaseSpec{ID: 0, CategorizationKey: "k", Cases: []CaseBranch{
				{Label: "x", Chain: &LLMSpec{ID: 1, LLMKey: "m", OutputKey: "a", InputKeys: []string{}}},
				{Label: "x", Chain: &LLMSpec{ID: 2, LLMKey: "m", OutputKey: "b", InputKeys: []string{}}},
			}},
			want: "duplicate case label",
		},
		{
			name: "bad api method",
			tree: &APISpec{ID: 0, URL: "https://example.com", Method: "FETCH", Headers: map[string]string{}, OutputKey: "r", InputKeys: []string{}},
			want: "unsupported HTTP method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.tree, nil)
			if result.Valid {
				t.Fatal("expected validation failure")
			}
			if !strings.Contains(result.ErrorSummary(), tt.want) {
				t.Errorf("summary = %q, want it to mention %q", result.ErrorSummary(), tt.want)
			}
		})
	}
}
