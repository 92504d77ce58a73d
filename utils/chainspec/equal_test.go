package chainspec

import "testing"

func TestEqualReflexive(t *testing.T) {
	trees := []ChainSpec{
		nil,
		&LLMSpec{ID: 0, InputKeys: []string{}},
		buildFixture(),
	}
	for _, tree := range trees {
		if !Equal(tree, tree) {
			t.Errorf("Equal(t, t) = false for %v", tree)
		}
	}
}

func TestEqualCaseOrderInsensitive(t *testing.T) {
	a := &CaseSpec{
		ID:                0,
		CategorizationKey: "k",
		Cases: []CaseBranch{
			{Label: "x", Chain: &LLMSpec{ID: 1, InputKeys: []string{}}},
			{Label: "y", Chain: &LLMSpec{ID: 2, InputKeys: []string{}}},
		},
	}
	b := &CaseSpec{
		ID:                0,
		CategorizationKey: "k",
		Cases: []CaseBranch{
			{Label: "y", Chain: &LLMSpec{ID: 2, InputKeys: []string{}}},
			{Label: "x", Chain: &LLMSpec{ID: 1, InputKeys: []string{}}},
		},
	}
	if !Equal(a, b) {
		t.Error("case branch order must not affect equality")
	}
	if Hash(a) != Hash(b) {
		t.Error("case branch order must not affect the digest")
	}
}

func TestEqualSequentialOrderSensitive(t *testing.T) {
	a := &SequentialSpec{ID: 0, Chains: []ChainSpec{
		&LLMSpec{ID: 1, InputKeys: []string{}},
		&LLMSpec{ID: 2, InputKeys: []string{}},
	}}
	b := &SequentialSpec{ID: 0, Chains: []ChainSpec{
		&LLMSpec{ID: 2, InputKeys: []string{}},
		&LLMSpec{ID: 1, InputKeys: []string{}},
	}}
	if Equal(a, b) {
		t.Error("sequential child order must affect equality")
	}
	if Hash(a) == Hash(b) {
		t.Error("sequential child order must affect the digest")
	}
}

func TestEqualDetectsFieldDrift(t *testing.T) {
	a := buildFixture()
	b := buildFixture()
	if !Equal(a, b) {
		t.Fatal("identical fixtures should compare equal")
	}

	modified, err := Replace(b, 1, &LLMSpec{ID: 1, Prompt: "{q}!", LLMKey: "gpt-4o", OutputKey: "draft", InputKeys: []string{"q"}})
	if err != nil {
		t.Fatal(err)
	}
	if Equal(a, modified) {
		t.Error("a prompt edit must break equality")
	}
	if Hash(a) == Hash(modified) {
		t.Error("a prompt edit must change the digest")
	}
}

func TestEqualVariantMismatch(t *testing.T) {
	if Equal(&LLMSpec{ID: 0}, &SequentialSpec{ID: 0}) {
		t.Error("different variants must never compare equal")
	}
	if Equal(buildFixture(), nil) {
		t.Error("tree vs nil must not compare equal")
	}
}
