package chainspec

// Equal reports whether two trees are structurally identical: same
// variant tags, same scalar fields, sequential children compared in
// order, case branches compared by label regardless of branch order,
// defaults compared recursively. Editor sessions use it to decide
// whether a working copy has diverged from the committed copy.
func Equal(a, b ChainSpec) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ChainID() != b.ChainID() {
		return false
	}

	switch an := a.(type) {
	case *LLMSpec:
		bn, ok := b.(*LLMSpec)
		return ok &&
			an.Prompt == bn.Prompt &&
			an.LLMKey == bn.LLMKey &&
			an.OutputKey == bn.OutputKey &&
			stringSlicesEqual(an.InputKeys, bn.InputKeys)

	case *SequentialSpec:
		bn, ok := b.(*SequentialSpec)
		if !ok || len(an.Chains) != len(bn.Chains) {
			return false
		}
		for i := range an.Chains {
			if !Equal(an.Chains[i], bn.Chains[i]) {
				return false
			}
		}
		return true

	case *CaseSpec:
		bn, ok := b.(*CaseSpec)
		if !ok || an.CategorizationKey != bn.CategorizationKey || len(an.Cases) != len(bn.Cases) {
			return false
		}
		for _, branch := range an.Cases {
			other := bn.branch(branch.Label)
			if other == nil || !Equal(branch.Chain, other) {
				return false
			}
		}
		return Equal(an.Default, bn.Default)

	case *ReformatSpec:
		bn, ok := b.(*ReformatSpec)
		return ok &&
			stringMapsEqual(an.Formatters, bn.Formatters) &&
			stringSlicesEqual(an.InputKeys, bn.InputKeys)

	case *APISpec:
		bn, ok := b.(*APISpec)
		return ok &&
			an.URL == bn.URL &&
			an.Method == bn.Method &&
			an.Body == bn.Body &&
			an.OutputKey == bn.OutputKey &&
			stringMapsEqual(an.Headers, bn.Headers) &&
			stringSlicesEqual(an.InputKeys, bn.InputKeys)
	}
	return false
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringMapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
