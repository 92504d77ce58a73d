package chainspec

import "fmt"

// Find returns the node with the given chain id, or nil. A node matches
// on its own id before its children are examined. Absence is not an
// error here; callers that require presence use Replace.
func Find(tree ChainSpec, id int) ChainSpec {
	var found ChainSpec
	Walk(tree, func(_ string, node ChainSpec) bool {
		if node.ChainID() == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Insert creates a fresh default node of chainType with id nextID and
// splices it into the tree. On a nil tree the new node becomes the root
// and parentID/index are ignored. Otherwise parentID must name a
// container node: a sequential spec splices into its child list at index
// (clamped to [0, len]); a case spec gains a new branch with a generated
// placeholder label at that position. The allocator value advances by
// exactly one per successful insert.
func Insert(tree ChainSpec, nextID int, chainType string, parentID, index int) (ChainSpec, int, error) {
	node, err := NewDefault(chainType, nextID)
	if err != nil {
		return tree, nextID, err
	}

	if tree == nil {
		return node, nextID + 1, nil
	}

	parent := Find(tree, parentID)
	if parent == nil {
		return tree, nextID, fmt.Errorf("insert: no node with id %d: %w", parentID, ErrInvalidInsertTarget)
	}

	var rebuilt ChainSpec
	switch p := parent.(type) {
	case *SequentialSpec:
		at := clamp(index, len(p.Chains))
		chains := make([]ChainSpec, 0, len(p.Chains)+1)
		chains = append(chains, p.Chains[:at]...)
		chains = append(chains, node)
		chains = append(chains, p.Chains[at:]...)
		rebuilt = &SequentialSpec{ID: p.ID, Chains: chains}
	case *CaseSpec:
		at := clamp(index, len(p.Cases))
		label := fmt.Sprintf("case_%d", nextID)
		cases := make([]CaseBranch, 0, len(p.Cases)+1)
		cases = append(cases, p.Cases[:at]...)
		cases = append(cases, CaseBranch{Label: label, Chain: node})
		cases = append(cases, p.Cases[at:]...)
		rebuilt = &CaseSpec{ID: p.ID, CategorizationKey: p.CategorizationKey, Cases: cases, Default: p.Default}
	default:
		return tree, nextID, fmt.Errorf("insert: id %d is a %s, not a container: %w",
			parentID, parent.ChainType(), ErrInvalidInsertTarget)
	}

	newTree, err := Replace(tree, parentID, rebuilt)
	if err != nil {
		return tree, nextID, err
	}
	return newTree, nextID + 1, nil
}

// Replace substitutes the entire node with the given chain id, rebuilding
// every ancestor container without touching the input tree. When no node
// matches it returns the tree unchanged and ErrNodeNotFound; that signals
// a desynchronized identity reference and must reach the caller.
func Replace(tree ChainSpec, id int, replacement ChainSpec) (ChainSpec, error) {
	newTree, found := replaceNode(tree, id, replacement)
	if !found {
		return tree, fmt.Errorf("replace: no node with id %d: %w", id, ErrNodeNotFound)
	}
	return newTree, nil
}

func replaceNode(node ChainSpec, id int, repl ChainSpec) (ChainSpec, bool) {
	if node == nil {
		return nil, false
	}
	if node.ChainID() == id {
		return repl, true
	}

	switch n := node.(type) {
	case *SequentialSpec:
		for i, child := range n.Chains {
			if newChild, ok := replaceNode(child, id, repl); ok {
				chains := make([]ChainSpec, len(n.Chains))
				copy(chains, n.Chains)
				chains[i] = newChild
				return &SequentialSpec{ID: n.ID, Chains: chains}, true
			}
		}
	case *CaseSpec:
		for i, b := range n.Cases {
			if newChild, ok := replaceNode(b.Chain, id, repl); ok {
				cases := make([]CaseBranch, len(n.Cases))
				copy(cases, n.Cases)
				cases[i] = CaseBranch{Label: b.Label, Chain: newChild}
				return &CaseSpec{ID: n.ID, CategorizationKey: n.CategorizationKey, Cases: cases, Default: n.Default}, true
			}
		}
		if n.Default != nil {
			if newChild, ok := replaceNode(n.Default, id, repl); ok {
				cases := make([]CaseBranch, len(n.Cases))
				copy(cases, n.Cases)
				return &CaseSpec{ID: n.ID, CategorizationKey: n.CategorizationKey, Cases: cases, Default: newChild}, true
			}
		}
	}
	return nil, false
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
