package chainspec

// WalkFunc visits one node. label is the case-branch label that owns the
// node ("default" for a case default, "" elsewhere). Returning false
// stops the traversal.
type WalkFunc func(label string, node ChainSpec) bool

// Walk traverses the tree depth-first: a node is visited before its
// children; sequential children in order; case branches in branch order
// followed by the default. A nil tree visits nothing.
func Walk(tree ChainSpec, fn WalkFunc) bool {
	return walk(tree, "", fn)
}

func walk(node ChainSpec, label string, fn WalkFunc) bool {
	if node == nil {
		return true
	}
	if !fn(label, node) {
		return false
	}
	switch n := node.(type) {
	case *SequentialSpec:
		for _, child := range n.Chains {
			if !walk(child, "", fn) {
				return false
			}
		}
	case *CaseSpec:
		for _, b := range n.Cases {
			if !walk(b.Chain, b.Label, fn) {
				return false
			}
		}
		if n.Default != nil {
			if !walk(n.Default, "default", fn) {
				return false
			}
		}
	}
	return true
}
