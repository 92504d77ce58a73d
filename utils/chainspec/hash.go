package chainspec

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Hash computes a stable digest of a tree.
//
// The digest agrees with Equal: trees that compare equal always produce
// the same digest. Case branch digests are combined order-
// independently (branches are label-keyed), while sequential children
// and input key lists hash in order. A nil tree hashes to 0.
//
// Stores key committed documents by content digest and sessions use it
// as a cheap dirty pre-check before a full structural comparison.
func Hash(tree ChainSpec) uint64 {
	if tree == nil {
		return 0
	}

	d := xxhash.New()
	writeString(d, tree.ChainType())
	writeInt(d, tree.ChainID())

	switch n := tree.(type) {
	case *LLMSpec:
		writeString(d, n.Prompt)
		writeString(d, n.LLMKey)
		writeString(d, n.OutputKey)
		writeStrings(d, n.InputKeys)
	case *SequentialSpec:
		for _, child := range n.Chains {
			writeInt64(d, Hash(child))
		}
	case *CaseSpec:
		writeString(d, n.CategorizationKey)
		// Branch digests are summed before mixing so that label order
		// does not affect the result.
		var combined uint64
		for _, b := range n.Cases {
			bd := xxhash.New()
			writeString(bd, b.Label)
			writeInt64(bd, Hash(b.Chain))
			combined += bd.Sum64()
		}
		writeInt64(d, combined)
		writeInt64(d, Hash(n.Default))
	case *ReformatSpec:
		writeStringMap(d, n.Formatters)
		writeStrings(d, n.InputKeys)
	case *APISpec:
		writeString(d, n.URL)
		writeString(d, n.Method)
		writeString(d, n.Body)
		writeString(d, n.OutputKey)
		writeStringMap(d, n.Headers)
		writeStrings(d, n.InputKeys)
	}
	return d.Sum64()
}

func writeString(d *xxhash.Digest, s string) {
	writeInt(d, len(s))
	d.WriteString(s)
}

func writeInt(d *xxhash.Digest, v int) {
	writeInt64(d, uint64(v))
}

func writeInt64(d *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	d.Write(buf[:])
}

func writeStrings(d *xxhash.Digest, ss []string) {
	writeInt(d, len(ss))
	for _, s := range ss {
		writeString(d, s)
	}
}

func writeStringMap(d *xxhash.Digest, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	writeInt(d, len(keys))
	for _, k := range keys {
		writeString(d, k)
		writeString(d, m[k])
	}
}
