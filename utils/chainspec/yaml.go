package chainspec

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses the YAML form of a chain document. The shape mirrors
// the JSON wire form; case branch order is the mapping order of the
// document, which yaml.Node preserves.
func DecodeYAML(data []byte) (ChainSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	return decodeYAMLNode(root)
}

// EncodeYAML serializes a tree as YAML, mirroring the JSON wire form.
func EncodeYAML(tree ChainSpec) ([]byte, error) {
	if tree == nil {
		return []byte("null\n"), nil
	}
	node, err := encodeYAMLNode(tree)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func decodeYAMLNode(n *yaml.Node) (ChainSpec, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: chain node must be a mapping", n.Line)
	}

	chainType := ""
	for i := 0; i < len(n.Content); i += 2 {
		if n.Content[i].Value == "chain_type" {
			chainType = n.Content[i+1].Value
			break
		}
	}

	switch chainType {
	case TypeLLM:
		var node LLMSpec
		if err := n.Decode(&node); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode llm_spec: %w", n.Line, err)
		}
		if node.InputKeys == nil {
			node.InputKeys = []string{}
		}
		return &node, nil

	case TypeSequential:
		node := &SequentialSpec{Chains: []ChainSpec{}}
		for i := 0; i < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			switch key.Value {
			case "chain_id":
				if err := value.Decode(&node.ID); err != nil {
					return nil, fmt.Errorf("line %d: bad chain_id: %w", value.Line, err)
				}
			case "chains":
				if value.Kind != yaml.SequenceNode {
					return nil, fmt.Errorf("line %d: chains must be a sequence", value.Line)
				}
				for _, childNode := range value.Content {
					child, err := decodeYAMLNode(childNode)
					if err != nil {
						return nil, err
					}
					node.Chains = append(node.Chains, child)
				}
			}
		}
		return node, nil

	case TypeCase:
		node := &CaseSpec{Cases: []CaseBranch{}}
		for i := 0; i < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			switch key.Value {
			case "chain_id":
				if err := value.Decode(&node.ID); err != nil {
					return nil, fmt.Errorf("line %d: bad chain_id: %w", value.Line, err)
				}
			case "categorization_key":
				node.CategorizationKey = value.Value
			case "cases":
				if value.Kind != yaml.MappingNode {
					return nil, fmt.Errorf("line %d: cases must be a mapping", value.Line)
				}
				for j := 0; j < len(value.Content); j += 2 {
					label := value.Content[j].Value
					child, err := decodeYAMLNode(value.Content[j+1])
					if err != nil {
						return nil, err
					}
					node.Cases = append(node.Cases, CaseBranch{Label: label, Chain: child})
				}
			case "default_case":
				if value.Tag == "!!null" {
					continue
				}
				child, err := decodeYAMLNode(value)
				if err != nil {
					return nil, err
				}
				node.Default = child
			}
		}
		return node, nil

	case TypeReformat:
		var env struct {
			ChainID    int               `yaml:"chain_id"`
			Formatters map[string]string `yaml:"formatters"`
			InputKeys  []string          `yaml:"input_keys"`
		}
		if err := n.Decode(&env); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode reformat_spec: %w", n.Line, err)
		}
		if env.Formatters == nil {
			env.Formatters = map[string]string{}
		}
		if env.InputKeys == nil {
			env.InputKeys = []string{}
		}
		return &ReformatSpec{ID: env.ChainID, Formatters: env.Formatters, InputKeys: env.InputKeys}, nil

	case TypeAPI:
		var env struct {
			ChainID   int               `yaml:"chain_id"`
			URL       string            `yaml:"url"`
			Method    string            `yaml:"method"`
			Headers   map[string]string `yaml:"headers"`
			Body      string            `yaml:"body"`
			OutputKey string            `yaml:"output_key"`
			InputKeys []string          `yaml:"input_keys"`
		}
		if err := n.Decode(&env); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode api_spec: %w", n.Line, err)
		}
		if env.Headers == nil {
			env.Headers = map[string]string{}
		}
		if env.InputKeys == nil {
			env.InputKeys = []string{}
		}
		return &APISpec{
			ID: env.ChainID, URL: env.URL, Method: env.Method,
			Headers: env.Headers, Body: env.Body,
			OutputKey: env.OutputKey, InputKeys: env.InputKeys,
		}, nil

	case "":
		return nil, fmt.Errorf("line %d: chain node missing chain_type", n.Line)
	default:
		return nil, fmt.Errorf("line %d: unknown chain_type %q", n.Line, chainType)
	}
}

func encodeYAMLNode(tree ChainSpec) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	appendPair(m, "chain_type", scalarNode(tree.ChainType()))
	appendPair(m, "chain_id", intNode(tree.ChainID()))

	switch n := tree.(type) {
	case *LLMSpec:
		appendPair(m, "prompt", scalarNode(n.Prompt))
		appendPair(m, "llm_key", scalarNode(n.LLMKey))
		appendPair(m, "output_key", scalarNode(n.OutputKey))
		appendPair(m, "input_keys", stringSeqNode(n.InputKeys))

	case *SequentialSpec:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, child := range n.Chains {
			childNode, err := encodeYAMLNode(child)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, childNode)
		}
		appendPair(m, "chains", seq)

	case *CaseSpec:
		appendPair(m, "categorization_key", scalarNode(n.CategorizationKey))
		cases := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, b := range n.Cases {
			childNode, err := encodeYAMLNode(b.Chain)
			if err != nil {
				return nil, err
			}
			appendPair(cases, b.Label, childNode)
		}
		appendPair(m, "cases", cases)
		if n.Default != nil {
			defNode, err := encodeYAMLNode(n.Default)
			if err != nil {
				return nil, err
			}
			appendPair(m, "default_case", defNode)
		}

	case *ReformatSpec:
		appendPair(m, "formatters", stringMapNode(n.Formatters))
		appendPair(m, "input_keys", stringSeqNode(n.InputKeys))

	case *APISpec:
		appendPair(m, "url", scalarNode(n.URL))
		appendPair(m, "method", scalarNode(n.Method))
		appendPair(m, "headers", stringMapNode(n.Headers))
		if n.Body != "" {
			appendPair(m, "body", scalarNode(n.Body))
		}
		appendPair(m, "output_key", scalarNode(n.OutputKey))
		appendPair(m, "input_keys", stringSeqNode(n.InputKeys))
	}
	return m, nil
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalarNode(key), value)
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", v)}
}

func stringSeqNode(ss []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, s := range ss {
		seq.Content = append(seq.Content, scalarNode(s))
	}
	return seq
}

func stringMapNode(m map[string]string) *yaml.Node {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		appendPair(node, k, scalarNode(m[k]))
	}
	return node
}
