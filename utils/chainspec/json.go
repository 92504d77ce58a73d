package chainspec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeJSON serializes a tree in the persisted wire form: every node is
// an object whose chain_type field names one of the five variants. Case
// branches serialize as an object in branch order.
func EncodeJSON(tree ChainSpec) ([]byte, error) {
	if tree == nil {
		return []byte("null"), nil
	}
	return json.Marshal(tree)
}

// DecodeJSON parses the persisted wire form back into a tree. Case
// branch order follows the order of the keys in the document.
func DecodeJSON(data []byte) (ChainSpec, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	return decodeJSONNode(data)
}

func decodeJSONNode(raw json.RawMessage) (ChainSpec, error) {
	var probe struct {
		ChainType string `json:"chain_type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to read chain node: %w", err)
	}

	switch probe.ChainType {
	case TypeLLM:
		var node LLMSpec
		if err := json.Unmarshal(raw, &node); err != nil {
			return nil, fmt.Errorf("failed to decode llm_spec: %w", err)
		}
		if node.InputKeys == nil {
			node.InputKeys = []string{}
		}
		return &node, nil

	case TypeSequential:
		var env struct {
			ChainID int               `json:"chain_id"`
			Chains  []json.RawMessage `json:"chains"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode sequential_spec: %w", err)
		}
		chains := make([]ChainSpec, 0, len(env.Chains))
		for _, childRaw := range env.Chains {
			child, err := decodeJSONNode(childRaw)
			if err != nil {
				return nil, err
			}
			chains = append(chains, child)
		}
		return &SequentialSpec{ID: env.ChainID, Chains: chains}, nil

	case TypeCase:
		var env struct {
			ChainID           int             `json:"chain_id"`
			CategorizationKey string          `json:"categorization_key"`
			Cases             json.RawMessage `json:"cases"`
			DefaultCase       json.RawMessage `json:"default_case"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode case_spec: %w", err)
		}
		cases, err := decodeCaseBranches(env.Cases)
		if err != nil {
			return nil, err
		}
		node := &CaseSpec{ID: env.ChainID, CategorizationKey: env.CategorizationKey, Cases: cases}
		if len(env.DefaultCase) > 0 && !bytes.Equal(env.DefaultCase, []byte("null")) {
			node.Default, err = decodeJSONNode(env.DefaultCase)
			if err != nil {
				return nil, err
			}
		}
		return node, nil

	case TypeReformat:
		var env struct {
			ChainID    int               `json:"chain_id"`
			Formatters map[string]string `json:"formatters"`
			InputKeys  []string          `json:"input_keys"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode reformat_spec: %w", err)
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
			ChainID   int               `json:"chain_id"`
			URL       string            `json:"url"`
			Method    string            `json:"method"`
			Headers   map[string]string `json:"headers"`
			Body      string            `json:"body"`
			OutputKey string            `json:"output_key"`
			InputKeys []string          `json:"input_keys"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode api_spec: %w", err)
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

	default:
		return nil, fmt.Errorf("unknown chain_type %q", probe.ChainType)
	}
}

// decodeCaseBranches reads a cases object with json.Decoder so that the
// document's key order survives into the branch slice.
func decodeCaseBranches(raw json.RawMessage) ([]CaseBranch, error) {
	branches := []CaseBranch{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return branches, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode cases: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("cases must be an object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode case label: %w", err)
		}
		label := keyTok.(string)

		var childRaw json.RawMessage
		if err := dec.Decode(&childRaw); err != nil {
			return nil, fmt.Errorf("failed to decode case %q: %w", label, err)
		}
		child, err := decodeJSONNode(childRaw)
		if err != nil {
			return nil, err
		}
		branches = append(branches, CaseBranch{Label: label, Chain: child})
	}
	return branches, nil
}

// MarshalJSON emits the llm_spec wire form with its chain_type tag.
func (s *LLMSpec) MarshalJSON() ([]byte, error) {
	type alias LLMSpec
	return json.Marshal(struct {
		ChainType string `json:"chain_type"`
		*alias
	}{TypeLLM, (*alias)(s)})
}

func (s *SequentialSpec) MarshalJSON() ([]byte, error) {
	chains := s.Chains
	if chains == nil {
		chains = []ChainSpec{}
	}
	return json.Marshal(struct {
		ChainType string      `json:"chain_type"`
		ChainID   int         `json:"chain_id"`
		Chains    []ChainSpec `json:"chains"`
	}{TypeSequential, s.ID, chains})
}

// MarshalJSON writes the cases object by hand: encoding/json would sort
// map keys, losing branch order.
func (s *CaseSpec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"chain_type":"%s","chain_id":%d,"categorization_key":`, TypeCase, s.ID)
	if err := writeJSONValue(&buf, s.CategorizationKey); err != nil {
		return nil, err
	}
	buf.WriteString(`,"cases":{`)
	for i, b := range s.Cases {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONValue(&buf, b.Label); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(&buf, b.Chain); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	if s.Default != nil {
		buf.WriteString(`,"default_case":`)
		if err := writeJSONValue(&buf, s.Default); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *ReformatSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ChainType  string            `json:"chain_type"`
		ChainID    int               `json:"chain_id"`
		Formatters map[string]string `json:"formatters"`
		InputKeys  []string          `json:"input_keys"`
	}{TypeReformat, s.ID, s.Formatters, s.InputKeys})
}

func (s *APISpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ChainType string            `json:"chain_type"`
		ChainID   int               `json:"chain_id"`
		URL       string            `json:"url"`
		Method    string            `json:"method"`
		Headers   map[string]string `json:"headers"`
		Body      string            `json:"body,omitempty"`
		OutputKey string            `json:"output_key"`
		InputKeys []string          `json:"input_keys"`
	}{TypeAPI, s.ID, s.URL, s.Method, s.Headers, s.Body, s.OutputKey, s.InputKeys})
}

func writeJSONValue(buf *bytes.Buffer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
