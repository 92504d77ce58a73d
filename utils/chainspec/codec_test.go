package chainspec

import (
	"strings"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	tree := buildFixture()

	data, err := EncodeJSON(tree)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	decoded, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if !Equal(tree, decoded) {
		t.Errorf("round trip drifted:\n in: %s", data)
	}

	// Branch order is part of the document, not just equality.
	caseNode := Find(decoded, 2).(*CaseSpec)
	if caseNode.Cases[0].Label != "a" || caseNode.Cases[1].Label != "b" {
		t.Errorf("branch order lost: %v", caseNode.Cases)
	}
}

func TestDecodeJSONCasePreservesDocumentOrder(t *testing.T) {
	doc := `{
		"chain_type": "case_spec",
		"chain_id": 0,
		"categorization_key": "k",
		"cases": {
			"zulu":  {"chain_type": "llm_spec", "chain_id": 1, "prompt": "", "llm_key": "m", "output_key": "z", "input_keys": []},
			"alpha": {"chain_type": "llm_spec", "chain_id": 2, "prompt": "", "llm_key": "m", "output_key": "a", "input_keys": []}
		}
	}`
	tree, err := DecodeJSON([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	caseNode := tree.(*CaseSpec)
	if caseNode.Cases[0].Label != "zulu" || caseNode.Cases[1].Label != "alpha" {
		t.Errorf("document order lost: %v", caseNode.Cases)
	}
}

func TestDecodeJSONUnknownType(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"chain_type": "mystery_spec", "chain_id": 0}`))
	if err == nil || !strings.Contains(err.Error(), "mystery_spec") {
		t.Errorf("err = %v, want unknown chain_type error naming the tag", err)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	tree := buildFixture()

	data, err := EncodeYAML(tree)
	if err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	decoded, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML: %v\nyaml:\n%s", err, data)
	}
	if !Equal(tree, decoded) {
		t.Errorf("round trip drifted:\nyaml:\n%s", data)
	}
}

func TestDecodeYAMLDocument(t *testing.T) {
	doc := `
chain_type: sequential_spec
chain_id: 0
chains:
  - chain_type: llm_spec
    chain_id: 1
    prompt: "Summarize {text}"
    llm_key: gpt-4o
    output_key: summary
    input_keys: [text]
  - chain_type: api_spec
    chain_id: 2
    url: https://example.com/hook
    method: POST
    headers:
      Authorization: "Bearer {token}"
    body: "{summary}"
    output_key: posted
    input_keys: [token, summary]
`
	tree, err := DecodeYAML([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	root := tree.(*SequentialSpec)
	if len(root.Chains) != 2 {
		t.Fatalf("got %d children, want 2", len(root.Chains))
	}
	llm := root.Chains[0].(*LLMSpec)
	if llm.Prompt != "Summarize {text}" || llm.InputKeys[0] != "text" {
		t.Errorf("llm node decoded wrong: %+v", llm)
	}
	api := root.Chains[1].(*APISpec)
	if api.Method != "POST" || api.Headers["Authorization"] != "Bearer {token}" {
		t.Errorf("api node decoded wrong: %+v", api)
	}
}

func TestDecodeNilDocuments(t *testing.T) {
	if tree, err := DecodeJSON([]byte("null")); err != nil || tree != nil {
		t.Errorf("DecodeJSON(null) = %v, %v", tree, err)
	}
	if tree, err := DecodeYAML([]byte("null\n")); err != nil || tree != nil {
		t.Errorf("DecodeYAML(null) = %v, %v", tree, err)
	}
}
