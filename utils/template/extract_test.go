package template

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractInputsPlainReferences(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected []string
	}{
		{
			name:     "no tokens",
			template: "just plain text",
			expected: []string{},
		},
		{
			name:     "single reference",
			template: "Hello {name}!",
			expected: []string{"name"},
		},
		{
			name:     "first occurrence order",
			template: "{b} then {a} then {b} again",
			expected: []string{"b", "a"},
		},
		{
			name:     "modifier tail ignored",
			template: "{name.upper().strip()} and {count}",
			expected: []string{"name", "count"},
		},
		{
			name:     "digits and underscores",
			template: "{step_2_output}",
			expected: []string{"step_2_output"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs, _ := ExtractInputs(tt.template)
			if !reflect.DeepEqual(inputs, tt.expected) {
				t.Errorf("ExtractInputs(%q) = %v, want %v", tt.template, inputs, tt.expected)
			}
		})
	}
}

func TestExtractInputsDirectives(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected []string
	}{
		{
			name:     "let binds its output for later use",
			template: "{let:a:b}{expr:b:c}",
			expected: []string{"a"},
		},
		{
			name:     "expr output does not shield later references",
			template: "{expr:a:b}{let:b:c}",
			expected: []string{"a", "b"},
		},
		{
			name:     "join binds item and index",
			template: "{join:items:out}{item}-{index}",
			expected: []string{"items"},
		},
		{
			name:     "join loop names bound regardless of argument",
			template: "{join:rows:r}{item}{index}{rows}",
			expected: []string{"rows"},
		},
		{
			name:     "parse_json output consumed internally",
			template: "{parse_json:raw:doc}{doc}",
			expected: []string{"raw"},
		},
		{
			name:     "int and float coerce external names",
			template: "{int:count:n}{float:ratio:r}",
			expected: []string{"count", "ratio"},
		},
		{
			name:     "expr identifiers each counted",
			template: "{expr:a + b * count:total}",
			expected: []string{"a", "b", "count"},
		},
		{
			name:     "expr skips numeric literals",
			template: "{expr:x * 100 + 7:scaled}",
			expected: []string{"x"},
		},
		{
			name:     "directive argument with modifier tail",
			template: "{join:items.values():out}",
			expected: []string{"items"},
		},
		{
			name:     "mixed plain and directive ordering",
			template: "{greeting} {let:name:who} {who} {name}",
			expected: []string{"greeting", "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs, _ := ExtractInputs(tt.template)
			if !reflect.DeepEqual(inputs, tt.expected) {
				t.Errorf("ExtractInputs(%q) = %v, want %v", tt.template, inputs, tt.expected)
			}
		})
	}
}

func TestExtractInputsMalformedToken(t *testing.T) {
	// An unknown directive is rendered as-is and contributes no names,
	// and scanning continues past it.
	inputs, preview := ExtractInputs("{bogus:stuff} then {name}")
	if !reflect.DeepEqual(inputs, []string{"name"}) {
		t.Errorf("inputs = %v, want [name]", inputs)
	}
	if !strings.Contains(preview, "{bogus:stuff}") {
		t.Errorf("preview lost the malformed token: %q", preview)
	}
}

func TestExtractInputsRenderedAnnotation(t *testing.T) {
	marks := map[TokenKind]string{
		TokenPlain:     "P",
		TokenDirective: "D",
		TokenError:     "E",
	}
	render := func(kind TokenKind, raw string) string {
		return "<" + marks[kind] + raw + ">"
	}

	inputs, preview := ExtractInputsRendered("a {x} b {let:x:y} c {oops:} d", render)
	if !reflect.DeepEqual(inputs, []string{"x"}) {
		t.Errorf("inputs = %v, want [x]", inputs)
	}
	want := "a <P{x}> b <D{let:x:y}> c <E{oops:}> d"
	if preview != want {
		t.Errorf("preview = %q, want %q", preview, want)
	}
}

func TestInputUnion(t *testing.T) {
	got := InputUnion("{a}{b}", "{b}{c}", "", "{join:a:out}{item}")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InputUnion = %v, want %v", got, want)
	}
}

func TestScanThreadsStateLeftToRight(t *testing.T) {
	// Count tokens and replace each with its ordinal to prove that state
	// visible to match k reflects only matches 1..k-1.
	out, n := Scan("{a} {b} {c}", tokenPattern, 0,
		func(state int, groups []string) (int, string) {
			return state + 1, string(rune('0' + state))
		},
		func(state int) int { return state * 10 },
	)
	if out != "0 1 2" {
		t.Errorf("rendered = %q, want %q", out, "0 1 2")
	}
	if n != 30 {
		t.Errorf("finalized state = %d, want 30 (finalize must run exactly once)", n)
	}
}
