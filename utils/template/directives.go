package template

import (
	"regexp"
)

// Directive names recognized inside {directive:arg:out} tokens.
const (
	DirectiveJoin      = "join"
	DirectiveParseJSON = "parse_json"
	DirectiveLet       = "let"
	DirectiveInt       = "int"
	DirectiveFloat     = "float"
	DirectiveExpr      = "expr"
)

// TokenKind classifies a matched template token.
type TokenKind int

const (
	// TokenPlain is a bare variable reference like {name} or {name.upper()}.
	TokenPlain TokenKind = iota
	// TokenDirective is a recognized {directive:arg:out} token.
	TokenDirective
	// TokenError is bracketed content with a colon that matches no known directive.
	TokenError
)

// Names bound implicitly inside a join loop body.
const (
	joinItemName  = "item"
	joinIndexName = "index"
)

// tokenPattern matches every bracketed expression form in one alternation.
// Order matters: named directives first, then expr (whose argument is
// free-form), then plain references, then the colon-bearing error fallback.
//
// Group layout:
//
//	1, 2, 3  directive name, arg, out        {join:items:out}
//	4, 5     expr body, out                  {expr:a+b:out}
//	6        plain reference with tail       {name.upper()}
//	7        unrecognized colon content      {bogus:stuff}
var tokenPattern = regexp.MustCompile(
	`\{(join|parse_json|let|int|float):([A-Za-z0-9_]+[^{}:]*):([A-Za-z0-9_]+)\}` +
		`|\{expr:([^{}]+):([A-Za-z0-9_]+)\}` +
		`|\{([A-Za-z0-9_]+[^{}:]*)\}` +
		`|\{([^{}]*:[^{}]*)\}`)

// identPattern matches identifiers embedded in a free-form expr argument.
// Leading digits are excluded so numeric literals are not counted as names.
var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// splitReference splits "name.upper().strip()" into the leading identifier
// and the unevaluated modifier tail.
func splitReference(ref string) (name, tail string) {
	end := len(ref)
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		if !(c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')) {
			end = i
			break
		}
	}
	return ref[:end], ref[end:]
}

// exprIdentifiers returns every identifier inside a free-form expr body,
// in order of appearance.
func exprIdentifiers(body string) []string {
	return identPattern.FindAllString(body, -1)
}

// classify maps the submatch groups of tokenPattern to a token kind.
func classify(groups []string) TokenKind {
	switch {
	case groups[1] != "" || groups[5] != "":
		return TokenDirective
	case groups[6] != "":
		return TokenPlain
	default:
		return TokenError
	}
}
