package template

// RenderFunc decorates a matched token for the rendered preview. The raw
// token text is passed through unchanged when no renderer is supplied.
type RenderFunc func(kind TokenKind, raw string) string

// depState accumulates the classification of every referenced name during
// one scan. inputs keeps first-occurrence order; the sets answer membership.
type depState struct {
	inputs   []string
	inputSet map[string]bool
	internal map[string]bool
	render   RenderFunc
}

func newDepState(render RenderFunc) depState {
	if render == nil {
		render = func(_ TokenKind, raw string) string { return raw }
	}
	return depState{
		inputSet: make(map[string]bool),
		internal: make(map[string]bool),
		render:   render,
	}
}

// noteExternal records name as an external input unless an earlier token
// in the same string already bound it internally.
func (s depState) noteExternal(name string) depState {
	if name == "" || s.internal[name] || s.inputSet[name] {
		return s
	}
	s.inputSet[name] = true
	s.inputs = append(s.inputs, name)
	return s
}

// noteInternal records name as bound within this template.
func (s depState) noteInternal(name string) depState {
	if name != "" {
		s.internal[name] = true
	}
	return s
}

// reduceToken applies the dependency rules for one matched token.
//
// A name used before the directive that binds it is counted as an external
// input: the scan is strictly left-to-right and earlier tokens cannot see
// later bindings. Callers depend on this ordering, so it must not be
// "fixed" by pre-scanning for bindings.
func reduceToken(s depState, groups []string) (depState, string) {
	kind := classify(groups)
	switch kind {
	case TokenDirective:
		if groups[1] != "" {
			// {join|parse_json|let|int|float : name<tail> : out}
			name, _ := splitReference(groups[2])
			s = s.noteExternal(name)
			s = s.noteInternal(groups[3])
			if groups[1] == DirectiveJoin {
				s = s.noteInternal(joinItemName)
				s = s.noteInternal(joinIndexName)
			}
		} else {
			// {expr : free-form : out}
			for _, ident := range exprIdentifiers(groups[4]) {
				s = s.noteExternal(ident)
			}
			// The name an expr produces never joins the internal set: a
			// later token referencing it counts it as an external input.
			// Long-standing extraction behavior, kept as-is.
		}
	case TokenPlain:
		name, _ := splitReference(groups[6])
		s = s.noteExternal(name)
	case TokenError:
		// Malformed token: render it visibly, leave state untouched.
	}
	return s, s.render(kind, groups[0])
}

// ExtractInputs scans a template string and returns the external input
// variables it requires, in first-occurrence order, along with the
// rendered preview of the string.
func ExtractInputs(tmpl string) (inputs []string, preview string) {
	return ExtractInputsRendered(tmpl, nil)
}

// ExtractInputsRendered is ExtractInputs with a custom token renderer for
// the preview, used by the CLI to colorize tokens.
func ExtractInputsRendered(tmpl string, render RenderFunc) (inputs []string, preview string) {
	preview, state := Scan(tmpl, tokenPattern, newDepState(render), reduceToken, nil)
	if state.inputs == nil {
		return []string{}, preview
	}
	return state.inputs, preview
}

// InputUnion extracts inputs from several templates and merges them in
// first-occurrence order across the sequence. Reformat and API specs
// derive their input_keys this way, over all of their template fields.
func InputUnion(templates ...string) []string {
	merged := []string{}
	seen := make(map[string]bool)
	for _, tmpl := range templates {
		inputs, _ := ExtractInputs(tmpl)
		for _, name := range inputs {
			if !seen[name] {
				seen[name] = true
				merged = append(merged, name)
			}
		}
	}
	return merged
}
