package routes

import (
	"regexp"
	"strings"
)

// RuleParser rewrites a host-native path pattern into the canonical {name} form.
type RuleParser func(pattern string) string

// BraceRules handles {name} and {name:pattern} placeholders as used by
// gorilla/mux and chi. Patterns may nest braces ({code:[0-9]{3}}); a pattern
// with unbalanced braces is returned unchanged.
func BraceRules(pattern string) string {
	idxs, ok := braceIndices(pattern)
	if !ok || len(idxs) == 0 {
		return pattern
	}
	var b strings.Builder
	end := 0
	for i := 0; i < len(idxs); i += 2 {
		start, stop := idxs[i], idxs[i+1]
		b.WriteString(pattern[end:start])
		inner := pattern[start+1 : stop-1]
		name, _, _ := strings.Cut(inner, ":")
		b.WriteString("{" + strings.TrimSpace(name) + "}")
		end = stop
	}
	b.WriteString(pattern[end:])
	return b.String()
}

// braceIndices returns the start/end offsets of every top-level {...} group.
func braceIndices(s string) ([]int, bool) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, false
			}
		}
	}
	if level != 0 {
		return nil, false
	}
	return idxs, true
}

// ColonRules handles :name and *name segments as used by gin and httprouter.
// A bare * segment is not a named parameter and is kept.
func ColonRules(pattern string) string {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if len(seg) < 2 {
			continue
		}
		if seg[0] == ':' || seg[0] == '*' {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

var angleParam = regexp.MustCompile(`<(?:[^<>]*:)?([^<>]*)>`)

// AngleRules handles <name> and <converter:name> placeholders as used by
// werkzeug-style routers (<id>, <int:id>, <path:rest>). The converter is
// dropped.
func AngleRules(pattern string) string {
	return angleParam.ReplaceAllString(pattern, "{$1}")
}

// DefaultFramework names the convention used when none is selected.
const DefaultFramework = "chi"

var frameworks = map[string]RuleParser{
	"chi":        BraceRules,
	"mux":        BraceRules,
	"gorilla":    BraceRules,
	"gin":        ColonRules,
	"httprouter": ColonRules,
	"flask":      AngleRules,
}

// ParserFor returns the rule parser for a framework name. Unknown names fall
// back to BraceRules and report false.
func ParserFor(framework string) (RuleParser, bool) {
	name := strings.ToLower(strings.TrimSpace(framework))
	if name == "" {
		name = DefaultFramework
	}
	if p, ok := frameworks[name]; ok {
		return p, true
	}
	return BraceRules, false
}
