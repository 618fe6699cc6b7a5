// Package signature decomposes a matched Java method header into its name,
// return type and parameter declarations. Splitting is character-driven and
// tracks generic/paren depth and string literals, because a plain comma split
// destroys types like Map<String, List<Integer>>.
package signature

import (
	"regexp"
	"strings"
)

// Parameter is one declared method parameter: its leading annotation (if
// any), the annotation's first string argument (if any), the declared type
// and the parameter name.
type Parameter struct {
	// Annotation is the bare annotation name without '@', e.g. "PathVariable".
	// Empty for unannotated parameters.
	Annotation string

	// AnnotationArg is the first quoted string inside the annotation's
	// argument list, e.g. the explicit binding name in @RequestParam("q").
	AnnotationArg string

	// Type is the declared Java type, generics included.
	Type string

	// Name is the parameter's identifier.
	Name string
}

// Method is a parsed method header.
type Method struct {
	Name       string
	ReturnType string
	Parameters []Parameter
}

var (
	// The parameter-list group tolerates one level of nested parens so
	// annotation arguments like @RequestParam("q") survive intact.
	headerRegex = regexp.MustCompile(
		`(?s)(public|protected|private)\s+(?:static\s+|final\s+)*([\w<>,\[\]?.\s]+?)\s+(\w+)\s*\(((?:[^()"]|"[^"]*"|\([^()]*\))*)\)`)

	paramAnnotationRegex = regexp.MustCompile(`^@(\w+)(?:\s*\(([^)]*)\))?`)
	quotedArgRegex       = regexp.MustCompile(`"([^"]*)"`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

// ParseMethod parses a method header previously located by the scanner.
// Returns ok=false when the text does not contain a recognizable header.
func ParseMethod(methodText string) (Method, bool) {
	m := headerRegex.FindStringSubmatch(methodText)
	if m == nil {
		return Method{}, false
	}

	method := Method{
		ReturnType: strings.TrimSpace(whitespaceRegex.ReplaceAllString(m[2], " ")),
		Name:       m[3],
	}

	for _, decl := range SplitParameters(m[4]) {
		if p, ok := parseParameter(decl); ok {
			method.Parameters = append(method.Parameters, p)
		}
	}

	return method, true
}

// SplitParameters splits a parameter list on top-level commas only. Commas
// inside angle brackets, parentheses or string literals do not split.
func SplitParameters(paramList string) []string {
	paramList = strings.TrimSpace(paramList)
	if paramList == "" {
		return nil
	}

	var parts []string
	var current strings.Builder
	depth := 0
	inString := false

	for i := 0; i < len(paramList); i++ {
		ch := paramList[i]

		if inString {
			current.WriteByte(ch)
			if ch == '"' && (i == 0 || paramList[i-1] != '\\') {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			current.WriteByte(ch)
		case '<', '(':
			depth++
			current.WriteByte(ch)
		case '>', ')':
			depth--
			current.WriteByte(ch)
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteByte(ch)
			}
		default:
			current.WriteByte(ch)
		}
	}

	if last := strings.TrimSpace(current.String()); last != "" {
		parts = append(parts, last)
	}

	return parts
}

// bindingAnnotations are the annotations that decide where a parameter ends
// up in the request. Others (@Valid, @DateTimeFormat, ...) are stripped but
// do not drive classification.
var bindingAnnotations = map[string]bool{
	"RequestBody":   true,
	"PathVariable":  true,
	"RequestParam":  true,
	"RequestHeader": true,
}

// parseParameter classifies one declaration's tokens: leading annotations,
// then the declared type and the parameter name as the final two
// whitespace-separated tokens. When several annotations are stacked, the
// binding one wins; otherwise the first seen is kept.
func parseParameter(decl string) (Parameter, bool) {
	decl = strings.TrimSpace(whitespaceRegex.ReplaceAllString(decl, " "))
	if decl == "" {
		return Parameter{}, false
	}

	var p Parameter

	for strings.HasPrefix(decl, "@") {
		am := paramAnnotationRegex.FindStringSubmatch(decl)
		if am == nil {
			break
		}

		if p.Annotation == "" || (!bindingAnnotations[p.Annotation] && bindingAnnotations[am[1]]) {
			p.Annotation = am[1]
			p.AnnotationArg = ""
			if len(am) > 2 && am[2] != "" {
				if qa := quotedArgRegex.FindStringSubmatch(am[2]); qa != nil {
					p.AnnotationArg = qa[1]
				}
			}
		}

		decl = strings.TrimSpace(decl[len(am[0]):])
	}

	// Modifiers carry no binding information.
	decl = strings.TrimPrefix(decl, "final ")

	idx := lastTopLevelSpace(decl)
	if idx < 0 {
		// A lone token cannot carry both a type and a name.
		return Parameter{}, false
	}

	p.Type = strings.TrimSpace(decl[:idx])
	p.Name = strings.TrimSpace(decl[idx+1:])
	if p.Type == "" || p.Name == "" {
		return Parameter{}, false
	}

	return p, true
}

// lastTopLevelSpace finds the final space outside generics, so the split
// between type and name survives "Map<String, Integer> counts".
func lastTopLevelSpace(s string) int {
	depth := 0
	last := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ' ':
			if depth == 0 {
				last = i
			}
		}
	}
	return last
}
