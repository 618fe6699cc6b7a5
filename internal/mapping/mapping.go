// Package mapping parses one located endpoint annotation into a structured
// route descriptor: HTTP verb, path and declared content types, with the
// enclosing class-level path folded in.
package mapping

import (
	"regexp"
	"strings"

	"reqsynth/internal/model"
)

// ClassBackwardWindow bounds how far before a class declaration the
// class-level mapping annotation is searched for.
const ClassBackwardWindow = 500

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	verbAnnotationRegex    = regexp.MustCompile(`^@(Get|Post|Put|Delete|Patch)Mapping\b`)
	genericAnnotationRegex = regexp.MustCompile(`^@RequestMapping\b`)
	argsRegex              = regexp.MustCompile(`^@\w+\s*\((.*)\)\s*$`)

	namedPathRegex = regexp.MustCompile(`(?:value|path)\s*=\s*"([^"]*)"`)
	barePathRegex  = regexp.MustCompile(`^\s*"([^"]*)"`)
	verbArgRegex   = regexp.MustCompile(`method\s*=\s*(?:RequestMethod\s*\.\s*)?(\w+)`)

	consumesRegex = regexp.MustCompile(`consumes\s*=\s*(\{[^}]*\}|"[^"]*")`)
	producesRegex = regexp.MustCompile(`produces\s*=\s*(\{[^}]*\}|"[^"]*")`)
	quotedRegex   = regexp.MustCompile(`"([^"]*)"`)

	classDeclRegex = regexp.MustCompile(`(?m)^[ \t]*(?:public\s+)?(?:final\s+|abstract\s+)*class\s+\w+`)
	classPathRegex = regexp.MustCompile(`@RequestMapping\s*\(\s*(?:(?:value|path)\s*=\s*)?"([^"]*)"\s*\)`)
)

// ExtractRoute parses a method-level mapping annotation. The recognized
// forms, tried in order:
//
//  1. verb-specific with an explicit path ( @GetMapping("/x") or value= )
//  2. generic with explicit verb and path in either attribute order
//  3. generic with only a path (verb defaults to GET)
//  4. verb-specific with no arguments (path empty, class path only)
//
// consumes=/produces= attributes are extracted independently of the form.
// Returns ok=false only when the text is not a mapping annotation at all.
func ExtractRoute(annotationText string) (model.RouteDescriptor, bool) {
	norm := strings.TrimSpace(whitespaceRegex.ReplaceAllString(annotationText, " "))

	route := model.RouteDescriptor{Verb: model.VerbGet}

	args := ""
	if m := argsRegex.FindStringSubmatch(norm); len(m) > 1 {
		args = m[1]
	}

	switch {
	case verbAnnotationRegex.MatchString(norm):
		verbToken := verbAnnotationRegex.FindStringSubmatch(norm)[1]
		route.Verb = model.ParseVerb(verbToken)
		route.Path = extractPathArg(args)

	case genericAnnotationRegex.MatchString(norm):
		if m := verbArgRegex.FindStringSubmatch(args); len(m) > 1 {
			route.Verb = model.ParseVerb(m[1])
		}
		route.Path = extractPathArg(args)

	default:
		return model.RouteDescriptor{}, false
	}

	route.RequestContentTypes = extractContentTypes(consumesRegex, args)
	route.ResponseContentTypes = extractContentTypes(producesRegex, args)

	return route, true
}

// extractPathArg finds the path argument: a named value=/path= string, or a
// bare leading string literal. Absent paths come back empty, never fail.
func extractPathArg(args string) string {
	if m := namedPathRegex.FindStringSubmatch(args); len(m) > 1 {
		return m[1]
	}
	if m := barePathRegex.FindStringSubmatch(args); len(m) > 1 {
		return m[1]
	}
	return ""
}

// extractContentTypes reads a consumes=/produces= attribute: either a single
// quoted string or a brace-delimited comma list of quoted strings. Order is
// preserved.
func extractContentTypes(attrRegex *regexp.Regexp, args string) []string {
	m := attrRegex.FindStringSubmatch(args)
	if len(m) < 2 {
		return nil
	}

	var types []string
	for _, q := range quotedRegex.FindAllStringSubmatch(m[1], -1) {
		if q[1] != "" {
			types = append(types, q[1])
		}
	}
	return types
}

// ClassLevelPath resolves the class-level mapping path for the method at
// beforeOffset: it scans backward to the enclosing class declaration, then
// inspects a bounded window before the class keyword for a single-path
// @RequestMapping. Absence is normal and yields the empty path.
func ClassLevelPath(sourceText string, beforeOffset int) string {
	if beforeOffset > len(sourceText) {
		beforeOffset = len(sourceText)
	}
	region := sourceText[:beforeOffset]

	decls := classDeclRegex.FindAllStringIndex(region, -1)
	if len(decls) == 0 {
		return ""
	}
	classStart := decls[len(decls)-1][0]

	windowStart := classStart - ClassBackwardWindow
	if windowStart < 0 {
		windowStart = 0
	}
	window := region[windowStart:classStart]

	paths := classPathRegex.FindAllStringSubmatch(window, -1)
	if len(paths) == 0 {
		return ""
	}
	// The annotation nearest the class keyword wins.
	return paths[len(paths)-1][1]
}

// CombinePaths joins class-level and method-level paths with exactly one
// separating slash. Either side may be empty, in which case the other is
// used unchanged.
func CombinePaths(classPath, methodPath string) string {
	classPath = strings.TrimSpace(classPath)
	methodPath = strings.TrimSpace(methodPath)

	if classPath == "" {
		return methodPath
	}
	if methodPath == "" {
		return classPath
	}

	classPath = strings.TrimSuffix(classPath, "/")
	methodPath = strings.TrimPrefix(methodPath, "/")

	return classPath + "/" + methodPath
}
