// Package scanner locates endpoint-declaring annotations and the method
// declarations they decorate inside raw Java source text. It is a
// bounded-window heuristic matcher, not a parser: it trades recall for
// precision and a hard cost ceiling per annotation.
package scanner

import (
	"regexp"
	"strings"

	"reqsynth/internal/logger"
)

// LookaheadWindow is the maximum number of characters searched after an
// annotation for the method header it decorates. Tuned to span at most a few
// source lines; an annotation whose method sits further away is rejected
// rather than scanning the remaining file.
const LookaheadWindow = 400

// Match is one located endpoint annotation together with the method header
// that follows it.
type Match struct {
	// AnnotationText is the full annotation span, e.g.
	// `@GetMapping("/users/{id}")`.
	AnnotationText string

	// MethodText is the method header span, from the first modifier through
	// the opening brace (parameter list included, body excluded).
	MethodText string

	// Offset is the byte offset of the annotation in the scanned text.
	Offset int

	// Line is the 1-based line of the annotation.
	Line int
}

// endpointAnnotationRegex matches the verb-specific and generic mapping
// annotations anchored at line starts. The argument list is optional
// (e.g. a bare @PostMapping combined with a class-level path).
var endpointAnnotationRegex = regexp.MustCompile(
	`(?m)^[ \t]*(@(?:Get|Post|Put|Delete|Patch|Request)Mapping(?:\s*\(((?:[^()"]|"[^"]*"|\([^()]*\))*)\))?)`)

// methodHeaderRegex matches a controller method header: optional extra
// annotations, a required visibility modifier (the lightweight "looks like a
// controller method" check), optional static/final, a return type token, the
// method name, a parenthesized parameter list, an optional throws clause and
// the opening brace.
// The parameter-list group tolerates one level of nested parens so annotated
// parameters like @RequestParam("q") do not truncate the header.
var methodHeaderRegex = regexp.MustCompile(
	`(?s)(?:@\w+(?:\([^)]*\))?\s+)*(public|protected|private)\s+(?:static\s+|final\s+)*([\w<>,\[\]?.\s]+?)\s+(\w+)\s*\(((?:[^()"]|"[^"]*"|\([^()]*\))*)\)\s*(?:throws\s+[\w.,\s]+?)?\s*\{`)

// FindEndpointAnnotations makes one pass over the text and returns every
// annotation that decorates a method header within the lookahead window.
// Rejected candidates are logged and skipped; the scan always terminates.
func FindEndpointAnnotations(text string) []Match {
	var matches []Match

	locs := endpointAnnotationRegex.FindAllStringSubmatchIndex(text, -1)
	for _, loc := range locs {
		annStart, annEnd := loc[2], loc[3]
		annotation := text[annStart:annEnd]

		windowEnd := annEnd + LookaheadWindow
		if windowEnd > len(text) {
			windowEnd = len(text)
		}
		window := text[annEnd:windowEnd]

		headerLoc := methodHeaderRegex.FindStringIndex(window)
		if headerLoc == nil {
			// The annotation does not decorate a nearby method
			// (field, interface member, or unusually formatted code).
			logger.Debug("[SCANNER] No method header within %d chars of %s, skipping",
				LookaheadWindow, firstLine(annotation))
			continue
		}

		// Anything other than whitespace or further annotations between the
		// endpoint annotation and the header means the header belongs to a
		// different declaration.
		gap := window[:headerLoc[0]]
		if !isAnnotationGap(gap) {
			logger.Debug("[SCANNER] Unrelated code between %s and method header, skipping",
				firstLine(annotation))
			continue
		}

		matches = append(matches, Match{
			AnnotationText: annotation,
			MethodText:     window[headerLoc[0]:headerLoc[1]],
			Offset:         annStart,
			Line:           1 + strings.Count(text[:annStart], "\n"),
		})
	}

	return matches
}

var gapAnnotationRegex = regexp.MustCompile(`@\w+(?:\([^)]*\))?`)

// isAnnotationGap reports whether the text between an endpoint annotation
// and a method header contains only whitespace and other annotations
// (e.g. @ResponseBody, @Transactional).
func isAnnotationGap(gap string) bool {
	stripped := gapAnnotationRegex.ReplaceAllString(gap, "")
	return strings.TrimSpace(stripped) == ""
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
