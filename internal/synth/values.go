// Package synth turns declared Java types into concrete sample values and
// classifies method parameters into the request parts they bind to. Values
// are deterministic so repeated runs over the same tree produce identical
// requests.
package synth

import (
	"regexp"
	"strings"

	"reqsynth/internal/cache"
	"reqsynth/internal/logger"
	"reqsynth/internal/workspace"
)

// Fixed sample values. Deterministic placeholders, not random data.
const (
	SampleString = "sample"
	SampleInt    = 1
	SampleUUID   = "123e4567-e89b-12d3-a456-426614174000"
	SampleToken  = "value"
	SampleDate   = "2024-01-01"
	SampleTime   = "2024-01-01T00:00:00"
)

// MaxNestingDepth caps how many class hops a nested body may take. Beyond
// it the branch resolves to null.
const MaxNestingDepth = 5

// MaxClassFields caps how many fields are read out of one class.
const MaxClassFields = 20

var (
	listTypeRegex     = regexp.MustCompile(`^(?:List|Set|Collection|Iterable|ArrayList)\s*<\s*(.+?)\s*>$`)
	optionalTypeRegex = regexp.MustCompile(`^Optional\s*<\s*(.+?)\s*>$`)
	arrayTypeRegex    = regexp.MustCompile(`^(.+?)\s*\[\s*\]$`)
	mapTypeRegex      = regexp.MustCompile(`^(?:Map|HashMap|LinkedHashMap|TreeMap)\s*<`)

	// Field declarations of a class body. The modifier group is inspected
	// separately to drop static members, which are constants or helpers,
	// never payload.
	fieldRegex = regexp.MustCompile(
		`(?m)^\s*(?:private|protected|public)\s+((?:static\s+|final\s+|transient\s+|volatile\s+)*)([\w<>,\[\]?.\s]+?)\s+(\w+)\s*(?:=[^;]*)?;`)

	allCapsRegex = regexp.MustCompile(`^[A-Z0-9_]+$`)
)

// integralTypes map to the sample integer.
var integralTypes = map[string]bool{
	"int": true, "Integer": true, "long": true, "Long": true,
	"short": true, "Short": true, "byte": true, "Byte": true,
	"BigInteger": true,
}

var bareCollectionTypes = map[string]bool{
	"List": true, "Set": true, "Collection": true, "Iterable": true,
	"ArrayList": true,
}

var floatingTypes = map[string]bool{
	"float": true, "Float": true, "double": true, "Double": true,
	"BigDecimal": true,
}

// Resolver synthesizes sample values, resolving user-defined classes through
// the workspace and memoizing completed class shapes in a bounded cache.
type Resolver struct {
	ws    *workspace.Workspace
	cache *cache.Bounded
}

// NewResolver builds a resolver over the given workspace. cacheSize bounds
// the memoized class shapes.
func NewResolver(ws *workspace.Workspace, cacheSize int) *Resolver {
	return &Resolver{ws: ws, cache: cache.NewBounded(cacheSize)}
}

// SynthesizeValue produces a sample value for the declared type: primitives
// and well-known JDK types from the fixed table, collections as one-element
// arrays, user-defined classes as nested objects resolved from source.
// Unresolvable or cycle-truncated branches come back nil.
func (r *Resolver) SynthesizeValue(typeName string) interface{} {
	v, _ := r.synthesize(strings.TrimSpace(typeName), map[string]bool{})
	return v
}

// synthesize reports whether the produced value was truncated by a cycle or
// the depth cap; truncated shapes never enter the cache.
func (r *Resolver) synthesize(typeName string, visited map[string]bool) (interface{}, bool) {
	if v, ok := primitiveValue(typeName); ok {
		return v, false
	}

	if m := optionalTypeRegex.FindStringSubmatch(typeName); m != nil {
		return r.synthesize(strings.TrimSpace(m[1]), visited)
	}

	if m := listTypeRegex.FindStringSubmatch(typeName); m != nil {
		return r.synthesizeArray(m[1], visited)
	}

	if m := arrayTypeRegex.FindStringSubmatch(typeName); m != nil {
		return r.synthesizeArray(m[1], visited)
	}

	if mapTypeRegex.MatchString(typeName) {
		return map[string]interface{}{}, false
	}

	// A raw collection type without a declared element type stays empty.
	if bareCollectionTypes[typeName] {
		return []interface{}{}, false
	}

	if !isClassCandidate(typeName) {
		return SampleToken, false
	}

	return r.synthesizeClass(typeName, visited)
}

// synthesizeArray builds a single-element array from the declared element
// type. An element that cannot be resolved (cycle, depth cap, unknown type)
// leaves the array empty rather than holding a null.
func (r *Resolver) synthesizeArray(elemType string, visited map[string]bool) (interface{}, bool) {
	elem, trunc := r.synthesize(strings.TrimSpace(elemType), visited)
	if elem == nil {
		return []interface{}{}, trunc
	}
	return []interface{}{elem}, trunc
}

// synthesizeClass resolves a user-defined class to a field map by locating
// and reading its source file. Each branch of the recursion carries its own
// copy of the visited set, so sibling fields of the same type resolve
// independently while true cycles still terminate.
func (r *Resolver) synthesizeClass(className string, visited map[string]bool) (interface{}, bool) {
	if visited[className] {
		logger.Debug("[SYNTH] Cycle on %s, truncating branch", className)
		return nil, true
	}
	if len(visited) >= MaxNestingDepth {
		logger.Debug("[SYNTH] Depth cap reached at %s, truncating branch", className)
		return nil, true
	}

	if cached, ok := r.cache.Get(className); ok {
		return cached, false
	}

	path, found := r.ws.FindClassFile(className)
	if !found {
		logger.Debug("[SYNTH] No source for type %s", className)
		return nil, false
	}

	content, err := r.ws.ReadFile(path)
	if err != nil {
		logger.Debug("[SYNTH] Unreadable source for %s: %v", className, err)
		return nil, false
	}

	branch := extendVisited(visited, className)

	obj := map[string]interface{}{}
	truncated := false
	count := 0
	for _, fm := range fieldRegex.FindAllStringSubmatch(content, -1) {
		modifiers := fm[1]
		fieldType := strings.TrimSpace(fm[2])
		fieldName := fm[3]

		if strings.Contains(modifiers, "static") || allCapsRegex.MatchString(fieldName) {
			continue
		}

		v, trunc := r.synthesize(fieldType, branch)
		obj[fieldName] = v
		truncated = truncated || trunc

		count++
		if count >= MaxClassFields {
			logger.Debug("[SYNTH] Field cap reached on %s", className)
			break
		}
	}

	if !truncated {
		r.cache.Put(className, obj)
	}

	return obj, truncated
}

// extendVisited copies the set and adds one class. Copy-on-extend keeps each
// recursion branch independent.
func extendVisited(visited map[string]bool, className string) map[string]bool {
	branch := make(map[string]bool, len(visited)+1)
	for k := range visited {
		branch[k] = true
	}
	branch[className] = true
	return branch
}

// primitiveValue resolves the fixed table of primitives and JDK types.
func primitiveValue(typeName string) (interface{}, bool) {
	switch {
	case typeName == "String" || typeName == "CharSequence" || typeName == "char" || typeName == "Character":
		return SampleString, true
	case integralTypes[typeName]:
		return SampleInt, true
	case floatingTypes[typeName]:
		return 1.0, true
	case typeName == "boolean" || typeName == "Boolean":
		return true, true
	case typeName == "UUID":
		return SampleUUID, true
	case typeName == "LocalDate":
		return SampleDate, true
	case typeName == "LocalDateTime" || typeName == "Date" || typeName == "Instant" || typeName == "Timestamp":
		return SampleTime, true
	case typeName == "Object":
		return map[string]interface{}{}, true
	}
	return nil, false
}

// isClassCandidate reports whether the type looks like a user-defined class:
// a capitalized simple identifier. Generic leftovers and lowercase primitives
// never reach source resolution.
func isClassCandidate(typeName string) bool {
	if typeName == "" || strings.ContainsAny(typeName, "<>[]. ") {
		return false
	}
	first := typeName[0]
	return first >= 'A' && first <= 'Z'
}

// PathVariableSample picks the placeholder substitution for a path variable
// by declared type.
func PathVariableSample(typeName string) string {
	typeName = strings.TrimSpace(typeName)
	switch {
	case typeName == "String":
		return SampleString
	case integralTypes[typeName]:
		return "1"
	case typeName == "UUID":
		return SampleUUID
	default:
		return SampleToken
	}
}
