package synth

import (
	"encoding/json"
	"fmt"
	"strings"

	"reqsynth/internal/logger"
	"reqsynth/internal/model"
	"reqsynth/internal/signature"
)

// MaxQueryParams caps how many unannotated parameters may fold into the
// query string. Explicit @RequestParam bindings are always honored.
const MaxQueryParams = 10

// QueryParam is one name=value pair, kept in declaration order.
type QueryParam struct {
	Name  string
	Value string
}

// SideEffects is what a method's parameter list contributes to the request:
// the path with variables substituted, accumulated query parameters and
// headers, and the synthesized body.
type SideEffects struct {
	Path        string
	QueryParams []QueryParam
	Headers     []model.Header
	Body        string
}

// Infrastructure parameter types injected by the framework. They carry no
// caller-supplied data and never reach the request.
var infrastructureTypes = map[string]bool{
	"HttpServletRequest":   true,
	"HttpServletResponse":  true,
	"HttpSession":          true,
	"Model":                true,
	"ModelMap":             true,
	"ModelAndView":         true,
	"BindingResult":        true,
	"Errors":               true,
	"Principal":            true,
	"Authentication":       true,
	"Locale":               true,
	"UriComponentsBuilder": true,
}

// RoleOf maps a parameter's binding annotation to its request role.
func RoleOf(p signature.Parameter) model.ParamRole {
	switch p.Annotation {
	case "RequestBody":
		return model.RoleBody
	case "PathVariable":
		return model.RolePathVariable
	case "RequestParam":
		return model.RoleQueryParam
	case "RequestHeader":
		return model.RoleHeader
	default:
		return model.RolePlain
	}
}

// Classify walks the parameter list in declaration order and folds each
// parameter into the request side effects. Only the first body parameter is
// honored; later ones are logged and dropped. Plain parameters become query
// parameters only on GET requests and only under the query cap; annotated
// query parameters are never capped.
func (r *Resolver) Classify(route model.RouteDescriptor, params []signature.Parameter) SideEffects {
	effects := SideEffects{Path: route.Path}
	bodyTaken := false
	plainParams := 0

	for _, p := range params {
		switch RoleOf(p) {
		case model.RoleBody:
			if bodyTaken {
				logger.Debug("[CLASSIFY] Second body parameter %s ignored", p.Name)
				continue
			}
			effects.Body = r.synthesizeBody(p.Type)
			bodyTaken = true

		case model.RolePathVariable:
			name := bindingName(p)
			placeholder := "{" + name + "}"
			if !strings.Contains(effects.Path, placeholder) {
				logger.Debug("[CLASSIFY] Path variable %s has no placeholder in %s", name, effects.Path)
				continue
			}
			effects.Path = strings.Replace(effects.Path, placeholder, PathVariableSample(p.Type), 1)

		case model.RoleQueryParam:
			effects.QueryParams = append(effects.QueryParams, QueryParam{Name: bindingName(p), Value: scalarSample(p.Type)})

		case model.RoleHeader:
			name := bindingName(p)
			effects.Headers = append(effects.Headers, model.Header{Name: name, Value: headerSample(name)})

		case model.RolePlain:
			if infrastructureTypes[p.Type] {
				continue
			}
			if route.Verb != model.VerbGet {
				logger.Debug("[CLASSIFY] Plain parameter %s dropped on %s request", p.Name, route.Verb)
				continue
			}
			if plainParams >= MaxQueryParams {
				logger.Debug("[CLASSIFY] Plain parameter cap reached, dropping %s", p.Name)
				continue
			}
			plainParams++
			effects.QueryParams = append(effects.QueryParams, QueryParam{Name: p.Name, Value: scalarSample(p.Type)})
		}
	}

	return effects
}

// synthesizeBody resolves the body type to a JSON document. Unresolvable
// types fall back to an empty object so the request stays executable.
func (r *Resolver) synthesizeBody(typeName string) string {
	value := r.SynthesizeValue(typeName)
	if value == nil {
		logger.Debug("[CLASSIFY] Body type %s unresolvable, emitting empty object", typeName)
		return "{}"
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		logger.Debug("[CLASSIFY] Body for %s failed to serialize: %v", typeName, err)
		return "{}"
	}
	return string(data)
}

// bindingName picks the explicit annotation argument over the declared
// parameter name.
func bindingName(p signature.Parameter) string {
	if p.AnnotationArg != "" {
		return p.AnnotationArg
	}
	return p.Name
}

// QueryString renders accumulated query parameters for appending to a path.
// The separator depends on whether the path already carries a query.
func QueryString(path string, params []QueryParam) string {
	if len(params) == 0 {
		return path
	}

	pairs := make([]string, len(params))
	for i, p := range params {
		pairs[i] = fmt.Sprintf("%s=%s", p.Name, p.Value)
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(pairs, "&")
}

// scalarSample picks the sample literal for a query or form value.
func scalarSample(typeName string) string {
	typeName = strings.TrimSpace(typeName)
	switch {
	case typeName == "String" || typeName == "CharSequence":
		return SampleString
	case integralTypes[typeName]:
		return "1"
	case floatingTypes[typeName]:
		return "1.0"
	case typeName == "boolean" || typeName == "Boolean":
		return "true"
	case typeName == "UUID":
		return SampleUUID
	case typeName == "LocalDate":
		return SampleDate
	default:
		return SampleToken
	}
}

// headerSample picks a plausible value for a named request header. Matching
// is on case-insensitive substrings, so X-Auth-Token and Authorization both
// get the bearer placeholder.
func headerSample(name string) string {
	switch lower := strings.ToLower(name); {
	case strings.Contains(lower, "auth"):
		return "Bearer <token>"
	case lower == "content-type" || lower == "accept":
		return "application/json"
	default:
		return SampleToken
	}
}
