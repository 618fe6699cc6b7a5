package model

import "strings"

// Verb is an HTTP method supported by the mapping annotations.
type Verb string

const (
	VerbGet     Verb = "GET"
	VerbPost    Verb = "POST"
	VerbPut     Verb = "PUT"
	VerbDelete  Verb = "DELETE"
	VerbPatch   Verb = "PATCH"
	VerbHead    Verb = "HEAD"
	VerbOptions Verb = "OPTIONS"
)

// ParseVerb normalizes a verb token (e.g. "RequestMethod.POST", "post")
// into one of the fixed Verb values. Unknown tokens fall back to GET.
func ParseVerb(raw string) Verb {
	raw = strings.TrimSpace(raw)
	if idx := strings.LastIndex(raw, "."); idx >= 0 {
		raw = raw[idx+1:]
	}
	switch strings.ToUpper(raw) {
	case "GET":
		return VerbGet
	case "POST":
		return VerbPost
	case "PUT":
		return VerbPut
	case "DELETE":
		return VerbDelete
	case "PATCH":
		return VerbPatch
	case "HEAD":
		return VerbHead
	case "OPTIONS":
		return VerbOptions
	}
	return VerbGet
}

// RouteDescriptor is the resolved verb+path+content-type metadata for one
// endpoint. Path may still contain {name} placeholders at this stage.
type RouteDescriptor struct {
	Verb Verb
	Path string

	// Declared content types from consumes=/produces= attributes.
	// Order preserved; may be empty.
	RequestContentTypes  []string
	ResponseContentTypes []string
}

// ParamRole says how a method parameter contributes to the request.
type ParamRole string

const (
	RoleBody         ParamRole = "BODY"
	RolePathVariable ParamRole = "PATH"
	RoleQueryParam   ParamRole = "QUERY"
	RoleHeader       ParamRole = "HEADER"
	RolePlain        ParamRole = "PLAIN"
)

// Header is one request header. Kept as a slice (not a map) so header
// insertion order survives into serialized output.
type Header struct {
	Name  string
	Value string
}

// RequestDescriptor is the final synthesized request.
type RequestDescriptor struct {
	Verb    Verb
	URL     string
	Body    string // pre-serialized; empty means no body
	Headers []Header
}

// HeaderValue returns the value of the named header, case-insensitively.
func (r *RequestDescriptor) HeaderValue(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// SetHeader overwrites the named header if present, else appends it.
func (r *RequestDescriptor) SetHeader(name, value string) {
	for i, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			r.Headers[i].Value = value
			return
		}
	}
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
}

// EndpointRequest pairs a synthesized request with where it came from,
// for reports and skip accounting.
type EndpointRequest struct {
	Request *RequestDescriptor

	ControllerName string
	MethodName     string
	SourceFile     string
	Line           int

	// LiveMatched is true when the route was confirmed by the running
	// server's introspection endpoint rather than the annotation alone.
	LiveMatched bool
}

// SkippedUnit records one endpoint that degraded to "no request producible".
type SkippedUnit struct {
	SourceFile string
	Line       int
	Reason     string
	Class      FailureClass
}

// FailureClass is the error taxonomy for per-unit degradation.
type FailureClass string

const (
	FailUnlocatable FailureClass = "UNLOCATABLE"
	FailMalformed   FailureClass = "MALFORMED"
	FailResource    FailureClass = "RESOURCE"
)

// ServerConfig is the server listen snapshot recovered from project
// configuration files, or the static defaults.
type ServerConfig struct {
	Port        int
	ContextPath string
}

// DefaultServerConfig returns the static fallback (port 8080, no context path).
func DefaultServerConfig() ServerConfig {
	return ServerConfig{Port: 8080}
}

// RequestResult is what the execution collaborator reports back.
type RequestResult struct {
	Status       int
	StatusText   string
	Body         string
	DurationMS   int64
	ResponseSize int
	Err          string // transport error, verbatim
}
