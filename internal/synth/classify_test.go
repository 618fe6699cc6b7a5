package synth

import (
	"fmt"
	"strings"
	"testing"

	"reqsynth/internal/model"
	"reqsynth/internal/signature"
)

func TestClassifyMixedParameters(t *testing.T) {
	r := newTestResolver(t, map[string]string{
		"src/OrderDTO.java": `
public class OrderDTO {
    private Long id;
}
`,
	})

	route := model.RouteDescriptor{Verb: model.VerbPost, Path: "/orders/{orderId}"}
	params := []signature.Parameter{
		{Annotation: "PathVariable", Type: "Long", Name: "orderId"},
		{Annotation: "RequestBody", Type: "OrderDTO", Name: "order"},
		{Annotation: "RequestParam", AnnotationArg: "dryRun", Type: "boolean", Name: "dry"},
		{Annotation: "RequestHeader", AnnotationArg: "Authorization", Type: "String", Name: "auth"},
	}

	effects := r.Classify(route, params)

	if effects.Path != "/orders/1" {
		t.Errorf("Path = %q, expected /orders/1", effects.Path)
	}
	if !strings.Contains(effects.Body, `"id": 1`) {
		t.Errorf("Body = %q, expected synthesized id field", effects.Body)
	}
	if len(effects.QueryParams) != 1 || effects.QueryParams[0].Name != "dryRun" || effects.QueryParams[0].Value != "true" {
		t.Errorf("QueryParams = %+v", effects.QueryParams)
	}
	if len(effects.Headers) != 1 || effects.Headers[0].Value != "Bearer <token>" {
		t.Errorf("Headers = %+v", effects.Headers)
	}
}

func TestClassifyFirstBodyWins(t *testing.T) {
	r := newTestResolver(t, map[string]string{
		"src/FirstDTO.java":  "public class FirstDTO {\n    private String first;\n}\n",
		"src/SecondDTO.java": "public class SecondDTO {\n    private String second;\n}\n",
	})

	route := model.RouteDescriptor{Verb: model.VerbPost, Path: "/x"}
	params := []signature.Parameter{
		{Annotation: "RequestBody", Type: "FirstDTO", Name: "a"},
		{Annotation: "RequestBody", Type: "SecondDTO", Name: "b"},
	}

	effects := r.Classify(route, params)
	if !strings.Contains(effects.Body, "first") {
		t.Errorf("Body should come from the first body parameter: %q", effects.Body)
	}
	if strings.Contains(effects.Body, "second") {
		t.Errorf("Second body parameter should be ignored: %q", effects.Body)
	}
}

// Path substitution replaces only the first occurrence of a placeholder.
func TestClassifyPathVariableFirstOccurrence(t *testing.T) {
	r := newTestResolver(t, nil)

	route := model.RouteDescriptor{Verb: model.VerbGet, Path: "/copy/{id}/to/{id}"}
	params := []signature.Parameter{
		{Annotation: "PathVariable", Type: "Long", Name: "id"},
	}

	effects := r.Classify(route, params)
	if effects.Path != "/copy/1/to/{id}" {
		t.Errorf("Path = %q, expected /copy/1/to/{id}", effects.Path)
	}
}

func TestClassifyNamedPathVariableUUID(t *testing.T) {
	r := newTestResolver(t, nil)

	route := model.RouteDescriptor{Verb: model.VerbGet, Path: "/items/{uuid}"}
	params := []signature.Parameter{
		{Annotation: "PathVariable", AnnotationArg: "uuid", Type: "UUID", Name: "itemId"},
	}

	effects := r.Classify(route, params)
	if effects.Path != "/items/"+SampleUUID {
		t.Errorf("Path = %q, expected the fixed sample UUID substituted", effects.Path)
	}
}

func TestClassifyPlainParameters(t *testing.T) {
	r := newTestResolver(t, nil)

	params := []signature.Parameter{
		{Type: "String", Name: "keyword"},
		{Type: "HttpServletRequest", Name: "request"},
	}

	// On GET, a plain parameter becomes a query parameter.
	get := r.Classify(model.RouteDescriptor{Verb: model.VerbGet, Path: "/search"}, params)
	if len(get.QueryParams) != 1 || get.QueryParams[0].Name != "keyword" {
		t.Errorf("GET QueryParams = %+v", get.QueryParams)
	}

	// On POST it is dropped.
	post := r.Classify(model.RouteDescriptor{Verb: model.VerbPost, Path: "/search"}, params)
	if len(post.QueryParams) != 0 {
		t.Errorf("POST QueryParams = %+v, expected none", post.QueryParams)
	}
}

func TestClassifyQueryCap(t *testing.T) {
	r := newTestResolver(t, nil)

	var params []signature.Parameter
	for i := 0; i < MaxQueryParams+5; i++ {
		params = append(params, signature.Parameter{Type: "String", Name: "p" + string(rune('a'+i))})
	}

	effects := r.Classify(model.RouteDescriptor{Verb: model.VerbGet, Path: "/q"}, params)
	if len(effects.QueryParams) != MaxQueryParams {
		t.Errorf("QueryParams length = %d, expected cap %d", len(effects.QueryParams), MaxQueryParams)
	}
}

// The cap binds unannotated parameters only; every explicit @RequestParam
// makes it into the query string.
func TestClassifyAnnotatedQueryParamsUncapped(t *testing.T) {
	r := newTestResolver(t, nil)

	var params []signature.Parameter
	for i := 0; i < MaxQueryParams+5; i++ {
		params = append(params, signature.Parameter{
			Annotation: "RequestParam",
			Type:       "String",
			Name:       fmt.Sprintf("p%d", i),
		})
	}

	effects := r.Classify(model.RouteDescriptor{Verb: model.VerbGet, Path: "/q"}, params)
	if len(effects.QueryParams) != MaxQueryParams+5 {
		t.Errorf("QueryParams length = %d, expected all %d annotated parameters",
			len(effects.QueryParams), MaxQueryParams+5)
	}
}

func TestQueryString(t *testing.T) {
	params := []QueryParam{{Name: "a", Value: "1"}, {Name: "b", Value: "sample"}}

	if got := QueryString("/items", params); got != "/items?a=1&b=sample" {
		t.Errorf("QueryString = %q", got)
	}
	if got := QueryString("/items?x=y", params); got != "/items?x=y&a=1&b=sample" {
		t.Errorf("QueryString with existing query = %q", got)
	}
	if got := QueryString("/items", nil); got != "/items" {
		t.Errorf("QueryString with no params = %q", got)
	}
}

func TestHeaderSamples(t *testing.T) {
	tests := []struct{ name, want string }{
		{"Authorization", "Bearer <token>"},
		{"auth", "Bearer <token>"},
		{"X-Auth-Token", "Bearer <token>"},
		{"Content-Type", "application/json"},
		{"Accept", "application/json"},
		{"X-Tenant", "value"},
	}

	for _, tt := range tests {
		if got := headerSample(tt.name); got != tt.want {
			t.Errorf("headerSample(%q) = %q, expected %q", tt.name, got, tt.want)
		}
	}
}
