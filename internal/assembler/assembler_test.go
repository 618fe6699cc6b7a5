package assembler

import (
	"strings"
	"testing"

	"reqsynth/internal/model"
	"reqsynth/internal/synth"
)

func TestAssembleAbsoluteURL(t *testing.T) {
	route := model.RouteDescriptor{Verb: model.VerbGet, Path: "/api/users/{id}"}
	effects := synth.SideEffects{
		Path:        "/api/users/1",
		QueryParams: []synth.QueryParam{{Name: "expand", Value: "true"}},
	}

	req, err := Assemble(route, effects, Options{
		Host:     "localhost",
		Server:   model.ServerConfig{Port: 9090, ContextPath: "/shop"},
		Absolute: true,
	})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := "http://localhost:9090/shop/api/users/1?expand=true"
	if req.URL != want {
		t.Errorf("URL = %q, expected %q", req.URL, want)
	}
	if req.Verb != model.VerbGet {
		t.Errorf("Verb = %s", req.Verb)
	}
}

func TestAssemblePlaceholderURL(t *testing.T) {
	route := model.RouteDescriptor{Verb: model.VerbGet, Path: "/ping"}
	effects := synth.SideEffects{Path: "/ping"}

	req, err := Assemble(route, effects, Options{
		Host:   "localhost",
		Server: model.DefaultServerConfig(),
	})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if req.URL != "{{host}}/ping" {
		t.Errorf("URL = %q, expected {{host}}/ping", req.URL)
	}
}

func TestAssembleHeaders(t *testing.T) {
	route := model.RouteDescriptor{
		Verb:                 model.VerbPost,
		Path:                 "/orders",
		RequestContentTypes:  []string{"application/xml"},
		ResponseContentTypes: []string{"application/xml"},
	}
	effects := synth.SideEffects{
		Path: "/orders",
		Body: `{"id": 1}`,
		Headers: []model.Header{
			{Name: "Authorization", Value: "Bearer <token>"},
		},
	}

	req, err := Assemble(route, effects, Options{Host: "localhost", Server: model.DefaultServerConfig()})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if v, _ := req.HeaderValue("Accept"); v != "application/xml" {
		t.Errorf("Accept = %q, expected declared produces type", v)
	}
	if v, _ := req.HeaderValue("Content-Type"); v != "application/xml" {
		t.Errorf("Content-Type = %q, expected declared consumes type", v)
	}
	if v, _ := req.HeaderValue("Authorization"); v != "Bearer <token>" {
		t.Errorf("Authorization = %q", v)
	}
}

func TestAssembleNoContentTypeWithoutBody(t *testing.T) {
	route := model.RouteDescriptor{Verb: model.VerbGet, Path: "/users"}
	effects := synth.SideEffects{Path: "/users"}

	req, err := Assemble(route, effects, Options{Host: "localhost", Server: model.DefaultServerConfig()})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if _, ok := req.HeaderValue("Content-Type"); ok {
		t.Error("Bodyless request should carry no Content-Type")
	}
	if v, _ := req.HeaderValue("Accept"); v != "application/json" {
		t.Errorf("Accept = %q, expected application/json default", v)
	}
}

// An explicit @RequestHeader Accept wins over the declared produces default.
func TestAssembleExplicitHeaderOverridesDefault(t *testing.T) {
	route := model.RouteDescriptor{Verb: model.VerbGet, Path: "/csv"}
	effects := synth.SideEffects{
		Path:    "/csv",
		Headers: []model.Header{{Name: "Accept", Value: "text/csv"}},
	}

	req, err := Assemble(route, effects, Options{Host: "localhost", Server: model.DefaultServerConfig()})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if v, _ := req.HeaderValue("Accept"); v != "text/csv" {
		t.Errorf("Accept = %q, expected override text/csv", v)
	}
}

func TestAssembleURLOverflow(t *testing.T) {
	route := model.RouteDescriptor{Verb: model.VerbGet, Path: "/long"}
	effects := synth.SideEffects{Path: "/" + strings.Repeat("x", MaxURLLength)}

	_, err := Assemble(route, effects, Options{Host: "localhost", Server: model.DefaultServerConfig()})
	if err == nil {
		t.Fatal("Expected URL overflow error")
	}
	if !strings.Contains(err.Error(), "cap") {
		t.Errorf("Error should name the cap: %v", err)
	}
}
