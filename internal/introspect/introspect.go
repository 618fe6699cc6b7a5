// Package introspect asks a running Spring Boot server for its actual route
// table via the actuator mappings endpoint. The catalog is opportunistic:
// fetch failures are normal (server down, actuator absent) and degrade to
// "no live confirmation", never to a pipeline error.
package introspect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"reqsynth/internal/logger"
	"reqsynth/internal/model"
)

// maxResponseSize caps the actuator payload read. Route tables are small;
// anything larger is not a mappings document.
const maxResponseSize = 4 * 1024 * 1024

// Catalog is the set of verb+pattern routes a live server confirmed.
// A nil Catalog is valid and confirms nothing.
type Catalog struct {
	routes map[string]bool
}

// Contains reports whether the live server registered the verb and path
// template. Comparison is on the raw template, placeholders included.
func (c *Catalog) Contains(verb model.Verb, pathTemplate string) bool {
	if c == nil {
		return false
	}
	return c.routes[routeKey(verb, pathTemplate)]
}

// VerbsFor returns every verb the live server registered for the path
// template, in no particular order.
func (c *Catalog) VerbsFor(pathTemplate string) []model.Verb {
	if c == nil {
		return nil
	}
	var verbs []model.Verb
	for key := range c.routes {
		if idx := strings.Index(key, " "); idx > 0 && key[idx+1:] == pathTemplate {
			verbs = append(verbs, model.Verb(key[:idx]))
		}
	}
	return verbs
}

// Size returns the number of confirmed routes.
func (c *Catalog) Size() int {
	if c == nil {
		return 0
	}
	return len(c.routes)
}

// Fetch queries /actuator/mappings on the given server. The context-path is
// stripped from returned patterns so they compare against annotation-derived
// templates directly.
func Fetch(ctx context.Context, host string, server model.ServerConfig, timeout time.Duration) (*Catalog, error) {
	url := fmt.Sprintf("http://%s:%d%s/actuator/mappings", host, server.Port, server.ContextPath)

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build introspection request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("introspection endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("introspection endpoint returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read introspection response: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("introspection response is not JSON: %w", err)
	}

	catalog := &Catalog{routes: map[string]bool{}}
	collectRoutes(doc, server.ContextPath, catalog.routes)
	logger.Debug("[INTROSPECT] Live server reported %d routes", len(catalog.routes))
	return catalog, nil
}

// predicateRegex matches the textual form "{GET [/users/{id}]}" that newer
// actuator versions emit.
var predicateRegex = regexp.MustCompile(`\{(\w+)\s+\[([^\]]+)\]`)

// collectRoutes walks the whole mappings document. The actuator layout
// varies across Boot versions, so it matches on shape rather than fixed
// paths: any requestMappingConditions object and any predicate string
// contribute routes.
func collectRoutes(node interface{}, contextPath string, routes map[string]bool) {
	switch v := node.(type) {
	case map[string]interface{}:
		if cond, ok := v["requestMappingConditions"].(map[string]interface{}); ok {
			addConditionRoutes(cond, contextPath, routes)
		}
		if pred, ok := v["predicate"].(string); ok {
			addPredicateRoutes(pred, contextPath, routes)
		}
		for _, child := range v {
			collectRoutes(child, contextPath, routes)
		}
	case []interface{}:
		for _, child := range v {
			collectRoutes(child, contextPath, routes)
		}
	}
}

func addConditionRoutes(cond map[string]interface{}, contextPath string, routes map[string]bool) {
	patterns := stringSlice(cond["patterns"])
	methods := stringSlice(cond["methods"])
	if len(methods) == 0 {
		methods = []string{"GET"}
	}

	for _, pattern := range patterns {
		for _, method := range methods {
			routes[routeKey(model.ParseVerb(method), stripContext(pattern, contextPath))] = true
		}
	}
}

func addPredicateRoutes(pred, contextPath string, routes map[string]bool) {
	for _, m := range predicateRegex.FindAllStringSubmatch(pred, -1) {
		for _, pattern := range strings.Split(m[2], ",") {
			pattern = strings.TrimSpace(pattern)
			if pattern == "" {
				continue
			}
			routes[routeKey(model.ParseVerb(m[1]), stripContext(pattern, contextPath))] = true
		}
	}
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stripContext(pattern, contextPath string) string {
	if contextPath != "" && strings.HasPrefix(pattern, contextPath) {
		return pattern[len(contextPath):]
	}
	return pattern
}

func routeKey(verb model.Verb, pathTemplate string) string {
	return string(verb) + " " + pathTemplate
}
