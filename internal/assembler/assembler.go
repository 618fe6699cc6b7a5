// Package assembler folds a resolved route, its synthesized side effects and
// the server snapshot into one executable request descriptor.
package assembler

import (
	"fmt"

	"reqsynth/internal/model"
	"reqsynth/internal/synth"
)

// MaxURLLength rejects runaway URLs (malformed paths, repeated substitution
// leftovers) before they reach an exporter or the wire.
const MaxURLLength = 2000

// HostPlaceholder prefixes URLs when no live server confirmed the route.
// Exporters expand it into their own variable syntax.
const HostPlaceholder = "{{host}}"

const defaultContentType = "application/json"

// Options steer URL construction.
type Options struct {
	// Host is the target host name, without scheme or port.
	Host string

	// Server is the port/context-path snapshot recovered from project
	// configuration (or its defaults).
	Server model.ServerConfig

	// Absolute selects a concrete http://host:port base. Off, the host
	// placeholder is emitted and the exporter decides how to bind it.
	Absolute bool
}

// Assemble builds the request descriptor: verb, full URL with query string,
// headers and body. An Accept header is always present; Content-Type is
// attached only when a body is. Fails only on URL overflow.
func Assemble(route model.RouteDescriptor, effects synth.SideEffects, opts Options) (model.RequestDescriptor, error) {
	path := synth.QueryString(effects.Path, effects.QueryParams)

	// The placeholder expands to scheme://host:port/context-path at export
	// time, so only the absolute form spells the context path out here.
	base := HostPlaceholder
	if opts.Absolute {
		base = fmt.Sprintf("http://%s:%d%s", opts.Host, opts.Server.Port, opts.Server.ContextPath)
	}

	url := base + path
	if len(url) > MaxURLLength {
		return model.RequestDescriptor{}, fmt.Errorf(
			"assembled URL for %s %s is %d chars, over the %d cap", route.Verb, effects.Path, len(url), MaxURLLength)
	}

	req := model.RequestDescriptor{
		Verb: route.Verb,
		URL:  url,
		Body: effects.Body,
	}

	req.SetHeader("Accept", firstOr(route.ResponseContentTypes, defaultContentType))
	if req.Body != "" {
		req.SetHeader("Content-Type", firstOr(route.RequestContentTypes, defaultContentType))
	}

	// Parameter-derived headers last, so an explicit @RequestHeader
	// Content-Type or Accept overrides the declared defaults.
	for _, h := range effects.Headers {
		req.SetHeader(h.Name, h.Value)
	}

	return req, nil
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
