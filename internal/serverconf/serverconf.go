// Package serverconf recovers the target server's listen port and context
// path from Spring configuration files. Matching is line-oriented pattern
// work over raw text, never a full properties/YAML parser: the files it
// meets in legacy trees are frequently hand-edited and only loosely valid.
package serverconf

import (
	"regexp"
	"strconv"
	"strings"

	"reqsynth/internal/logger"
	"reqsynth/internal/model"
	"reqsynth/internal/workspace"
)

// Configuration filenames recognized in the project tree, tried in order.
var configFileNames = []string{
	"application.properties",
	"application.yml",
	"application.yaml",
	"application-local.properties",
	"application-local.yml",
}

// yamlScanWindow bounds how many lines below a block key are inspected for
// its nested scalars. Spring config blocks are shallow; anything further
// away belongs to another block.
const yamlScanWindow = 10

var (
	propPortRegex    = regexp.MustCompile(`(?m)^\s*server\.port\s*=\s*(\d+)\s*$`)
	propContextRegex = regexp.MustCompile(`(?m)^\s*server\.servlet\.context-path\s*=\s*(\S+)\s*$`)

	yamlServerRegex  = regexp.MustCompile(`^\s*server\s*:\s*$`)
	yamlServletRegex = regexp.MustCompile(`^\s*servlet\s*:\s*$`)
	yamlPortRegex    = regexp.MustCompile(`^\s*port\s*:\s*(\d+)\s*$`)
	yamlContextRegex = regexp.MustCompile(`^\s*context-path\s*:\s*(\S+)\s*$`)
)

// Resolve scans the project for a recognized configuration file and returns
// the listen snapshot. First match wins. Anything the project never declared
// stays at its zero value (port 0, empty context path) so the caller can
// apply its own configured defaults. Never fails: I/O errors go to the log
// side channel only.
func Resolve(ws *workspace.Workspace) model.ServerConfig {
	for _, name := range configFileNames {
		matches := ws.FindFiles(name, 3)
		for _, path := range matches {
			content, err := ws.ReadFile(path)
			if err != nil {
				logger.Debug("[SERVERCONF] Unreadable config %s: %v", path, err)
				continue
			}

			var cfg model.ServerConfig
			var found bool
			if strings.HasSuffix(name, ".properties") {
				cfg, found = parseProperties(content)
			} else {
				cfg, found = parseYAML(content)
			}
			if found {
				logger.Debug("[SERVERCONF] Resolved %s -> port=%d context=%q", path, cfg.Port, cfg.ContextPath)
				return cfg
			}
		}
	}

	return model.ServerConfig{}
}

// parseProperties matches server.port and server.servlet.context-path lines.
func parseProperties(content string) (model.ServerConfig, bool) {
	var cfg model.ServerConfig
	found := false

	if m := propPortRegex.FindStringSubmatch(content); len(m) > 1 {
		if port, err := strconv.Atoi(m[1]); err == nil && port > 0 {
			cfg.Port = port
			found = true
		}
	}

	if m := propContextRegex.FindStringSubmatch(content); len(m) > 1 {
		cfg.ContextPath = normalizeContextPath(m[1])
		found = true
	}

	return cfg, found
}

// parseYAML finds a server: block and inspects a bounded window of following
// lines for port: and a servlet: sub-block with context-path:. This is
// distance-bounded matching, not structural YAML parsing.
func parseYAML(content string) (model.ServerConfig, bool) {
	var cfg model.ServerConfig
	found := false

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !yamlServerRegex.MatchString(line) {
			continue
		}

		end := i + 1 + yamlScanWindow
		if end > len(lines) {
			end = len(lines)
		}

		for j := i + 1; j < end; j++ {
			if m := yamlPortRegex.FindStringSubmatch(lines[j]); len(m) > 1 {
				if port, err := strconv.Atoi(m[1]); err == nil && port > 0 {
					cfg.Port = port
					found = true
				}
				continue
			}

			if yamlServletRegex.MatchString(lines[j]) {
				subEnd := j + 1 + yamlScanWindow
				if subEnd > len(lines) {
					subEnd = len(lines)
				}
				for k := j + 1; k < subEnd; k++ {
					if m := yamlContextRegex.FindStringSubmatch(lines[k]); len(m) > 1 {
						cfg.ContextPath = normalizeContextPath(m[1])
						found = true
						break
					}
				}
			}
		}

		// Only the first server: block is consulted.
		break
	}

	return cfg, found
}

// normalizeContextPath strips quotes and trailing slash, keeps one leading slash.
func normalizeContextPath(raw string) string {
	raw = strings.Trim(raw, `"'`)
	raw = strings.TrimSuffix(raw, "/")
	if raw != "" && !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return raw
}
