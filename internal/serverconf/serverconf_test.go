package serverconf

import (
	"os"
	"path/filepath"
	"testing"

	"reqsynth/internal/workspace"
)

func wsWith(t *testing.T, name, content string) *workspace.Workspace {
	t.Helper()

	root := t.TempDir()
	path := filepath.Join(root, "src", "main", "resources", name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return workspace.New(root, nil)
}

func TestResolveProperties(t *testing.T) {
	ws := wsWith(t, "application.properties", `
spring.application.name=orders
server.port=9090
server.servlet.context-path=/orders/
`)

	cfg := Resolve(ws)
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, expected 9090", cfg.Port)
	}
	if cfg.ContextPath != "/orders" {
		t.Errorf("ContextPath = %q, expected /orders", cfg.ContextPath)
	}
}

func TestResolveYAML(t *testing.T) {
	ws := wsWith(t, "application.yml", `
spring:
  application:
    name: orders

server:
  port: 8443
  servlet:
    context-path: "/api"
`)

	cfg := Resolve(ws)
	if cfg.Port != 8443 {
		t.Errorf("Port = %d, expected 8443", cfg.Port)
	}
	if cfg.ContextPath != "/api" {
		t.Errorf("ContextPath = %q, expected /api", cfg.ContextPath)
	}
}

// A port: line far below server: belongs to some other block and is ignored.
func TestResolveYAMLBoundedWindow(t *testing.T) {
	content := "server:\n"
	for i := 0; i < yamlScanWindow+2; i++ {
		content += "  something: here\n"
	}
	content += "  port: 9999\n"

	ws := wsWith(t, "application.yml", content)
	cfg := Resolve(ws)
	if cfg.Port == 9999 {
		t.Error("Port beyond the scan window should not be picked up")
	}
}

// Nothing declared means the zero snapshot: the caller decides the default
// port, not this package.
func TestResolveNothingDetected(t *testing.T) {
	ws := workspace.New(t.TempDir(), nil)

	cfg := Resolve(ws)
	if cfg.Port != 0 {
		t.Errorf("Port = %d, expected 0 when no config declares one", cfg.Port)
	}
	if cfg.ContextPath != "" {
		t.Errorf("ContextPath = %q, expected empty", cfg.ContextPath)
	}
}

// A config declaring only a context path leaves the port undetected.
func TestResolveContextPathWithoutPort(t *testing.T) {
	ws := wsWith(t, "application.properties", `
spring.application.name=orders
server.servlet.context-path=/orders
`)

	cfg := Resolve(ws)
	if cfg.Port != 0 {
		t.Errorf("Port = %d, expected 0 when no config declares one", cfg.Port)
	}
	if cfg.ContextPath != "/orders" {
		t.Errorf("ContextPath = %q, expected /orders", cfg.ContextPath)
	}
}

func TestNormalizeContextPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{`"/api"`, "/api"},
		{"/api/", "/api"},
		{"api", "/api"},
		{"'/v1/'", "/v1"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeContextPath(tt.in); got != tt.want {
			t.Errorf("normalizeContextPath(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
