package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	// Load config without a file (should use defaults)
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config with defaults: %v", err)
	}

	// Verify defaults
	if cfg.Project.RootDir == "" {
		t.Error("Expected RootDir to be set")
	}

	if cfg.Output.Dir == "" {
		t.Error("Expected Output.Dir to be set")
	}

	if cfg.Output.FileName == "" {
		t.Error("Expected Output.FileName to be set")
	}

	if len(cfg.Project.Encoding) == 0 {
		t.Error("Expected at least one encoding hint")
	}

	if !cfg.Generation.Enabled {
		t.Error("Expected generation to be enabled by default")
	}

	if cfg.Generation.DefaultPort != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Generation.DefaultPort)
	}

	if cfg.Generation.DefaultHost != "localhost" {
		t.Errorf("Expected default host localhost, got %s", cfg.Generation.DefaultHost)
	}

	if cfg.Generation.TimeoutMillis != 10000 {
		t.Errorf("Expected default timeout 10000ms, got %d", cfg.Generation.TimeoutMillis)
	}

	if len(cfg.Output.Formats) == 0 {
		t.Error("Expected at least one default output format")
	}

	t.Logf("Config loaded successfully with defaults")
	cfg.Print()
}

func TestGetOutputPath(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{
			Dir:      "/tmp/output",
			FileName: "test-requests",
		},
	}

	expected := filepath.Join("/tmp/output", "test-requests.http")
	result := cfg.GetOutputPath(".http")

	if result != expected {
		t.Errorf("GetOutputPath() = %s, expected %s", result, expected)
	}
}

func TestTimeoutFallback(t *testing.T) {
	cfg := &Config{}
	if cfg.Timeout() != 10000 {
		t.Errorf("Timeout() with zero config = %d, expected 10000", cfg.Timeout())
	}

	cfg.Generation.TimeoutMillis = 2500
	if cfg.Timeout() != 2500 {
		t.Errorf("Timeout() = %d, expected 2500", cfg.Timeout())
	}
}

func TestValidate(t *testing.T) {
	// Create a temporary directory for testing
	tmpDir, err := os.MkdirTemp("", "reqsynth-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name: "Valid config",
			cfg: &Config{
				Project: ProjectConfig{
					RootDir:  tmpDir,
					Encoding: []string{"utf-8"},
				},
				Generation: GenerationConfig{
					DefaultPort:   8080,
					TimeoutMillis: 10000,
				},
				Output: OutputConfig{
					FileName: "requests",
				},
			},
			shouldErr: false,
		},
		{
			name: "Nonexistent root directory",
			cfg: &Config{
				Project: ProjectConfig{
					RootDir:  "/nonexistent/directory",
					Encoding: []string{"utf-8"},
				},
				Output: OutputConfig{
					FileName: "requests",
				},
			},
			shouldErr: true,
		},
		{
			name: "Empty encoding list",
			cfg: &Config{
				Project: ProjectConfig{
					RootDir:  tmpDir,
					Encoding: []string{},
				},
				Output: OutputConfig{
					FileName: "requests",
				},
			},
			shouldErr: true,
		},
		{
			name: "Empty output filename",
			cfg: &Config{
				Project: ProjectConfig{
					RootDir:  tmpDir,
					Encoding: []string{"utf-8"},
				},
				Output: OutputConfig{
					FileName: "",
				},
			},
			shouldErr: true,
		},
		{
			name: "Invalid port",
			cfg: &Config{
				Project: ProjectConfig{
					RootDir:  tmpDir,
					Encoding: []string{"utf-8"},
				},
				Generation: GenerationConfig{
					DefaultPort: 99999,
				},
				Output: OutputConfig{
					FileName: "requests",
				},
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.shouldErr && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}
