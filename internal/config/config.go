package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Project    ProjectConfig    `mapstructure:"project"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Generation GenerationConfig `mapstructure:"generation"`
	Output     OutputConfig     `mapstructure:"output"`
}

// ProjectConfig holds project-specific settings
type ProjectConfig struct {
	RootDir  string   `mapstructure:"root_dir"` // Root directory of the Spring project to scan
	Encoding []string `mapstructure:"encoding"` // Encoding hints (e.g., ["utf-8", "euc-kr", "ms949"])
}

// AnalysisConfig holds scanning behavior settings
type AnalysisConfig struct {
	ExcludeDirs []string `mapstructure:"exclude_dirs"` // Directories to exclude from scanning
}

// GenerationConfig holds request-synthesis settings
type GenerationConfig struct {
	Enabled       bool   `mapstructure:"enabled"`        // Master switch for endpoint scanning
	UseVariables  bool   `mapstructure:"use_variables"`  // Emit {{host}}-style variables instead of literal hosts
	DefaultHost   string `mapstructure:"default_host"`   // Host used when none is detected
	DefaultPort   int    `mapstructure:"default_port"`   // Port used when none is detected
	TimeoutMillis int    `mapstructure:"timeout_ms"`     // Per-generation timeout
	SaveResponses bool   `mapstructure:"save_responses"` // Write response bodies next to the request files when executing
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`       // Output directory
	FileName string   `mapstructure:"file_name"` // Output file name (without extension)
	Formats  []string `mapstructure:"formats"`   // Default export formats (http,curl,excel,word)
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Println("  Source: ./src")
			fmt.Println("  Output: ./output")
			fmt.Println("==========================================")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	// Project defaults - use ./src for double-click usability
	v.SetDefault("project.root_dir", "./src")
	v.SetDefault("project.encoding", []string{"utf-8", "euc-kr", "ms949"})

	// Analysis defaults
	v.SetDefault("analysis.exclude_dirs", []string{
		"**/test/**",
		"**/tests/**",
		"**/target/**",
		"**/build/**",
		"**/out/**",
		"**/.git/**",
		"**/.svn/**",
		"**/node_modules/**",
	})

	// Generation defaults
	v.SetDefault("generation.enabled", true)
	v.SetDefault("generation.use_variables", false)
	v.SetDefault("generation.default_host", "localhost")
	v.SetDefault("generation.default_port", 8080)
	v.SetDefault("generation.timeout_ms", 10000)
	v.SetDefault("generation.save_responses", false)

	// Output defaults
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "reqsynth-requests")
	v.SetDefault("output.formats", []string{"http", "curl"})
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absRoot, err := filepath.Abs(c.Project.RootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve root_dir: %w", err)
	}
	c.Project.RootDir = absRoot

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetOutputPath returns the full path for an output file with the given extension
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+ext)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := os.Stat(c.Project.RootDir); os.IsNotExist(err) {
		return fmt.Errorf("root_dir does not exist: %s", c.Project.RootDir)
	}

	if len(c.Project.Encoding) == 0 {
		return fmt.Errorf("project.encoding must contain at least one encoding")
	}

	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	if c.Generation.DefaultPort < 0 || c.Generation.DefaultPort > 65535 {
		return fmt.Errorf("generation.default_port must be a valid port, got %d", c.Generation.DefaultPort)
	}

	if c.Generation.TimeoutMillis < 0 {
		return fmt.Errorf("generation.timeout_ms cannot be negative, got %d", c.Generation.TimeoutMillis)
	}

	return nil
}

// Timeout returns the per-generation timeout with the config default applied.
func (c *Config) Timeout() int {
	if c.Generation.TimeoutMillis <= 0 {
		return 10000
	}
	return c.Generation.TimeoutMillis
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== ReqSynth Configuration ===")
	fmt.Printf("Project Root:     %s\n", c.Project.RootDir)
	fmt.Printf("Encoding Hints:   %v\n", c.Project.Encoding)
	fmt.Printf("Exclude Dirs:     %v\n", c.Analysis.ExcludeDirs)
	fmt.Printf("Generation:       enabled=%v variables=%v host=%s:%d timeout=%dms\n",
		c.Generation.Enabled, c.Generation.UseVariables,
		c.Generation.DefaultHost, c.Generation.DefaultPort, c.Generation.TimeoutMillis)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Output Formats:   %v\n", c.Output.Formats)
	fmt.Println("==============================")
}
