package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".pagegen"

// Embedded prompt templates, materialized to the config directory on first
// run so users can edit them.
//
//go:embed .pagegen/analyzer-system-prompt.md
var defaultAnalyzerSystemPrompt string

//go:embed .pagegen/classifier-system-prompt.md
var defaultClassifierSystemPrompt string

//go:embed .pagegen/generator-system-prompt.md
var defaultGeneratorSystemPrompt string

const defaultSettingsYAML = `database: .pagegen/builds.db
agents:
  analyzer:
    model: claude-haiku-4-5
    max_tokens: 1000
    temperature: 0.2
  classifier:
    model: claude-sonnet-4-5
    max_tokens: 2000
    temperature: 0.0
  generator:
    model: claude-sonnet-4-5
    max_tokens: 8000
    temperature: 0.2
images:
  format: png
  scale: 2
  concurrency: 4
`

// AgentSettings configures one model-inference role
type AgentSettings struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	Database string `yaml:"database"`
	Agents   struct {
		Analyzer   AgentSettings `yaml:"analyzer"`
		Classifier AgentSettings `yaml:"classifier"`
		Generator  AgentSettings `yaml:"generator"`
	} `yaml:"agents"`
	Images struct {
		Format      string  `yaml:"format"`
		Scale       float64 `yaml:"scale"`
		Concurrency int     `yaml:"concurrency"`
	} `yaml:"images"`
}

// AgentFor returns the agent settings for a model-inference role
func (s *Settings) AgentFor(role string) AgentSettings {
	switch role {
	case "classifier":
		return s.Agents.Classifier
	case "generator":
		return s.Agents.Generator
	default:
		return s.Agents.Analyzer
	}
}

// defaultSettings returns settings used when no settings file exists
func defaultSettings() *Settings {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettingsYAML), &settings); err != nil {
		// The embedded default is a compile-time constant; a parse failure
		// here is a programming error.
		panic(fmt.Sprintf("parsing embedded default settings: %v", err))
	}
	return &settings
}

// loadSettings loads settings from YAML file with fallback to defaults
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	if settings.Images.Format == "" {
		settings.Images.Format = "png"
	}
	if settings.Images.Scale <= 0 {
		settings.Images.Scale = 2
	}
	if settings.Images.Concurrency <= 0 {
		settings.Images.Concurrency = 4
	}

	return &settings, nil
}

// LoadSiteProfile loads a site profile from a YAML file
func LoadSiteProfile(path string) (*SiteProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site profile %s: %w", path, err)
	}

	var profile SiteProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing site profile YAML: %w", err)
	}

	return &profile, nil
}

// getConfigPath returns the path to a config file in the .pagegen directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// loadPrompt returns a prompt template from the config directory if the user
// materialized and edited one, falling back to the embedded default
func loadPrompt(filename, embedded string) string {
	if content, err := os.ReadFile(getConfigPath(filename)); err == nil {
		return string(content)
	}
	return embedded
}

func analyzerSystemPrompt() string {
	return loadPrompt("analyzer-system-prompt.md", defaultAnalyzerSystemPrompt)
}

func classifierSystemPrompt() string {
	return loadPrompt("classifier-system-prompt.md", defaultClassifierSystemPrompt)
}

func generatorSystemPrompt() string {
	return loadPrompt("generator-system-prompt.md", defaultGeneratorSystemPrompt)
}

// ensureConfigExists creates the config directory and default files if they don't exist
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaults := map[string]string{
		"settings.yaml":               defaultSettingsYAML,
		"analyzer-system-prompt.md":   defaultAnalyzerSystemPrompt,
		"classifier-system-prompt.md": defaultClassifierSystemPrompt,
		"generator-system-prompt.md":  defaultGeneratorSystemPrompt,
	}

	for filename, content := range defaults {
		path := getConfigPath(filename)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", filename, err)
			}
		}
	}

	return nil
}

// Debug logging, enabled with --debug
var debugEnabled bool

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}
