// Package config provides configuration loading and management for sbolgraph.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/sbolgraph/export"
	"github.com/c360studio/sbolgraph/graph"
	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/storage"
	"github.com/c360studio/sbolgraph/validation"
	"github.com/c360studio/sbolgraph/watch"
)

// Config represents the complete sbolgraph configuration
type Config struct {
	Validation    ValidationConfig    `yaml:"validation"`
	Serialization SerializationConfig `yaml:"serialization"`
	Namespace     NamespaceConfig     `yaml:"namespace"`
	NATS          NATSConfig          `yaml:"nats"`
	Watch         WatchConfig         `yaml:"watch"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

// ValidationConfig selects the validation rule sets. Unset fields keep
// the value of lower layers.
type ValidationConfig struct {
	// Complete treats unresolved references as errors (default: true)
	Complete *bool `yaml:"complete,omitempty"`
	// Compliant enforces compliant URIs (default: true)
	Compliant *bool `yaml:"compliant,omitempty"`
	// BestPractice enables advisory checks (default: false)
	BestPractice *bool `yaml:"best_practice,omitempty"`
	// FailFast stops at the first failing rule (default: false)
	FailFast *bool `yaml:"fail_fast,omitempty"`
}

// SerializationConfig configures document output
type SerializationConfig struct {
	// Format is the default output format (default: rdfxml)
	Format string `yaml:"format"`
	// Profile selects ontology type assertions (default: sbol)
	Profile string `yaml:"profile"`
	// Prefixes are extra namespace prefixes for Turtle and JSON-LD
	Prefixes map[string]string `yaml:"prefixes,omitempty"`
}

// NamespaceConfig configures identifiers of new documents
type NamespaceConfig struct {
	// Default is the URI prefix for new entities
	Default string `yaml:"default"`
	// Version is the version given to new entities (empty = unversioned)
	Version string `yaml:"version"`
	// External lists URI prefixes whose targets live outside documents
	External []string `yaml:"external,omitempty"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = storage and publishing disabled)
	URL string `yaml:"url"`
	// Bucket is the JetStream KV bucket for documents
	Bucket string `yaml:"bucket"`
	// Subject is the graph ingestion subject
	Subject string `yaml:"subject"`
	// Timeout bounds each NATS operation
	Timeout time.Duration `yaml:"timeout"`
}

// WatchConfig configures the file watcher
type WatchConfig struct {
	// Debounce is how long to collect changes before processing
	Debounce time.Duration `yaml:"debounce"`
	// Patterns select watched files relative to the watched directory
	Patterns []string `yaml:"patterns,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled)
	Addr string `yaml:"addr"`
}

func boolPtr(b bool) *bool { return &b }

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Validation: ValidationConfig{
			Complete:     boolPtr(true),
			Compliant:    boolPtr(true),
			BestPractice: boolPtr(false),
			FailFast:     boolPtr(false),
		},
		Serialization: SerializationConfig{
			Format:  string(export.FormatRDFXML),
			Profile: string(export.ProfileSBOL),
		},
		Namespace: NamespaceConfig{
			Default: "http://example.org/",
			Version: "1.0.0",
		},
		NATS: NATSConfig{
			URL:     "",
			Bucket:  storage.BucketDocuments,
			Subject: graph.GraphIngestSubject,
			Timeout: 10 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: watch.DefaultDebounce,
			Patterns: append([]string(nil), watch.DefaultPatterns...),
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := export.ParseFormat(c.Serialization.Format); err != nil {
		return fmt.Errorf("serialization.format: %w", err)
	}
	if _, ok := export.Profiles[export.Profile(c.Serialization.Profile)]; !ok {
		return fmt.Errorf("serialization.profile %q is not a known profile", c.Serialization.Profile)
	}
	if c.Namespace.Default == "" {
		return fmt.Errorf("namespace.default is required")
	}
	if _, err := identity.New(c.Namespace.Default, c.Namespace.Version, "x"); err != nil {
		return fmt.Errorf("namespace: %w", err)
	}
	if c.NATS.Bucket == "" {
		return fmt.Errorf("nats.bucket is required")
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required")
	}
	if c.NATS.Timeout < 0 {
		return fmt.Errorf("nats.timeout must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	for _, p := range c.Watch.Patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("watch.patterns: invalid pattern %q", p)
		}
	}
	return nil
}

// ValidationOptions converts the validation section to validator options.
func (c *Config) ValidationOptions() validation.Options {
	get := func(b *bool) bool { return b != nil && *b }
	return validation.Options{
		Complete:     get(c.Validation.Complete),
		Compliant:    get(c.Validation.Compliant),
		BestPractice: get(c.Validation.BestPractice),
		FailFast:     get(c.Validation.FailFast),
	}
}

// LoadFromFile loads one configuration layer from a YAML file. Fields the
// file leaves out stay zero; Merge the result onto DefaultConfig.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Validation
	if other.Validation.Complete != nil {
		c.Validation.Complete = boolPtr(*other.Validation.Complete)
	}
	if other.Validation.Compliant != nil {
		c.Validation.Compliant = boolPtr(*other.Validation.Compliant)
	}
	if other.Validation.BestPractice != nil {
		c.Validation.BestPractice = boolPtr(*other.Validation.BestPractice)
	}
	if other.Validation.FailFast != nil {
		c.Validation.FailFast = boolPtr(*other.Validation.FailFast)
	}

	// Serialization
	if other.Serialization.Format != "" {
		c.Serialization.Format = other.Serialization.Format
	}
	if other.Serialization.Profile != "" {
		c.Serialization.Profile = other.Serialization.Profile
	}
	for p, iri := range other.Serialization.Prefixes {
		if c.Serialization.Prefixes == nil {
			c.Serialization.Prefixes = make(map[string]string)
		}
		c.Serialization.Prefixes[p] = iri
	}

	// Namespace
	if other.Namespace.Default != "" {
		c.Namespace.Default = other.Namespace.Default
	}
	if other.Namespace.Version != "" {
		c.Namespace.Version = other.Namespace.Version
	}
	if len(other.Namespace.External) > 0 {
		c.Namespace.External = append([]string(nil), other.Namespace.External...)
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Bucket != "" {
		c.NATS.Bucket = other.NATS.Bucket
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.NATS.Timeout != 0 {
		c.NATS.Timeout = other.NATS.Timeout
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if len(other.Watch.Patterns) > 0 {
		c.Watch.Patterns = append([]string(nil), other.Watch.Patterns...)
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}
