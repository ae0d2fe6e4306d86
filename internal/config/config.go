// Package config loads and validates process configuration for aeoaudit,
// following the same viper-based load/defaults/env-override shape as the
// teacher crawler this module grew out of.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Fetcher       FetcherConfig              `mapstructure:"fetcher"`
	Domain        DomainConfig               `mapstructure:"domain"`
	Job           JobConfig                  `mapstructure:"job"`
	LLMClients    map[string]LLMClientConfig `mapstructure:"llm_clients"`
	Logging       LoggingConfig              `mapstructure:"logging"`
	Authoritative AuthorityConfig            `mapstructure:"authority"`
	Weights       ContentTypeWeights         `mapstructure:"-"`
}

// FetcherConfig controls Adaptive Fetcher mode selection (spec §4.A, §6).
type FetcherConfig struct {
	Mode                string        `mapstructure:"mode"` // hybrid | http | rendered
	RenderRequiredHosts []string      `mapstructure:"render_required_hosts"`
	HTTPTimeout         time.Duration `mapstructure:"http_timeout"`
	RenderTimeout       time.Duration `mapstructure:"render_timeout"`
	UserAgent           string        `mapstructure:"user_agent"`
	MaxRetries          int           `mapstructure:"max_retries"`
}

// DomainConfig controls the Domain Orchestrator (spec §4.G, §6).
type DomainConfig struct {
	MaxPages    int `mapstructure:"max_pages"`
	Concurrency int `mapstructure:"concurrency"`
}

// JobConfig controls JobState retention (spec §4.H, §6).
type JobConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// LLMClientConfig names an optional AI-citation engine (spec §6).
type LLMClientConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	Credential string `mapstructure:"credential"`
}

// LoggingConfig controls the process-wide zerolog logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

// AuthorityConfig lists the built-in authoritative-domain data (spec §4.E
// Authority, read-only after process init per spec §5).
type AuthorityConfig struct {
	TLDs    []string `mapstructure:"tlds"`
	Domains []string `mapstructure:"domains"`
}

// ContentTypeWeights is the reweighting matrix from spec §4.E, carried on
// Config so scoring reads it from one place. Load always fills it with
// DefaultContentTypeWeights; it is not read from the config file or the
// environment.
type ContentTypeWeights map[string]map[string]float64

const (
	DomainMaxPagesHardCeiling = 1000
	DomainConcurrencyHardCap  = 10
)

var loaded *Config

// Load reads configuration from file, environment, and defaults. Config
// file absence is not an error; it is not required.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.aeoaudit")
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Weights = DefaultContentTypeWeights()
	if len(cfg.Authoritative.TLDs) == 0 {
		cfg.Authoritative.TLDs = []string{".gov", ".edu"}
	}
	if len(cfg.Authoritative.Domains) == 0 {
		cfg.Authoritative.Domains = defaultAuthoritativeDomains()
	}
	if len(cfg.Fetcher.RenderRequiredHosts) == 0 {
		cfg.Fetcher.RenderRequiredHosts = defaultRenderRequiredHosts()
	}

	loaded = &cfg
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetcher.mode", "hybrid")
	v.SetDefault("fetcher.http_timeout", "10s")
	v.SetDefault("fetcher.render_timeout", "30s")
	v.SetDefault("fetcher.user_agent", "AEOAuditBot/1.0 (+https://example.invalid/bot)")
	v.SetDefault("fetcher.max_retries", 3)

	v.SetDefault("domain.max_pages", 100)
	v.SetDefault("domain.concurrency", 3)

	v.SetDefault("job.ttl_seconds", 3600)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("AEOAUDIT")
	v.AutomaticEnv()
}

// Get returns the most recently loaded configuration, loading defaults if
// none has been loaded yet.
func Get() *Config {
	if loaded == nil {
		cfg, err := Load("")
		if err != nil {
			cfg = &Config{Weights: DefaultContentTypeWeights()}
		}
		return cfg
	}
	return loaded
}

// Validate checks invariants that, if violated, make the configuration
// unsafe to run with (spec §6 bounds).
func (c *Config) Validate() error {
	switch c.Fetcher.Mode {
	case "hybrid", "http", "rendered":
	default:
		return fmt.Errorf("fetcher.mode must be one of hybrid|http|rendered, got %q", c.Fetcher.Mode)
	}

	if c.Domain.MaxPages < 0 || c.Domain.MaxPages > DomainMaxPagesHardCeiling {
		return fmt.Errorf("domain.max_pages must be within [0, %d]", DomainMaxPagesHardCeiling)
	}
	if c.Domain.Concurrency < 1 || c.Domain.Concurrency > DomainConcurrencyHardCap {
		return fmt.Errorf("domain.concurrency must be within [1, %d]", DomainConcurrencyHardCap)
	}
	if c.Job.TTLSeconds <= 0 {
		return fmt.Errorf("job.ttl_seconds must be positive")
	}

	if len(c.LLMClients) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no llm_clients configured. AI-citation scoring will be disabled.")
	}

	return nil
}

// EffectiveMaxPages clamps a requested max_pages against the hard ceiling
// and the "0 = unlimited" convention (spec §4.G, §8 boundary behavior).
func (c *Config) EffectiveMaxPages(requested int) int {
	if requested <= 0 {
		return DomainMaxPagesHardCeiling
	}
	if requested > DomainMaxPagesHardCeiling {
		return DomainMaxPagesHardCeiling
	}
	return requested
}

// DefaultContentTypeWeights is the reweighting matrix from spec §4.E.
func DefaultContentTypeWeights() ContentTypeWeights {
	return ContentTypeWeights{
		"informational": {
			"answerability": 1.3, "structured_data": 1.0, "authority": 1.2,
			"content_quality": 1.2, "citationability": 1.2, "technical": 1.0,
		},
		"experiential": {
			"answerability": 0.5, "structured_data": 1.3, "authority": 0.9,
			"content_quality": 1.1, "citationability": 0.6, "technical": 1.0,
		},
		"transactional": {
			"answerability": 0.8, "structured_data": 1.4, "authority": 1.1,
			"content_quality": 0.9, "citationability": 0.7, "technical": 1.2,
		},
		"navigational": {
			"answerability": 0.6, "structured_data": 1.2, "authority": 0.8,
			"content_quality": 0.7, "citationability": 0.5, "technical": 1.3,
		},
	}
}

func defaultAuthoritativeDomains() []string {
	return []string{
		"wikipedia.org", "who.int", "un.org", "nih.gov", "nasa.gov",
	}
}

func defaultRenderRequiredHosts() []string {
	return []string{
		"app.salesforce.com", "web.whatsapp.com", "mail.google.com",
		"docs.google.com", "notion.so", "airtable.com",
	}
}
