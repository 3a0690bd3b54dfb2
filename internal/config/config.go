package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "STORYTRACE_CONFIG"
	logLevelEnv     = "STORYTRACE_LOG_LEVEL"
	reviewURLEnv    = "STORYTRACE_REVIEW_WEBHOOK_URL"
	reviewTokenEnv  = "STORYTRACE_REVIEW_TOKEN"
	defaultLogLevel = "info"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Rubric  RubricConfig  `yaml:"rubric"`
	Review  ReviewConfig  `yaml:"review"`
	Watch   WatchConfig   `yaml:"watch"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RubricConfig carries the scoring thresholds and governance vocabulary.
type RubricConfig struct {
	HighConfidence   int      `yaml:"highConfidence"`
	MediumConfidence int      `yaml:"mediumConfidence"`
	BorderlineLow    int      `yaml:"borderlineLow"`
	BorderlineHigh   int      `yaml:"borderlineHigh"`
	GovernanceTerms  []string `yaml:"governanceTerms"`
}

// ReviewConfig wires the optional escalation webhook.
type ReviewConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
	Token      string `yaml:"token"`
}

// WatchConfig tunes re-run behavior in watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Load reads YAML configuration (a local .env first, then the explicit path
// or the STORYTRACE_CONFIG fallback) and applies environment overrides.
func Load(path string) Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(reviewURLEnv); v != "" {
		c.Review.WebhookURL = v
	}
	if v := os.Getenv(reviewTokenEnv); v != "" {
		c.Review.Token = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Rubric.HighConfidence > 0 {
		base.Rubric.HighConfidence = override.Rubric.HighConfidence
	}
	if override.Rubric.MediumConfidence > 0 {
		base.Rubric.MediumConfidence = override.Rubric.MediumConfidence
	}
	if override.Rubric.BorderlineLow > 0 {
		base.Rubric.BorderlineLow = override.Rubric.BorderlineLow
	}
	if override.Rubric.BorderlineHigh > 0 {
		base.Rubric.BorderlineHigh = override.Rubric.BorderlineHigh
	}
	if len(override.Rubric.GovernanceTerms) > 0 {
		base.Rubric.GovernanceTerms = override.Rubric.GovernanceTerms
	}

	if override.Review.WebhookURL != "" {
		base.Review.WebhookURL = override.Review.WebhookURL
	}
	if override.Review.Token != "" {
		base.Review.Token = override.Review.Token
	}

	if override.Watch.Debounce > 0 {
		base.Watch.Debounce = override.Watch.Debounce
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: defaultLogLevel},
		Rubric: RubricConfig{
			HighConfidence:   12,
			MediumConfidence: 8,
			BorderlineLow:    8,
			BorderlineHigh:   11,
			GovernanceTerms:  []string{"policy", "governance", "audit", "lineage", "approval"},
		},
		Review: ReviewConfig{},
		Watch:  WatchConfig{Debounce: 500 * time.Millisecond},
	}
}
