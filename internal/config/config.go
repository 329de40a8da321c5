// Package config holds the news-collector application configuration:
// AI provider credentials, SMTP settings, fetch limits, and extra RSS feeds.
package config

import (
	"os"

	"github.com/1NY2/news-collector/internal/sources"
	"github.com/1NY2/news-collector/pkg/config"
)

// DefaultPath is where Load looks for the config file unless told otherwise.
const DefaultPath = "news-collector.yml"

// Config is the full application configuration.
type Config struct {
	AI     AIConfig     `yaml:"ai"`
	Email  EmailConfig  `yaml:"email"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Output OutputConfig `yaml:"output"`
	Feeds  []FeedConfig `yaml:"feeds"`
}

// AIConfig configures the analysis backend. The defaults target DashScope's
// compatible mode (Qwen); provider "ollama" switches to a local model and
// needs no API key.
type AIConfig struct {
	Provider string `yaml:"provider" env:"AI_PROVIDER"`
	APIKey   string `yaml:"api_key" env:"AI_API_KEY"`
	BaseURL  string `yaml:"base_url" env:"AI_BASE_URL"`
	Model    string `yaml:"model" env:"AI_MODEL"`
}

// EmailConfig configures SMTP report delivery.
type EmailConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     string `yaml:"port" env:"SMTP_PORT"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	To       string `yaml:"to" env:"EMAIL_TO"`
}

// FetchConfig bounds source fetching.
type FetchConfig struct {
	LimitPerSource int `yaml:"limit_per_source" env:"NEWS_LIMIT_PER_SOURCE"`
}

// OutputConfig locates generated artifacts.
type OutputConfig struct {
	Dir    string `yaml:"dir" env:"OUTPUT_DIR"`
	DBPath string `yaml:"db_path" env:"NEWS_DB"`
}

// FeedConfig declares one extra RSS feed beyond the builtin set.
type FeedConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Disabled    bool   `yaml:"disabled"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		AI: AIConfig{
			Provider: "openai",
			BaseURL:  "https://dashscope.aliyuncs.com/compatible-mode/v1",
			Model:    "qwen-plus",
		},
		Email: EmailConfig{
			Host: "smtp.qq.com",
			Port: "465",
		},
		Fetch:  FetchConfig{LimitPerSource: sources.DefaultLimit},
		Output: OutputConfig{Dir: "output", DBPath: "news-collector.db"},
	}
}

// Load reads the config file at path (missing file is fine, defaults apply)
// and layers env overrides on top. DASHSCOPE_API_KEY doubles as the AI key
// for DashScope users.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	if err := config.LoadOrDefault(path, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("DASHSCOPE_API_KEY")
	}
	if cfg.Fetch.LimitPerSource <= 0 {
		cfg.Fetch.LimitPerSource = sources.DefaultLimit
	}
	return cfg, nil
}

// Validate returns the config keys the analysis pipeline needs but which are
// unset. Local Ollama models need no API key.
func (c Config) Validate() []string {
	var missing []string
	if c.AI.Provider != "ollama" && c.AI.APIKey == "" {
		missing = append(missing, "AI_API_KEY (或 DASHSCOPE_API_KEY)")
	}
	return missing
}

// ValidateEmail returns the unset keys required for email delivery.
func (c Config) ValidateEmail() []string {
	var missing []string
	if c.Email.User == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.Email.Password == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if c.Email.To == "" {
		missing = append(missing, "EMAIL_TO")
	}
	return missing
}

// FeedSpecs converts configured feeds to registry specs.
func (c Config) FeedSpecs() []sources.FeedSpec {
	specs := make([]sources.FeedSpec, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		specs = append(specs, sources.FeedSpec{
			Name:        f.Name,
			Description: f.Description,
			URL:         f.URL,
			Enabled:     !f.Disabled,
		})
	}
	return specs
}
