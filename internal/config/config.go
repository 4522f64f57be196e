package config

import "time"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ProviderConfig is one OpenAI-compatible endpoint in the enrichment cascade.
type ProviderConfig struct {
	Name    string `mapstructure:"name"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// AIConfig lists providers in the order they are tried.
type AIConfig struct {
	Providers         []ProviderConfig `mapstructure:"providers"`
	Timeout           time.Duration    `mapstructure:"timeout"`
	RequestsPerMinute int              `mapstructure:"requests_per_minute"`
}

// CloudflareConfig controls the Browser Rendering scraper.
type CloudflareConfig struct {
	AccountID string        `mapstructure:"account_id"`
	APIToken  string        `mapstructure:"api_token"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DedupConfig tunes duplicate detection.
type DedupConfig struct {
	CandidateThreshold float64       `mapstructure:"candidate_threshold"`
	ScanThreshold      float64       `mapstructure:"scan_threshold"`
	RegistrableDomains bool          `mapstructure:"registrable_domains"`
	AutoMerge          bool          `mapstructure:"auto_merge"`
	SweepInterval      time.Duration `mapstructure:"sweep_interval"`
}

// RefreshConfig drives the scheduled re-enrichment of stale outlets.
type RefreshConfig struct {
	Schedule   string        `mapstructure:"schedule"` // cron expression
	StaleAfter time.Duration `mapstructure:"stale_after"`
	BatchSize  int           `mapstructure:"batch_size"`
}

type PersistConfig struct {
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type LogosConfig struct {
	Dir     string `mapstructure:"dir"`
	Quality int    `mapstructure:"quality"`
	Size    int    `mapstructure:"size"`
}

type SeedConfig struct {
	Dir string `mapstructure:"dir"`
}

type ReportConfig struct {
	Title     string `mapstructure:"title"` // supports {.CurrentDate}
	OutputDir string `mapstructure:"output_dir"`
	TopN      int    `mapstructure:"top_n"`
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Redis      RedisConfig      `mapstructure:"redis"`
	AI         AIConfig         `mapstructure:"ai"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	Dedup      DedupConfig      `mapstructure:"dedup"`
	Refresh    RefreshConfig    `mapstructure:"refresh"`
	Persist    PersistConfig    `mapstructure:"persist"`
	Logos      LogosConfig      `mapstructure:"logos"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Report     ReportConfig     `mapstructure:"report"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "freepress:"
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 120 * time.Second
	}
	if c.AI.RequestsPerMinute == 0 {
		c.AI.RequestsPerMinute = 20
	}
	for i := range c.AI.Providers {
		p := &c.AI.Providers[i]
		if p.Name == "" {
			p.Name = "openai"
		}
		if p.Model == "" {
			p.Model = "gpt-4o-mini"
		}
	}
	if c.Cloudflare.Timeout == 0 {
		c.Cloudflare.Timeout = 60 * time.Second
	}
	if c.Dedup.CandidateThreshold == 0 {
		c.Dedup.CandidateThreshold = 0.85
	}
	if c.Dedup.ScanThreshold == 0 {
		c.Dedup.ScanThreshold = 0.80
	}
	if c.Dedup.SweepInterval == 0 {
		c.Dedup.SweepInterval = 6 * time.Hour
	}
	if c.Refresh.Schedule == "" {
		c.Refresh.Schedule = "0 3 * * *"
	}
	if c.Refresh.StaleAfter == 0 {
		c.Refresh.StaleAfter = 30 * 24 * time.Hour
	}
	if c.Refresh.BatchSize == 0 {
		c.Refresh.BatchSize = 10
	}
	if c.Persist.FlushInterval == 0 {
		c.Persist.FlushInterval = 5 * time.Second
	}
	if c.Logos.Dir == "" {
		c.Logos.Dir = "./logos"
	}
	if c.Logos.Quality == 0 {
		c.Logos.Quality = 85
	}
	if c.Logos.Size == 0 {
		c.Logos.Size = 128
	}
	if c.Seed.Dir == "" {
		c.Seed.Dir = "./seed"
	}
	if c.Report.Title == "" {
		c.Report.Title = "Free Press Scoreboard {.CurrentDate}"
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "./out"
	}
	if c.Report.TopN == 0 {
		c.Report.TopN = 25
	}
}
