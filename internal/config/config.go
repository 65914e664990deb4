package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedditConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	UserAgent    string `yaml:"user_agent"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

type CheckConfig struct {
	DefaultSubreddits  []string      `yaml:"default_subreddits"`
	LookbackDays       int           `yaml:"lookback_days"`
	MinTitleSimilarity float64       `yaml:"min_title_similarity"`
	MaxResultsPerQuery int           `yaml:"max_results_per_query"`
	MaxActiveJobs      int           `yaml:"max_active_jobs"`
	FetchInterval      time.Duration `yaml:"fetch_interval"` // min spacing between forum calls
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables the search cache
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Reddit  RedditConfig  `yaml:"reddit"`
	Storage StorageConfig `yaml:"storage"`
	Check   CheckConfig   `yaml:"check"`
	Redis   RedisConfig   `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads an optional YAML file, layers environment overrides on top
// and fills defaults. Every setting has a default, so a missing file and an
// empty environment still yield a working configuration.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Reddit.UserAgent == "" {
		cfg.Reddit.UserAgent = "repost-assistant/1.0"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if len(cfg.Check.DefaultSubreddits) == 0 {
		cfg.Check.DefaultSubreddits = []string{"all"}
	}
	if cfg.Check.LookbackDays <= 0 {
		cfg.Check.LookbackDays = 90
	}
	if cfg.Check.MinTitleSimilarity <= 0 {
		cfg.Check.MinTitleSimilarity = 0.78
	}
	if cfg.Check.MaxResultsPerQuery <= 0 {
		cfg.Check.MaxResultsPerQuery = 50
	}
	if cfg.Check.MaxActiveJobs <= 0 {
		cfg.Check.MaxActiveJobs = 10
	}
	if cfg.Check.FetchInterval <= 0 {
		cfg.Check.FetchInterval = time.Second
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// applyEnv lets deployments without a config file supply credentials and
// operational knobs the way the original service did.
func (c *Config) applyEnv() {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr(&c.Reddit.ClientID, "REDDIT_CLIENT_ID")
	setStr(&c.Reddit.ClientSecret, "REDDIT_CLIENT_SECRET")
	setStr(&c.Reddit.Username, "REDDIT_USERNAME")
	setStr(&c.Reddit.Password, "REDDIT_PASSWORD")
	setStr(&c.Reddit.UserAgent, "REDDIT_USER_AGENT")
	setStr(&c.Storage.DataDir, "DATA_DIR")
	setStr(&c.Redis.URL, "REDIS_URL")

	if v := os.Getenv("DEFAULT_SUBREDDITS"); v != "" {
		var subs []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				subs = append(subs, s)
			}
		}
		c.Check.DefaultSubreddits = subs
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setInt(&c.Check.LookbackDays, "LOOKBACK_DAYS")
	setInt(&c.Check.MaxResultsPerQuery, "MAX_RESULTS_PER_QUERY")
	setInt(&c.Check.MaxActiveJobs, "MAX_ACTIVE_JOBS")
	if v := os.Getenv("MIN_TITLE_SIMILARITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Check.MinTitleSimilarity = f
		}
	}
}
