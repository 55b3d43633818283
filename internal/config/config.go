package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/spatail/vbdplayer/internal/platform"
)

type Config struct {
	Debug bool `mapstructure:"debug"`

	Site struct {
		BaseURL   string `mapstructure:"base_url"`
		Timeout   int    `mapstructure:"timeout"`
		Retries   int    `mapstructure:"retries"`
		UserAgent string `mapstructure:"user_agent"`
		RateLimit struct {
			RequestsPerSecond int `mapstructure:"requests_per_second"`
			BurstSize         int `mapstructure:"burst_size"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"site"`

	Audio struct {
		SampleRate         int     `mapstructure:"sample_rate"`
		DefaultVolume      float64 `mapstructure:"default_volume"`
		PositionIntervalMs int     `mapstructure:"position_interval_ms"`
	} `mapstructure:"audio"`

	Progress struct {
		QueueCapacity int `mapstructure:"queue_capacity"`
		ThrottleMs    int `mapstructure:"throttle_ms"`
	} `mapstructure:"progress"`

	Fetch struct {
		// DiscardStale drops results of requests superseded on the same list.
		DiscardStale     bool `mapstructure:"discard_stale"`
		CancelSuperseded bool `mapstructure:"cancel_superseded"`
	} `mapstructure:"fetch"`

	Cache struct {
		CoverEntries int `mapstructure:"cover_entries"`
	} `mapstructure:"cache"`

	UI struct {
		Theme        string `mapstructure:"theme"`
		WindowWidth  int    `mapstructure:"window_width"`
		WindowHeight int    `mapstructure:"window_height"`
		Letters      string `mapstructure:"letters"`
	} `mapstructure:"ui"`

	Search struct {
		Fuzzy bool `mapstructure:"fuzzy"`
	} `mapstructure:"search"`
}

// Load reads config.yaml from configPath, or from the platform config
// directory, ./configs and . when configPath is empty. A missing file is not
// an error; defaults and VBD_* environment variables still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		configDir, err := platform.GetConfigDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(configDir)
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("VBD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	normalize(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	normalize(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("site.base_url", "http://vibrationsofdoom.com/test/")
	v.SetDefault("site.timeout", 30)
	v.SetDefault("site.retries", 0)
	v.SetDefault("site.user_agent", "VBDPlayer/1.0")
	v.SetDefault("site.rate_limit.requests_per_second", 10)
	v.SetDefault("site.rate_limit.burst_size", 5)

	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.default_volume", 0.7)
	v.SetDefault("audio.position_interval_ms", 100)

	v.SetDefault("progress.queue_capacity", 30)
	v.SetDefault("progress.throttle_ms", 1000)

	v.SetDefault("fetch.discard_stale", false)
	v.SetDefault("fetch.cancel_superseded", false)

	v.SetDefault("cache.cover_entries", 64)

	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.window_width", 600)
	v.SetDefault("ui.window_height", 400)
	v.SetDefault("ui.letters", "abcdefghijklmnopqrstuvwxyz")

	v.SetDefault("search.fuzzy", true)
}

func normalize(cfg *Config) {
	if cfg.Progress.QueueCapacity <= 0 {
		cfg.Progress.QueueCapacity = 30
	}
	if cfg.Progress.ThrottleMs <= 0 {
		cfg.Progress.ThrottleMs = 1000
	}
	if cfg.Audio.PositionIntervalMs <= 0 {
		cfg.Audio.PositionIntervalMs = 100
	}
	if cfg.Site.Retries < 0 {
		cfg.Site.Retries = 0
	}
	if cfg.Site.RateLimit.BurstSize <= 0 {
		cfg.Site.RateLimit.BurstSize = 1
	}
	if cfg.Audio.DefaultVolume < 0 {
		cfg.Audio.DefaultVolume = 0
	}
	if cfg.Audio.DefaultVolume > 1 {
		cfg.Audio.DefaultVolume = 1
	}
}

func (c *Config) SiteTimeout() time.Duration {
	return time.Duration(c.Site.Timeout) * time.Second
}

func (c *Config) ThrottleInterval() time.Duration {
	return time.Duration(c.Progress.ThrottleMs) * time.Millisecond
}

func (c *Config) PositionInterval() time.Duration {
	return time.Duration(c.Audio.PositionIntervalMs) * time.Millisecond
}
