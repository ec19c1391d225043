package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"ev-dashboard/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. EVDASH_ADDR.
const EnvPrefix = "EVDASH"

// Global configuration structure.
type Global struct {
	Source         string `mapstructure:"source" yaml:"source"`
	Addr           string `mapstructure:"addr" yaml:"addr"`
	DBDriver       string `mapstructure:"db_driver" yaml:"db_driver"`
	DBDSN          string `mapstructure:"db_dsn" yaml:"db_dsn"`
	CacheSize      int    `mapstructure:"cache_size" yaml:"cache_size"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	WSPingInterval string `mapstructure:"ws_ping_interval" yaml:"ws_ping_interval"`

	// Charts
	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`
	ChartTopN   int `mapstructure:"chart_top_n" yaml:"chart_top_n"`

	ExportDir      string `mapstructure:"export_dir" yaml:"export_dir"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
}

var defaults = map[string]interface{}{
	"source":           "ev_data.csv",
	"addr":             ":8080",
	"db_driver":        "sqlite3",
	"db_dsn":           "evdash.db",
	"cache_size":       128,
	"http_timeout_sec": 30,
	"ws_ping_interval": "30s",
	"chart_width":      800,
	"chart_height":     400,
	"chart_top_n":      10,
	"export_dir":       "exports",
	"metrics_enabled":  true,
}

// Keys lists every configuration key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HTTPTimeout bounds fetching a remote dataset.
func (c *Global) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// PingInterval is the websocket keepalive period.
func (c *Global) PingInterval() time.Duration {
	return utils.ParseDuration(c.WSPingInterval, 30*time.Second)
}

// Get returns the value of key as text.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "source":
		return c.Source, nil
	case "addr":
		return c.Addr, nil
	case "db_driver":
		return c.DBDriver, nil
	case "db_dsn":
		return c.DBDSN, nil
	case "cache_size":
		return strconv.Itoa(c.CacheSize), nil
	case "http_timeout_sec":
		return strconv.Itoa(c.HTTPTimeoutSec), nil
	case "ws_ping_interval":
		return c.WSPingInterval, nil
	case "chart_width":
		return strconv.Itoa(c.ChartWidth), nil
	case "chart_height":
		return strconv.Itoa(c.ChartHeight), nil
	case "chart_top_n":
		return strconv.Itoa(c.ChartTopN), nil
	case "export_dir":
		return c.ExportDir, nil
	case "metrics_enabled":
		return strconv.FormatBool(c.MetricsEnabled), nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set parses value and assigns it to key.
func (c *Global) Set(key, value string) error {
	atoi := func(dst *int) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	switch key {
	case "source":
		c.Source = value
	case "addr":
		c.Addr = value
	case "db_driver":
		c.DBDriver = value
	case "db_dsn":
		c.DBDSN = value
	case "cache_size":
		return atoi(&c.CacheSize)
	case "http_timeout_sec":
		return atoi(&c.HTTPTimeoutSec)
	case "ws_ping_interval":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.WSPingInterval = value
	case "chart_width":
		return atoi(&c.ChartWidth)
	case "chart_height":
		return atoi(&c.ChartHeight)
	case "chart_top_n":
		return atoi(&c.ChartTopN)
	case "export_dir":
		c.ExportDir = value
	case "metrics_enabled":
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.MetricsEnabled = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// DefaultPath is ~/.evdash/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".evdash", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.evdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is loaded into the environment first.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".evdash"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// the file is optional, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
