package statsboard

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const envPrefix = "STATSBOARD"

var DefaultCfgPath string
var defaultLogPath string

func init() {
	switch runtime.GOOS {
	case "windows":
		exPath := "."
		if ex, err := os.Executable(); err == nil {
			exPath = filepath.Dir(ex)
		}
		DefaultCfgPath = filepath.Join(exPath, "./statsboard.conf")
		defaultLogPath = filepath.Join(exPath, "./statsboard.log")
	case "darwin":
		DefaultCfgPath = os.Getenv("HOME") + "/.statsboard/statsboard.conf"
		defaultLogPath = os.Getenv("HOME") + "/.statsboard/statsboard.log"
	default:
		DefaultCfgPath = "/etc/statsboard/statsboard.conf"
		defaultLogPath = "/var/log/statsboard/statsboard.log"
	}
}

type Config struct {
	StatsURL        string  `toml:"stats_url" split_words:"true"`
	RefreshInterval float64 `toml:"refresh_interval" split_words:"true"` // seconds between two dashboard refreshes
	FetchTimeout    float64 `toml:"fetch_timeout" split_words:"true"`    // seconds to wait for the stats endpoint
	Proxy           string  `toml:"proxy" split_words:"true"`

	JitterInterval float64 `toml:"jitter_interval" split_words:"true"` // seconds between two animation changes
	JitterMin      float64 `toml:"jitter_min" split_words:"true"`
	JitterMax      float64 `toml:"jitter_max" split_words:"true"`
	JitterElement  string  `toml:"jitter_element" split_words:"true"`

	HistorySize int    `toml:"history_size" split_words:"true"`
	Listen      string `toml:"listen" split_words:"true"` // empty disables the board http server

	PidFile   string   `toml:"pid" split_words:"true"`
	LogFile   string   `toml:"log" split_words:"true"`
	LogSyslog string   `toml:"log_syslog" split_words:"true"` // "local" or udp://host:514
	LogLevel  LogLevel `toml:"log_level" split_words:"true"`
	StatsFile string   `toml:"stats_file" split_words:"true"`
}

func NewConfig() *Config {
	return &Config{
		StatsURL:        "http://localhost:9200/api/stats",
		RefreshInterval: 2,
		FetchTimeout:    1.5,
		JitterInterval:  2,
		JitterMin:       0.8,
		JitterMax:       1.3,
		JitterElement:   "heart",
		HistorySize:     DefaultHistorySize,
		Listen:          "localhost:9201",
		LogFile:         defaultLogPath,
		LogLevel:        LogLevelInfo,
	}
}

// TryUpdateConfigFromFile applies values from the TOML file on top of cfg
func (cfg *Config) TryUpdateConfigFromFile(configFilePath string) error {
	if _, err := os.Stat(configFilePath); err != nil {
		return err
	}

	_, err := toml.DecodeFile(configFilePath, cfg)
	if err != nil {
		return errors.Wrapf(err, "failed to parse config file '%s'", configFilePath)
	}
	return nil
}

// ApplyEnv overrides values with STATSBOARD_* environment variables
func (cfg *Config) ApplyEnv() error {
	return envconfig.Process(envPrefix, cfg)
}

func (cfg *Config) Validate() error {
	if cfg.StatsURL == "" {
		return newEmptyFieldError("stats_url")
	} else if u, err := url.Parse(cfg.StatsURL); err != nil {
		return newFieldError("stats_url", errors.WithStack(err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		err := errors.Errorf("wrong scheme '%s', URL must start with http:// or https://", u.Scheme)
		return newFieldError("stats_url", err)
	}

	if cfg.RefreshInterval <= 0 {
		return newFieldError("refresh_interval", errors.New("must be greater than 0"))
	}
	if cfg.JitterInterval <= 0 {
		return newFieldError("jitter_interval", errors.New("must be greater than 0"))
	}
	if cfg.JitterMin < 0 || cfg.JitterMin >= cfg.JitterMax {
		return newFieldError("jitter_min", errors.Errorf("must be in [0, jitter_max(%g))", cfg.JitterMax))
	}
	if cfg.JitterElement == "" {
		return newEmptyFieldError("jitter_element")
	}
	if cfg.HistorySize <= 0 {
		return newFieldError("history_size", errors.New("must be greater than 0"))
	}

	if cfg.Proxy != "" {
		if !strings.HasPrefix(cfg.Proxy, "http") {
			cfg.Proxy = "http://" + cfg.Proxy
		}
		if _, err := url.Parse(cfg.Proxy); err != nil {
			return newFieldError("proxy", errors.WithStack(err))
		}
	}

	return nil
}

// HandleAllConfigSetup prepares config for the board
// - it reads the config file, creating a default one when it is missing
// - applies environment overrides
// - validates the result
func HandleAllConfigSetup(configFilePath string) (*Config, error) {
	cfg := NewConfig()

	err := cfg.TryUpdateConfigFromFile(configFilePath)
	if os.IsNotExist(errors.Cause(err)) {
		if err = CreateDefaultConfigFile(configFilePath); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err = cfg.ApplyEnv(); err != nil {
		return nil, errors.Wrap(err, "failed to apply environment overrides")
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CreateDefaultConfigFile writes the default config as TOML to configFilePath
func CreateDefaultConfigFile(configFilePath string) error {
	dir := filepath.Dir(configFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logrus.WithError(err).Errorf("Failed to create the config dir: '%s'", dir)
	}

	f, err := os.OpenFile(configFilePath, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to create the default config file: '%s'", configFilePath)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(NewConfig())
}

// DumpConfigToml returns the active config encoded as TOML
func (cfg *Config) DumpConfigToml() string {
	buff := &strings.Builder{}
	if err := toml.NewEncoder(buff).Encode(cfg); err != nil {
		logrus.WithError(err).Errorln("Failed to encode config to TOML")
	}
	return buff.String()
}

func secToDuration(secs float64) time.Duration {
	return time.Duration(int64(float64(time.Second) * secs))
}
