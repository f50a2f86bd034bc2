package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml"
	internallog "gitlab.com/edge-engine/roqplay/internal/log"
	"gitlab.com/edge-engine/roqplay/internal/sentry"
)

const (
	// EnvPrefix is the prefix of every environment override, e.g.
	// ROQPLAY_LUMP_CACHE_SIZE.
	EnvPrefix = "roqplay"

	defaultLumpCacheSize = 16
	defaultElementSize   = 1
	// the engine runs its tickers at 35 Hz
	defaultTickInterval = time.Second / 35
)

var (
	errInvalidElementSize = errors.New("element_size must be positive")
	errInvalidCacheSize   = errors.New("lump_cache_size must be positive")
)

// Cfg is a container for all config derived from config.toml.
type Cfg struct {
	Archives             []string           `toml:"archives" envconfig:"archives"`
	LumpCacheSize        int                `toml:"lump_cache_size" split_words:"true"`
	ElementSize          int                `toml:"element_size" split_words:"true"`
	TickInterval         Duration           `toml:"tick_interval" split_words:"true"`
	PrometheusListenAddr string             `toml:"prometheus_listen_addr" split_words:"true"`
	Logging              internallog.Config `toml:"logging" envconfig:"logging"`
	Sentry               sentry.Config      `toml:"sentry" envconfig:"sentry"`
}

// Duration is a trick to let our TOML library parse durations from strings.
type Duration time.Duration

// Duration returns the value as a time.Duration.
func (d *Duration) Duration() time.Duration {
	if d != nil {
		return time.Duration(*d)
	}
	return 0
}

func (d *Duration) UnmarshalText(text []byte) error {
	td, err := time.ParseDuration(string(text))
	if err == nil {
		*d = Duration(td)
	}
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Load reads the configuration from file and the environment.
//  Environment variables take precedence over the file. A nil file
//  means the configuration comes from the environment alone.
func Load(file io.Reader) (Cfg, error) {
	var cfg Cfg

	if file != nil {
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return Cfg{}, fmt.Errorf("load toml: %v", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Cfg{}, fmt.Errorf("envconfig: %v", err)
	}

	cfg.setDefaults()

	for i := range cfg.Archives {
		cfg.Archives[i] = filepath.Clean(cfg.Archives[i])
	}

	return cfg, nil
}

// FromFile loads the config for the passed file path
func FromFile(filePath string) (Cfg, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Cfg{}, err
	}
	defer f.Close()

	return Load(f)
}

func (cfg *Cfg) setDefaults() {
	if cfg.LumpCacheSize == 0 {
		cfg.LumpCacheSize = defaultLumpCacheSize
	}

	if cfg.ElementSize == 0 {
		cfg.ElementSize = defaultElementSize
	}

	if cfg.TickInterval.Duration() == 0 {
		cfg.TickInterval = Duration(defaultTickInterval)
	}
}

// Validate checks the configuration for sanity.
func (cfg *Cfg) Validate() error {
	for _, run := range []func() error{
		cfg.validateArchives,
		cfg.validateSizes,
	} {
		if err := run(); err != nil {
			return err
		}
	}

	return nil
}

func (cfg *Cfg) validateArchives() error {
	for _, path := range cfg.Archives {
		fi, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("archive: %v", err)
		}
		if fi.IsDir() {
			return fmt.Errorf("archive %q is a directory", path)
		}
	}

	return nil
}

func (cfg *Cfg) validateSizes() error {
	if cfg.ElementSize < 0 {
		return errInvalidElementSize
	}

	if cfg.LumpCacheSize < 0 {
		return errInvalidCacheSize
	}

	if cfg.TickInterval.Duration() < 0 {
		return fmt.Errorf("tick_interval %s must not be negative", cfg.TickInterval.Duration())
	}

	return nil
}

// ConfigureLogger applies the logging section to the default logger.
func (cfg *Cfg) ConfigureLogger() {
	internallog.Configure(cfg.Logging.Format, cfg.Logging.Level)
}
