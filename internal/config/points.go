package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PointsConfig carries operator overrides for activity point values.
// An action type missing from the map keeps its built-in default.
type PointsConfig struct {
	Overrides map[string]int `mapstructure:"overrides"`
}

func DefaultPointsConfig() PointsConfig {
	return PointsConfig{Overrides: map[string]int{}}
}

// PointsConfigHolder hot-reloads points.yml so point values can be
// tuned without a restart.
type PointsConfigHolder struct {
	current atomic.Value // holds PointsConfig
}

func NewPointsConfigHolder() (*PointsConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("points")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/apiwiki/config")
	v.AddConfigPath("/etc/apiwiki")
	v.AddConfigPath(".")

	v.SetEnvPrefix("APIWIKI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &PointsConfigHolder{}
	holder.current.Store(DefaultPointsConfig())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No file is fine: defaults apply until one shows up.
		return holder, nil
	}

	if err := holder.load(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := holder.load(v); err != nil {
			log.Printf("points config reload failed: %v", err)
		}
	})
	v.WatchConfig()

	return holder, nil
}

func (h *PointsConfigHolder) load(v *viper.Viper) error {
	cfg := DefaultPointsConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return err
	}
	if cfg.Overrides == nil {
		cfg.Overrides = map[string]int{}
	}
	h.current.Store(cfg)
	return nil
}

// Set replaces the active configuration. Reloads from the watched
// file overwrite it.
func (h *PointsConfigHolder) Set(cfg PointsConfig) {
	if cfg.Overrides == nil {
		cfg.Overrides = map[string]int{}
	}
	h.current.Store(cfg)
}

// Current returns the active points configuration.
func (h *PointsConfigHolder) Current() PointsConfig {
	if h == nil {
		return DefaultPointsConfig()
	}
	return h.current.Load().(PointsConfig)
}

// Override returns the configured value for an action type, if any.
func (h *PointsConfigHolder) Override(actionType string) (int, bool) {
	value, ok := h.Current().Overrides[actionType]
	return value, ok
}
