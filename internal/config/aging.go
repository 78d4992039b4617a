package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AgingConfig holds the tunable pieces of the aging and scoring rules.
// Bucket boundaries themselves are fixed business rules; what varies by
// deployment is the scoring weights and risk thresholds.
type AgingConfig struct {
	Score ScoreConfig `mapstructure:"score"`
	Risk  RiskConfig  `mapstructure:"risk"`
}

type ScoreConfig struct {
	Base90Plus  int `mapstructure:"base90Plus"`
	Base61To90  int `mapstructure:"base61To90"`
	Base31To60  int `mapstructure:"base31To60"`
	Base1To30   int `mapstructure:"base1To30"`
	LargeBonus  int `mapstructure:"largeBonus"`
	DisputeCut  int `mapstructure:"disputeCut"`
	SegmentBump int `mapstructure:"segmentBump"`

	// Balances strictly above this amount earn LargeBonus.
	LargeBalanceFloor float64 `mapstructure:"largeBalanceFloor"`
}

type RiskConfig struct {
	// Total AR above creditLimit * MediumUtilization is Medium Risk.
	MediumUtilization float64 `mapstructure:"mediumUtilization"`
}

func DefaultAgingConfig() AgingConfig {
	return AgingConfig{
		Score: ScoreConfig{
			Base90Plus:        100,
			Base61To90:        75,
			Base31To60:        50,
			Base1To30:         25,
			LargeBonus:        20,
			DisputeCut:        30,
			SegmentBump:       10,
			LargeBalanceFloor: 10000,
		},
		Risk: RiskConfig{
			MediumUtilization: 0.8,
		},
	}
}

// AgingConfigHolder exposes the current aging rules and swaps them
// atomically when the config file changes on disk.
type AgingConfigHolder struct {
	current atomic.Value // holds AgingConfig
}

func NewAgingConfigHolder() (*AgingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("aging")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/ar-engine")
	v.AddConfigPath(".")

	v.SetEnvPrefix("AR_ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultAgingConfig()
	v.SetDefault("aging.score", defaults.Score)
	v.SetDefault("aging.risk", defaults.Risk)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg AgingConfig
	if err := v.UnmarshalKey("aging", &cfg); err != nil {
		return nil, err
	}
	if err := validateAgingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &AgingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated AgingConfig
		if err := v.UnmarshalKey("aging", &updated); err != nil {
			zap.L().Warn("aging rules reload failed", zap.Error(err))
			return
		}
		if err := validateAgingConfig(updated); err != nil {
			zap.L().Warn("aging rules ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		zap.L().Info("aging rules reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *AgingConfigHolder) Get() AgingConfig {
	return h.current.Load().(AgingConfig)
}

// StaticAgingConfig wraps a fixed config, for tests and one-shot runs.
func StaticAgingConfig(cfg AgingConfig) *AgingConfigHolder {
	holder := &AgingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateAgingConfig(cfg AgingConfig) error {
	if cfg.Score.LargeBalanceFloor < 0 {
		return errors.New("aging.score.largeBalanceFloor cannot be negative")
	}
	if cfg.Risk.MediumUtilization <= 0 {
		return errors.New("aging.risk.mediumUtilization must be positive")
	}
	return nil
}
