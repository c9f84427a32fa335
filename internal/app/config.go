package app

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/archive"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/cache"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/skinconfig"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/watcher"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/logger"
)

// ConfigName is the base name of the optional config file in the home directory.
const ConfigName = ".skinamp"

// EnvPrefix prefixes environment overrides, e.g. SKINAMP_CACHE_BUDGET_BYTES.
const EnvPrefix = "SKINAMP"

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string `mapstructure:"app_id"`

	// AppName is the display name
	AppName string `mapstructure:"app_name"`

	// CacheBudgetBytes bounds the decoded skin cache
	CacheBudgetBytes int64 `mapstructure:"cache_budget_bytes"`

	// ColorKey is the transparent color of skin bitmaps, as #RRGGBB
	ColorKey string `mapstructure:"color_key"`

	// AllowPalettedBitmaps enables 1, 4 and 8 bit sheets
	AllowPalettedBitmaps bool `mapstructure:"allow_paletted_bitmaps"`

	// Archive limits
	MaxEntryBytes int64 `mapstructure:"max_entry_bytes"`
	MaxEntries    int   `mapstructure:"max_entries"`

	// WatchSkins reloads the current skin when its file changes
	WatchSkins    bool          `mapstructure:"watch_skins"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// SkinDirectory is where skins are browsed from by default
	SkinDirectory string `mapstructure:"skin_directory"`

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App `mapstructure:"-"`
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	limits := archive.DefaultOptions()

	skinDir := filepath.Join("~", ConfigName, "skins")
	if home, err := homedir.Dir(); err == nil {
		skinDir = filepath.Join(home, ConfigName, "skins")
	}

	return Config{
		AppID:                "com.skinamp.app",
		AppName:              "Skinamp",
		CacheBudgetBytes:     cache.DefaultBudgetBytes,
		ColorKey:             "#FF00FF",
		AllowPalettedBitmaps: true,
		MaxEntryBytes:        limits.MaxEntryBytes,
		MaxEntries:           limits.MaxEntries,
		WatchSkins:           false,
		WatchDebounce:        watcher.DefaultDebounce,
		LogLevel:             "info",
		LogFormat:            "text",
		SkinDirectory:        skinDir,
	}
}

// LoadConfig layers DefaultConfig, the config file and SKINAMP_* environment
// variables. With an empty file, $HOME/.skinamp.yaml is read if it exists.
func LoadConfig(file string) (Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	defaults := map[string]any{
		"app_id":                 cfg.AppID,
		"app_name":               cfg.AppName,
		"cache_budget_bytes":     cfg.CacheBudgetBytes,
		"color_key":              cfg.ColorKey,
		"allow_paletted_bitmaps": cfg.AllowPalettedBitmaps,
		"max_entry_bytes":        cfg.MaxEntryBytes,
		"max_entries":            cfg.MaxEntries,
		"watch_skins":            cfg.WatchSkins,
		"watch_debounce":         cfg.WatchDebounce,
		"log_level":              cfg.LogLevel,
		"log_format":             cfg.LogFormat,
		"skin_directory":         cfg.SkinDirectory,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return cfg, fmt.Errorf("failed to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dir, err := homedir.Expand(cfg.SkinDirectory)
	if err != nil {
		return cfg, fmt.Errorf("invalid skin directory %q: %w", cfg.SkinDirectory, err)
	}
	cfg.SkinDirectory = dir

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error

	if _, err := skinconfig.ParseColor(c.ColorKey); err != nil {
		errs = append(errs, fmt.Errorf("invalid color_key %q: %w", c.ColorKey, err))
	}
	if c.CacheBudgetBytes <= 0 {
		errs = append(errs, fmt.Errorf("cache_budget_bytes must be positive, got %d", c.CacheBudgetBytes))
	}
	if c.MaxEntryBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_entry_bytes must be positive, got %d", c.MaxEntryBytes))
	}
	if c.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("max_entries must be positive, got %d", c.MaxEntries))
	}
	if c.WatchDebounce < 0 {
		errs = append(errs, fmt.Errorf("watch_debounce must not be negative, got %s", c.WatchDebounce))
	}

	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	found := false
	for _, level := range validLevels {
		if strings.EqualFold(c.LogLevel, level) {
			found = true
			break
		}
	}
	if !found {
		errs = append(errs, fmt.Errorf("invalid log_level: %s", c.LogLevel))
	}

	if !strings.EqualFold(c.LogFormat, "text") && !strings.EqualFold(c.LogFormat, "json") {
		errs = append(errs, fmt.Errorf("invalid log_format: %s", c.LogFormat))
	}

	return errors.Join(errs...)
}

// ColorKeyNRGBA returns the parsed color key, or domain.DefaultColorKey if it is invalid.
func (c Config) ColorKeyNRGBA() color.NRGBA {
	key, err := skinconfig.ParseColor(c.ColorKey)
	if err != nil {
		return domain.DefaultColorKey
	}
	return key
}

// LoggerConfig maps the logging fields onto logger.Config.
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  logger.ParseLevel(c.LogLevel, slog.LevelInfo),
		Format: c.LogFormat,
	}
}

// ArchiveOptions maps the archive limits onto archive.Options.
func (c Config) ArchiveOptions() archive.Options {
	return archive.Options{
		MaxEntryBytes: c.MaxEntryBytes,
		MaxEntries:    c.MaxEntries,
	}
}
