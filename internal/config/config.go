// Package config loads pocket-styler settings from a YAML file, the
// environment and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/storage"
)

// EnvPrefix prefixes every environment override, e.g. POCKET_STYLER_LOG_MODE.
const EnvPrefix = "POCKET_STYLER"

// DirEnv names the library directory directly.
const DirEnv = "POCKET_STYLER_DIR"

const (
	defaultLibraryDirName = ".pocket-styler"
	defaultUserPackName   = "99_user_custom.json"
)

var idPrefixPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Config is the resolved configuration. Empty path fields are derived from
// LibraryDir by Resolve.
type Config struct {
	LibraryDir     string   `mapstructure:"library_dir" yaml:"library_dir"`
	PacksDir       string   `mapstructure:"packs_dir" yaml:"packs_dir"`
	LegacyFile     string   `mapstructure:"legacy_file" yaml:"legacy_file"`
	UserPack       string   `mapstructure:"user_pack" yaml:"user_pack"`
	PackExtensions []string `mapstructure:"pack_extensions" yaml:"pack_extensions"`
	IDPrefix       string   `mapstructure:"id_prefix" yaml:"id_prefix"`
	DefaultVariant string   `mapstructure:"default_variant" yaml:"default_variant"`
	LogMode        string   `mapstructure:"log_mode" yaml:"log_mode"`
	LogLevel       string   `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultConfig returns the built-in settings with paths left to Resolve.
func DefaultConfig() *Config {
	return &Config{
		PackExtensions: append([]string(nil), storage.DefaultExtensions...),
		IDPrefix:       "user",
		DefaultVariant: string(models.VariantDefault),
		LogMode:        "development",
		LogLevel:       "info",
	}
}

// DefaultLibraryDir is $POCKET_STYLER_DIR, or ~/.pocket-styler.
func DefaultLibraryDir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return expandHome(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, defaultLibraryDirName), nil
}

// Resolve fills derived paths and checks the settings.
func (c *Config) Resolve() error {
	var err error
	if c.LibraryDir == "" {
		if c.LibraryDir, err = DefaultLibraryDir(); err != nil {
			return err
		}
	}
	if c.LibraryDir, err = expandHome(c.LibraryDir); err != nil {
		return err
	}
	if c.PacksDir == "" {
		c.PacksDir = filepath.Join(c.LibraryDir, "styles", "packs")
	}
	if c.LegacyFile == "" {
		c.LegacyFile = filepath.Join(c.LibraryDir, "styles", "styles_v1.json")
	}
	if c.UserPack == "" {
		c.UserPack = filepath.Join(c.PacksDir, defaultUserPackName)
	}
	for _, p := range []*string{&c.PacksDir, &c.LegacyFile, &c.UserPack} {
		if *p, err = expandHome(*p); err != nil {
			return err
		}
	}
	if len(c.PackExtensions) == 0 {
		c.PackExtensions = append([]string(nil), storage.DefaultExtensions...)
	}

	if _, err := models.ParseVariant(c.DefaultVariant); err != nil {
		return fmt.Errorf("invalid default_variant: %w", err)
	}
	if !idPrefixPattern.MatchString(c.IDPrefix) {
		return fmt.Errorf("invalid id_prefix %q: must match %s", c.IDPrefix, idPrefixPattern)
	}
	return nil
}

// WithLibraryDir returns a copy of c rooted at dir, with every derived path
// re-derived from it.
func (c *Config) WithLibraryDir(dir string) (*Config, error) {
	out := *c
	out.PackExtensions = append([]string(nil), c.PackExtensions...)
	out.LibraryDir = dir
	out.PacksDir, out.LegacyFile, out.UserPack = "", "", ""
	if err := out.Resolve(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sources returns the loader sources the config points at.
func (c *Config) Sources() storage.Sources {
	return storage.Sources{
		PacksDir:   c.PacksDir,
		LegacyFile: c.LegacyFile,
		Extensions: c.PackExtensions,
	}
}

// Variant returns the parsed default variant.
func (c *Config) Variant() models.Variant {
	v, err := models.ParseVariant(c.DefaultVariant)
	if err != nil {
		return models.VariantDefault
	}
	return v
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads the initial config. An
// empty cfgFile searches for config.yaml in the working directory and the
// library directory.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{v: viper.New()}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	defaults := DefaultConfig()
	v.SetDefault("library_dir", "")
	v.SetDefault("packs_dir", "")
	v.SetDefault("legacy_file", "")
	v.SetDefault("user_pack", "")
	v.SetDefault("pack_extensions", defaults.PackExtensions)
	v.SetDefault("id_prefix", defaults.IDPrefix)
	v.SetDefault("default_variant", defaults.DefaultVariant)
	v.SetDefault("log_mode", defaults.LogMode)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("library_dir", EnvPrefix+"_LIBRARY_DIR", DirEnv); err != nil {
		return fmt.Errorf("failed to bind library_dir: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := DefaultLibraryDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the config file in use, or "" when running on defaults.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// Reload re-reads the config file and notifies callbacks. A config that no
// longer resolves leaves the current one in place.
func (cm *Manager) Reload() error {
	if cm.v.ConfigFileUsed() != "" {
		if err := cm.v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	cfg, err := cm.load()
	if err != nil {
		return err
	}

	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
	return nil
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(fsnotify.Event) {
		_ = cm.Reload()
	})
	cm.v.WatchConfig()
}

// WriteDefault writes a commented default configuration for libraryDir to path.
func WriteDefault(path, libraryDir string) error {
	cfg := DefaultConfig()
	cfg.LibraryDir = libraryDir
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# pocket-styler configuration
# Empty paths are derived from library_dir. Every key can be overridden with
# a POCKET_STYLER_<KEY> environment variable.

`)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, append(header, data...), 0o644)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
