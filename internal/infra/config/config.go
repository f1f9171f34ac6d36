package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds everything that changes how charts are produced or delivered.
// The benchmark data itself is not configurable.
type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	DPI     int    `mapstructure:"dpi"`
	Backend string `mapstructure:"backend"` // gg or plot
}

type LogConfig struct {
	Dir string `mapstructure:"dir"`
}

// TelegramConfig is only needed by the publish command.
type TelegramConfig struct {
	BotToken   string `mapstructure:"bot_token"`
	ChatID     string `mapstructure:"chat_id"`
	MaxRetries int    `mapstructure:"max_retries"`
}

const (
	MinDPI = 36
	MaxDPI = 1200

	envPrefix = "BENCH_GRAPHS"
)

// ErrTelegramNotConfigured is returned by RequireTelegram.
var ErrTelegramNotConfigured = errors.New("telegram is not configured")

var backends = []string{"gg", "plot"}

// LoadConfig resolves configuration in this order, later sources winning:
// 1. defaults
// 2. config.yaml in the working directory
// 3. .env file
// 4. environment (BENCH_GRAPHS_* and the short aliases)
// 5. flags that were set on the command line
// flags may be nil.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Output
	v.SetDefault("output.dir", "graphs")
	v.SetDefault("output.dpi", 300)
	v.SetDefault("output.backend", "gg")

	// Log
	v.SetDefault("log.dir", "logs")

	// Telegram
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
}

func setupEnvAliases(v *viper.Viper) {
	// BindEnv replaces the prefixed name, so both spellings are listed.
	v.BindEnv("output.dir", envPrefix+"_OUTPUT_DIR", "OUTPUT_DIR")
	v.BindEnv("telegram.bot_token", envPrefix+"_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", envPrefix+"_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"output-dir": "output.dir",
	"dpi":        "output.dpi",
	"backend":    "output.backend",
	"log-dir":    "log.dir",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if cfg.Output.DPI < MinDPI || cfg.Output.DPI > MaxDPI {
		return fmt.Errorf("output.dpi %d is out of range [%d, %d]", cfg.Output.DPI, MinDPI, MaxDPI)
	}
	cfg.Output.Backend = strings.ToLower(strings.TrimSpace(cfg.Output.Backend))
	if !knownBackend(cfg.Output.Backend) {
		return fmt.Errorf("output.backend %q is not one of %v", cfg.Output.Backend, backends)
	}
	if cfg.Telegram.MaxRetries < 0 {
		return fmt.Errorf("telegram.max_retries must not be negative")
	}
	return nil
}

func knownBackend(name string) bool {
	for _, b := range backends {
		if b == name {
			return true
		}
	}
	return false
}

// RequireTelegram checks the settings the publish command cannot run without.
func (c *Config) RequireTelegram() error {
	var missing []string
	if c.Telegram.BotToken == "" {
		missing = append(missing, "telegram.bot_token (env: TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.ChatID == "" {
		missing = append(missing, "telegram.chat_id (env: TELEGRAM_CHAT_ID)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrTelegramNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}
