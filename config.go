package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pdf_assembler/pdf"
)

const (
	// DefaultMaxFileSize is the default maximum upload size (10MB)
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultPort is the default server port
	DefaultPort = "8080"

	envPrefix = "PDF_ASSEMBLER"
)

// appConfig is the runtime configuration shared by the interactive editor
// and the HTTP server.
type appConfig struct {
	Port           string        `mapstructure:"port" validate:"required,numeric"`
	MaxFileSize    int64         `mapstructure:"max-file-size" validate:"gt=0"`
	TempDir        string        `mapstructure:"temp-dir" validate:"required"`
	Workers        int           `mapstructure:"workers" validate:"min=1,max=64"`
	OptimizeOnSave bool          `mapstructure:"optimize-on-save"`
	ViewerTimeout  time.Duration `mapstructure:"viewer-timeout" validate:"gt=0"`
	LogLevel       string        `mapstructure:"log-level" validate:"omitempty,oneof=trace debug info warn warning error"`
	LogFormat      string        `mapstructure:"log-format" validate:"oneof=text json"`
	ConfigPath     string        `mapstructure:"-"` // not from config file
}

// loadConfig reads defaults, the config file, PDF_ASSEMBLER_* variables and
// flags, in increasing order of precedence.
func loadConfig(configPath string, flags *pflag.FlagSet) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("port", DefaultPort)
	v.SetDefault("max-file-size", DefaultMaxFileSize)
	v.SetDefault("temp-dir", filepath.Join(os.TempDir(), "pdf_assembler"))
	v.SetDefault("workers", pdf.DefaultWorkers)
	v.SetDefault("optimize-on-save", false)
	v.SetDefault("viewer-timeout", pdf.DefaultViewerTimeout)
	v.SetDefault("log-level", "")
	v.SetDefault("log-format", "text")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return cfg, fmt.Errorf("binding flags: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".config", "pdf_assembler", "config.yml"))
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
