package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables that override flags,
// e.g. POLYREPO_LOG_LEVEL.
const EnvPrefix = "POLYREPO"

// Option keys. They double as flag names.
const (
	KeyConfig   = "config"
	KeyLogLevel = "log-level"
)

// DefaultLogLevel is used when neither flag nor environment set a level.
const DefaultLogLevel = "info"

// Options are the runtime settings of one CLI invocation. Precedence:
// explicit flag, then environment variable, then default.
type Options struct {
	// ConfigFile is the project config filename, relative to the
	// working directory unless absolute.
	ConfigFile string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// NewViper returns a viper instance wired to the environment with the
// POLYREPO prefix and defaults for every option.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyConfig, DefaultFileName)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	return v
}

// BindFlags binds the flags named after the option keys so a flag set on
// the command line takes precedence over the environment.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{KeyConfig, KeyLogLevel} {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", key, err)
		}
	}
	return nil
}

// LoadOptions reads the resolved options from v.
func LoadOptions(v *viper.Viper) (Options, error) {
	opts := Options{
		ConfigFile: strings.TrimSpace(v.GetString(KeyConfig)),
		LogLevel:   strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
	}
	if opts.ConfigFile == "" {
		opts.ConfigFile = DefaultFileName
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		opts.LogLevel = DefaultLogLevel
	default:
		return Options{}, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", opts.LogLevel)
	}
	return opts, nil
}
