package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"nbkit/internal/errhandling"
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Workloads WorkloadsConfig `mapstructure:"workloads"`
	Errors    ErrorsConfig    `mapstructure:"errors"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Insecure bool          `mapstructure:"insecure"`
}

type WorkloadsConfig struct {
	Dir string `mapstructure:"dir"`
}

type ErrorsConfig struct {
	// Rules are "pattern=response[,response]" in match order.
	Rules    []string      `mapstructure:"rules"`
	MaxTries uint          `mapstructure:"maxtries"`
	Backoff  time.Duration `mapstructure:"backoff"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.insecure", false)
	v.SetDefault("workloads.dir", ".")
	v.SetDefault("errors.rules", []string{
		"OpenError=retry,warn,count,histogram",
		".*=stop",
	})
	v.SetDefault("errors.maxtries", 3)
	v.SetDefault("errors.backoff", 500*time.Millisecond)
}

// Load reads v into a Config after applying defaults, and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("config: http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.Errors.MaxTries == 0 {
		return fmt.Errorf("config: errors.maxtries must be at least 1")
	}
	if _, err := errhandling.ParseRules(c.Errors.Rules); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// RetryPolicy is the error retry policy described by the config.
func (c Config) RetryPolicy() errhandling.RetryPolicy {
	p := errhandling.DefaultRetryPolicy()
	p.MaxTries = c.Errors.MaxTries
	if c.Errors.Backoff > 0 {
		p.InitialInterval = c.Errors.Backoff
	}
	return p
}
