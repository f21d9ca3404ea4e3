package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rafabd1/LintHound/core/lint"
	"github.com/rafabd1/LintHound/output"
	"github.com/rafabd1/LintHound/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigName is looked up in the working directory and then in
	// the home directory when no --config is given.
	DefaultConfigName = ".linthound"
	EnvPrefix         = "LINTHOUND"
)

// Waiver drops diagnostics of one rule, optionally limited to files matching
// a glob and to labels containing a substring.
type Waiver struct {
	Rule     string `yaml:"rule" mapstructure:"rule"`
	Path     string `yaml:"path,omitempty" mapstructure:"path"`
	Contains string `yaml:"contains,omitempty" mapstructure:"contains"`
}

// Configuration holds all configuration parameters for the application
type Configuration struct {
	Concurrency int   `yaml:"concurrency" mapstructure:"concurrency"`
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size"`

	// Output configuration
	Format  string `yaml:"format" mapstructure:"format"`
	Output  string `yaml:"output,omitempty" mapstructure:"output"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Silent  bool   `yaml:"silent" mapstructure:"silent"`
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
	FailOn  string `yaml:"fail_on" mapstructure:"fail_on"`

	// Rule selection
	DisabledRules []string          `yaml:"disabled_rules,omitempty" mapstructure:"disabled_rules"`
	Severity      map[string]string `yaml:"severity,omitempty" mapstructure:"severity"`
	Extensions    []string          `yaml:"extensions" mapstructure:"extensions"`
	DetectorsFile string            `yaml:"detectors_file,omitempty" mapstructure:"detectors_file"`
	Waivers       []Waiver          `yaml:"waivers,omitempty" mapstructure:"waivers"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Configuration {
	return Configuration{
		Concurrency: runtime.NumCPU(),
		MaxFileSize: 5 * 1024 * 1024,
		Format:      string(output.FormatText),
		FailOn:      lint.SeverityError.String(),
		Extensions:  append([]string(nil), utils.DefaultExtensions...),
	}
}

// SetDefaults registers the defaults on v so that every key is known to
// viper's env lookup and Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("format", d.Format)
	v.SetDefault("output", "")
	v.SetDefault("verbose", false)
	v.SetDefault("silent", false)
	v.SetDefault("no_color", false)
	v.SetDefault("fail_on", d.FailOn)
	v.SetDefault("disabled_rules", []string{})
	v.SetDefault("severity", map[string]string{})
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("detectors_file", "")
	v.SetDefault("waivers", []Waiver{})
}

// Load layers defaults, the config file, LINTHOUND_* variables and any flags
// already bound on v, in increasing precedence. An explicit configFile must
// exist; the implicit .linthound.yaml is optional.
func Load(v *viper.Viper, configFile string) (Configuration, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		p, err := homedir.Expand(configFile)
		if err != nil {
			return Configuration{}, utils.NewError(utils.ConfigError, "expanding config path", err)
		}
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return Configuration{}, utils.NewError(utils.ConfigError, "reading config file "+p, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Configuration{}, utils.NewError(utils.ConfigError, "reading config file", err)
			}
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return Configuration{}, utils.NewError(utils.ConfigError, "decoding configuration", err)
	}
	if cfg.DetectorsFile != "" {
		p, err := homedir.Expand(cfg.DetectorsFile)
		if err != nil {
			return Configuration{}, utils.NewError(utils.ConfigError, "expanding detectors_file", err)
		}
		cfg.DetectorsFile = p
	}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Configuration) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return utils.NewError(utils.ConfigError, fmt.Sprintf(format, args...), nil)
	}
	if c.Concurrency < 1 {
		return invalid("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.MaxFileSize < 0 {
		return invalid("max_file_size must not be negative")
	}
	if c.Verbose && c.Silent {
		return invalid("verbose and silent are mutually exclusive")
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return utils.NewError(utils.ConfigError, "format", err)
	}
	if _, err := lint.ParseSeverity(c.FailOn); err != nil {
		return utils.NewError(utils.ConfigError, "fail_on", err)
	}
	if _, err := c.SeverityOverrides(); err != nil {
		return err
	}
	for i, w := range c.Waivers {
		if strings.TrimSpace(w.Rule) == "" {
			return invalid("waiver %d has no rule", i)
		}
		if _, err := path.Match(w.Path, ""); err != nil {
			return utils.NewError(utils.ConfigError, fmt.Sprintf("waiver %d path %q", i, w.Path), err)
		}
	}
	return nil
}

// SeverityOverrides parses the severity map.
func (c *Configuration) SeverityOverrides() (map[string]lint.Severity, error) {
	out := make(map[string]lint.Severity, len(c.Severity))
	for rule, s := range c.Severity {
		sev, err := lint.ParseSeverity(s)
		if err != nil {
			return nil, utils.NewError(utils.ConfigError, "severity for "+rule, err)
		}
		out[rule] = sev
	}
	return out, nil
}

// FailSeverity is the lowest severity that makes a run fail.
func (c *Configuration) FailSeverity() lint.Severity {
	sev, err := lint.ParseSeverity(c.FailOn)
	if err != nil {
		return lint.SeverityError
	}
	return sev
}

// Save writes c as YAML, creating parent directories.
func Save(configFile string, c Configuration) error {
	if dir := filepath.Dir(configFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return utils.NewError(utils.IOError, "creating config directory", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return utils.NewError(utils.ConfigError, "encoding configuration", err)
	}
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return utils.NewError(utils.IOError, "writing "+configFile, err)
	}
	return nil
}
