// Package config loads ossemdoc settings from ossemdoc.yml, OSSEMDOC_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. OSSEMDOC_TOC_PART.
const EnvPrefix = "OSSEMDOC"

// Config is the resolved configuration
type Config struct {
	Templates string       `mapstructure:"templates"`
	HTML      bool         `mapstructure:"html"`
	TOC       TOCConfig    `mapstructure:"toc"`
	Attack    AttackConfig `mapstructure:"attack"`
}

// TOCConfig places generated pages in the Jupyter book table of contents.
type TOCConfig struct {
	Part            string `mapstructure:"part"`
	EntitiesChapter int    `mapstructure:"entities_chapter"`
	TablesChapter   int    `mapstructure:"tables_chapter"`
	EntitiesPath    string `mapstructure:"entities_path"`
	TablesPath      string `mapstructure:"tables_path"`
}

// AttackConfig configures the ATT&CK enrichment client.
// An empty URL disables enrichment.
type AttackConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// Flag names bound over configuration keys.
var flagKeys = map[string]string{
	"templates":  "templates",
	"html":       "html",
	"attack-url": "attack.url",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("templates", "")
	v.SetDefault("html", false)
	v.SetDefault("toc.part", "Common Data Model")
	v.SetDefault("toc.entities_chapter", 2)
	v.SetDefault("toc.tables_chapter", 3)
	v.SetDefault("toc.entities_path", "cdm/entities")
	v.SetDefault("toc.tables_path", "cdm/tables")
	v.SetDefault("attack.url", "")
	v.SetDefault("attack.timeout", 45*time.Second)
	v.SetDefault("attack.retries", 3)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, _ := decode(newViper())
	return cfg
}

// Load reads configuration. With an empty path, ossemdoc.yml is looked up
// in the working directory and its absence is not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	} else {
		v.SetConfigName("ossemdoc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "reading ossemdoc.yml")
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "binding --%s", name)
			}
		}
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	if cfg.TOC.EntitiesChapter < 0 || cfg.TOC.TablesChapter < 0 {
		return nil, errors.New("toc chapter indices must not be negative")
	}
	return &cfg, nil
}
