package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/user/netcfg-audit/pkg/auditerr"
)

const (
	dirName   = ".netcfg-audit"
	fileName  = "config.yaml"
	envPrefix = "NETCFG_AUDIT"
)

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// AdvisorConfig configures the optional LLM executive summary.
type AdvisorConfig struct {
	Provider string            `yaml:"provider" mapstructure:"provider"`
	Model    string            `yaml:"model" mapstructure:"model"`
	APIKeys  map[string]string `yaml:"api_keys" mapstructure:"api_keys"`
}

type Config struct {
	OutputDir    string        `yaml:"output_dir" mapstructure:"output_dir"`
	Formats      []string      `yaml:"formats" mapstructure:"formats"`
	Workers      int           `yaml:"workers" mapstructure:"workers"`
	RulePacksDir string        `yaml:"rule_packs_dir" mapstructure:"rule_packs_dir"`
	ReportTitle  string        `yaml:"report_title" mapstructure:"report_title"`
	Log          LogConfig     `yaml:"log" mapstructure:"log"`
	Advisor      AdvisorConfig `yaml:"advisor" mapstructure:"advisor"`
}

// GetConfigPath returns ~/.netcfg-audit/config.yaml.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		OutputDir:   ".",
		Formats:     []string{"csv", "pdf", "docx", "md"},
		Workers:     runtime.NumCPU(),
		ReportTitle: "Network Configuration Audit Report",
		Log:         LogConfig{Level: "info", Format: "text"},
		Advisor: AdvisorConfig{
			Provider: "gemini",
			Model:    "gemini-1.5-flash",
			APIKeys:  make(map[string]string),
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("formats", d.Formats)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("rule_packs_dir", d.RulePacksDir)
	v.SetDefault("report_title", d.ReportTitle)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("advisor.provider", d.Advisor.Provider)
	v.SetDefault("advisor.model", d.Advisor.Model)
}

// LoadConfig reads path (the default location when empty). A missing file is
// not an error; NETCFG_AUDIT_* environment variables override file values,
// e.g. NETCFG_AUDIT_LOG_LEVEL=debug.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, auditerr.E("config.LoadConfig", auditerr.KindConfig, "resolve config path", err)
		}
		path = p
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, auditerr.E("config.LoadConfig", auditerr.KindConfig, "read "+path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, auditerr.E("config.LoadConfig", auditerr.KindConfig, "decode "+path, err)
	}
	if cfg.Advisor.APIKeys == nil {
		cfg.Advisor.APIKeys = make(map[string]string)
	}
	return &cfg, nil
}

// Update sets the given keys in the file at path (the default location when
// empty) and keeps every other key as written. Keys are dotted paths such as
// "advisor.api_keys.gemini". Only the file is read, so environment overrides
// and defaults are never persisted.
func Update(path string, values map[string]any) error {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return auditerr.E("config.Update", auditerr.KindConfig, "resolve config path", err)
		}
		path = p
	}

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return auditerr.E("config.Update", auditerr.KindConfig, "decode "+path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return auditerr.E("config.Update", auditerr.KindConfig, "read "+path, err)
	}

	for key, v := range values {
		setPath(doc, strings.Split(strings.ToLower(key), "."), v)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return auditerr.E("config.Update", auditerr.KindConfig, "create config dir", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return auditerr.E("config.Update", auditerr.KindConfig, "encode config", err)
	}
	// 0600: the file holds API keys
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return auditerr.E("config.Update", auditerr.KindConfig, "write "+path, err)
	}
	return nil
}

func setPath(m map[string]any, keys []string, v any) {
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = v
}

func (c *Config) SetAPIKey(provider, key string) {
	if c.Advisor.APIKeys == nil {
		c.Advisor.APIKeys = make(map[string]string)
	}
	c.Advisor.APIKeys[strings.ToLower(provider)] = key
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Advisor.APIKeys[strings.ToLower(provider)]
}
