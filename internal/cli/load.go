package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/gncorpora/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// setupViper seeds v with the built-in defaults, merges the config file on
// top and enables GNCORPORA_* environment overrides. Without an explicit
// path, $HOME/.gncorpora/config.yaml is used when it exists.
func setupViper(v *viper.Viper, path string) error {
	defaults, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}

	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}

	v.SetEnvPrefix("GNCORPORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys omitted from the default YAML still need env bindings
	_ = v.BindEnv("langid.endpoint")
	_ = v.BindEnv("langid.api_key", "GNCORPORA_LANGID_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("langid.http_proxy", "GNCORPORA_LANGID_HTTP_PROXY", "HTTP_PROXY")
	_ = v.BindEnv("langid.https_proxy", "GNCORPORA_LANGID_HTTPS_PROXY", "HTTPS_PROXY")

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".gncorpora", "config.yaml")
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// loadConfig decodes the effective configuration held by v
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
