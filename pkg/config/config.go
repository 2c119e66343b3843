// Package config loads client settings from a .dispatch.yaml file and
// DISPATCH_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is everything the client needs to reach a dispatch server.
type Config struct {
	BaseURL  string        `json:"base_url"`
	Cookie   string        `json:"cookie"`
	Timeout  time.Duration `json:"timeout"`
	Retries  int           `json:"retries"`
	PageSize int           `json:"page_size"`
	DraftDir string        `json:"draft_dir"`
}

// Load walks the usual spots for a .dispatch config and applies env
// overrides. A missing config file is fine; a broken one is not.
func Load() (*Config, error) {
	viper.SetDefault("base_url", "http://localhost:5000")
	viper.SetDefault("timeout", "10s")
	viper.SetDefault("retries", 3)
	viper.SetDefault("page_size", 10)
	viper.SetDefault("draft_dir", "~/.dispatch/drafts")

	viper.SetConfigName(".dispatch") // .yaml is implicit
	viper.SetEnvPrefix("DISPATCH")
	viper.AutomaticEnv()

	if override := os.Getenv("DISPATCH_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	draftDir, err := homedir.Expand(viper.GetString("draft_dir"))
	if err != nil {
		draftDir = filepath.Join(".", ".dispatch", "drafts")
	}

	return &Config{
		BaseURL:  viper.GetString("base_url"),
		Cookie:   viper.GetString("cookie"),
		Timeout:  viper.GetDuration("timeout"),
		Retries:  viper.GetInt("retries"),
		PageSize: viper.GetInt("page_size"),
		DraftDir: draftDir,
	}, nil
}
