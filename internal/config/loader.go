package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the service configuration.
type Config struct {
	ListenAddr   string
	ExportDir    string
	DenyListPath string
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		ListenAddr:   ":8080",
		ExportDir:    "exports",
		DenyListPath: "configs/denylist.yaml",
	}
}

// Load reads config.yaml from configPath, with environment overrides mapped
// as ADSCRUB_SERVER_LISTEN etc. A missing file is fine; defaults apply.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("ADSCRUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("server.listen")
	v.BindEnv("export.dir")
	v.BindEnv("denylist.path")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, err
		}
	}

	if v.IsSet("server.listen") {
		cfg.ListenAddr = v.GetString("server.listen")
	}
	if v.IsSet("export.dir") {
		cfg.ExportDir = v.GetString("export.dir")
	}
	if v.IsSet("denylist.path") {
		cfg.DenyListPath = v.GetString("denylist.path")
	}

	return cfg, nil
}
