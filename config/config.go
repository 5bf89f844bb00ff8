// Package config loads the demo CLI's pool geometry from a YAML file,
// grounded on tuannm99-novasql's viper-based NewSqlConfig loader. The
// bufpool.Manager itself never imports viper — it takes plain Go values.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// BufferPoolConfig describes how cmd/badgerdb wires up a bufpool.Manager
// and a pagefile.DiskFile.
type BufferPoolConfig struct {
	Frames   int    `mapstructure:"frames"`
	PageSize int    `mapstructure:"page_size"`
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`
}

// Config is the top-level YAML document shape.
type Config struct {
	BufferPool BufferPoolConfig `mapstructure:"buffer_pool"`
}

// Defaults matches the invariants a Manager needs to even construct: at
// least one frame, a positive page size.
func Defaults() Config {
	return Config{
		BufferPool: BufferPoolConfig{
			Frames:   16,
			PageSize: 4096,
			DataDir:  "./badgerdb-data",
			LogLevel: "info",
		},
	}
}

// Load reads a YAML config file at path, falling back to Defaults for any
// field left unset by the file.
func Load(path string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("buffer_pool.frames", cfg.BufferPool.Frames)
	v.SetDefault("buffer_pool.page_size", cfg.BufferPool.PageSize)
	v.SetDefault("buffer_pool.data_dir", cfg.BufferPool.DataDir)
	v.SetDefault("buffer_pool.log_level", cfg.BufferPool.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
