package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the on-disk shape for the example driver, loaded with
// pelletier/go-toml/v2 the way go-i2p/wireguard's lib/core.LoadConfig
// loads its node configuration.
type fileConfig struct {
	Servers []serverConfig `toml:"servers"`
	Pool    poolFileConfig `toml:"pool"`
}

type serverConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type poolFileConfig struct {
	ConnTimeoutMs int  `toml:"conn_timeout_ms"`
	DataTimeoutMs int  `toml:"data_timeout_ms"`
	MaxIdle       int  `toml:"max_idle"`
	MaxActive     int  `toml:"max_active"`
	MaxFails      int  `toml:"max_fails"`
	Wait          bool `toml:"wait"`
	MaxWaitMs     int  `toml:"max_wait_ms"`
}

func defaultFileConfig() *fileConfig {
	return &fileConfig{
		Servers: []serverConfig{
			{Host: "127.0.0.1", Port: 6379},
			{Host: "127.0.0.1", Port: 6380},
			{Host: "127.0.0.1", Port: 6381},
		},
		Pool: poolFileConfig{
			ConnTimeoutMs: 100,
			DataTimeoutMs: 100,
			MaxIdle:       10,
			MaxActive:     100,
			MaxFails:      5,
			Wait:          false,
			MaxWaitMs:     3,
		},
	}
}

// loadConfig reads path as TOML, falling back to defaults when the file
// does not exist.
func loadConfig(path string) (*fileConfig, error) {
	cfg := defaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("config: servers must not be empty")
	}
	return cfg, nil
}
