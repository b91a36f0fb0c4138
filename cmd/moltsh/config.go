package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const configFileName = ".moltclrc.toml"

// config is moltsh's bootstrap configuration, loaded from .moltclrc.toml
// in the current directory or the user's home directory.
type config struct {
	RecursionLimit int    `toml:"recursion_limit"`
	EnvMirror      bool   `toml:"env_mirror"`
	Startup        string `toml:"startup"`
}

func loadConfig(logger *slogLogger) config {
	cfg := config{EnvMirror: true}

	path := configFileName
	if _, err := os.Stat(path); err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			path = filepath.Join(home, configFileName)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		logger.Warnf("moltsh: %s: %v", path, err)
	}
	return cfg
}
