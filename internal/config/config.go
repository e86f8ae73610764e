// Package config loads son's small runtime configuration: which store
// backend to use, where the HTTP surface listens, and the log level.
// An optional YAML file (gopkg.in/yaml.v3) supplies defaults; flags
// parsed with the standard library flag package override it — the
// idiomatic next step up from the reference CLI's own direct os.Args
// handling, now that there are real options like --db and --addr to
// set.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full set of options son's CLI and HTTP surface read.
type Config struct {
	// Datasource is the sqlite3 DSN to use for persistence. Empty means
	// run with the in-memory store instead.
	Datasource string `yaml:"datasource"`
	// Addr is the address `son serve` listens on.
	Addr string `yaml:"addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
}

// Default returns the configuration used when no file or flags are
// given: an in-memory store, listening on :8085, logging at info.
func Default() Config {
	return Config{
		Datasource: "",
		Addr:       ":8085",
		LogLevel:   "info",
	}
}

// Load reads path (if non-empty and present) as YAML over Default, then
// applies flags parsed from args (typically os.Args[1:]) on top. If path
// is empty, Load looks for a -config <path> (or -config=<path>) flag
// among args and uses that instead; it is safe to call with an empty
// path and no -config flag to skip the file entirely.
func Load(path string, args []string) (Config, error) {
	cfg := Default()

	if path == "" {
		path, args = extractConfigFlag(args)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: read %q: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	fs := flag.NewFlagSet("son", flag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file (already consumed by Load before parsing)")
	fs.StringVar(&cfg.Datasource, "db", cfg.Datasource, "sqlite3 datasource (empty for in-memory store)")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "address for son serve to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// extractConfigFlag pulls a -config/--config value out of args ahead of
// the main flag.FlagSet pass, since the file it names must be read
// before the rest of the overrides are applied. It returns the
// remaining args with that flag (and its value) removed, so the later
// fs.Parse never sees a duplicate.
func extractConfigFlag(args []string) (string, []string) {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 >= len(args) {
				return "", args
			}
			rest := make([]string, 0, len(args)-2)
			rest = append(rest, args[:i]...)
			rest = append(rest, args[i+2:]...)
			return args[i+1], rest
		case strings.HasPrefix(a, "-config="):
			return takeConfigValue(args, i, strings.TrimPrefix(a, "-config="))
		case strings.HasPrefix(a, "--config="):
			return takeConfigValue(args, i, strings.TrimPrefix(a, "--config="))
		}
	}
	return "", args
}

func takeConfigValue(args []string, i int, value string) (string, []string) {
	rest := make([]string, 0, len(args)-1)
	rest = append(rest, args[:i]...)
	rest = append(rest, args[i+1:]...)
	return value, rest
}
