// Package config loads the railmap server configuration from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/viper"

	"github.com/railmap/railmap/internal/style"
)

// ErrConfig reports a rejected configuration file.
type ErrConfig struct {
	File   string
	Reason string
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config %s: %s", e.File, e.Reason)
}

// Config is the parsed configuration.
type Config struct {
	Server  Server             `mapstructure:"server"`
	Paths   Paths              `mapstructure:"paths"`
	Regions map[string][]string `mapstructure:"regions"`
	Style   map[string]Units   `mapstructure:"style"`

	// base is the directory of the config file; relative globs and
	// paths resolve against it.
	base string
	file string
}

// Server configures the HTTP surface.
type Server struct {
	Listen     string `mapstructure:"listen"`
	CacheTiles int    `mapstructure:"cache_tiles"`
}

// Paths names the geometry corpus directory.
type Paths struct {
	Dir string `mapstructure:"dir"`
}

// Units overrides the unit table of one detail level. Nil fields keep the
// built-in default.
type Units struct {
	Dt         *float64 `mapstructure:"dt"`
	Dl         *float64 `mapstructure:"dl"`
	Sw         *float64 `mapstructure:"sw"`
	Sh         *float64 `mapstructure:"sh"`
	LineWidth  *float64 `mapstructure:"line_width"`
	OtherWidth *float64 `mapstructure:"other_width"`
	Seg        *float64 `mapstructure:"seg"`
}

// Load reads and validates a configuration file.
func Load(file string) (*Config, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, &ErrConfig{File: file, Reason: err.Error()}
	}
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(file)
	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("server.cache_tiles", 2048)
	if err := v.ReadInConfig(); err != nil {
		return nil, &ErrConfig{File: file, Reason: err.Error()}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &ErrConfig{File: file, Reason: err.Error()}
	}
	cfg.file = file
	cfg.base = filepath.Dir(file)

	if cfg.Paths.Dir == "" {
		return nil, &ErrConfig{File: file, Reason: "paths.dir is not set"}
	}
	if len(cfg.Regions) == 0 {
		return nil, &ErrConfig{File: file, Reason: "no regions configured"}
	}
	for key := range cfg.Style {
		d, err := strconv.Atoi(key)
		if err != nil || d < style.MinDetail || d > style.MaxDetail {
			return nil, &ErrConfig{File: file,
				Reason: fmt.Sprintf("style.%s is not a detail level", key)}
		}
	}
	return cfg, nil
}

// Restrict drops all but the named regions. Nothing changes for an empty
// name list; an unknown name is an error.
func (c *Config) Restrict(names []string) error {
	if len(names) == 0 {
		return nil
	}
	kept := make(map[string][]string, len(names))
	for _, n := range names {
		globs, ok := c.Regions[n]
		if !ok {
			return &ErrConfig{File: c.file, Reason: fmt.Sprintf("unknown region %q", n)}
		}
		kept[n] = globs
	}
	c.Regions = kept
	return nil
}

// WatchDirs returns the directories a reload watcher has to observe: the
// geometry corpus and every directory the region globs draw from.
func (c *Config) WatchDirs() []string {
	seen := map[string]struct{}{c.PathsDir(): {}}
	for _, globs := range c.Regions {
		for _, pattern := range globs {
			seen[filepath.Dir(c.resolve(pattern))] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// PathsDir returns the geometry corpus directory resolved against the
// config file location.
func (c *Config) PathsDir() string {
	return c.resolve(c.Paths.Dir)
}

// MapFiles expands the region globs into the sorted list of map source
// files.
func (c *Config) MapFiles() ([]string, error) {
	var files []string
	for _, region := range sortedKeys(c.Regions) {
		for _, pattern := range c.Regions[region] {
			matches, err := filepath.Glob(c.resolve(pattern))
			if err != nil {
				return nil, &ErrConfig{File: c.file,
					Reason: fmt.Sprintf("region %s: bad glob %q", region, pattern)}
			}
			files = append(files, matches...)
		}
	}
	sort.Strings(files)
	return files, nil
}

// StyleTables builds the style with the configured unit overrides applied.
func (c *Config) StyleTables() *style.Style {
	st := style.New()
	for key, over := range c.Style {
		detail, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		u := style.UnitsFor(detail)
		set := func(dst *float64, src *float64) {
			if src != nil {
				*dst = *src
			}
		}
		set(&u.Dt, over.Dt)
		set(&u.Dl, over.Dl)
		set(&u.Sw, over.Sw)
		set(&u.Sh, over.Sh)
		set(&u.LineWidth, over.LineWidth)
		set(&u.OtherWidth, over.OtherWidth)
		set(&u.Seg, over.Seg)
		st.SetUnits(detail, u)
	}
	return st
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.base, path)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
