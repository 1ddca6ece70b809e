package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFile is the optional per-project configuration, looked up in
// the scan root. Flags set explicitly on the command line win over
// file values.
const configFile = ".licensetree.toml"

// fileConfig mirrors the TOML schema.
type fileConfig struct {
	LineEndings  string `toml:"line_endings"`
	Format       string `toml:"format"`
	Output       string `toml:"output"`
	NoCache      bool   `toml:"no_cache"`
	CacheBackend string `toml:"cache_backend"`
	RedisAddr    string `toml:"redis_addr"`
}

// loadConfig reads root's .licensetree.toml. A missing file returns a
// zero config; a malformed file is an error so typos do not silently
// change scan behavior.
func loadConfig(root string) (fileConfig, error) {
	var cfg fileConfig

	data, err := os.ReadFile(filepath.Join(root, configFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// apply overlays file values onto unset flag values.
func (cfg fileConfig) apply(opts *scanOpts) {
	if opts.lineEndings == "" {
		opts.lineEndings = cfg.LineEndings
	}
	if opts.format == "" {
		opts.format = cfg.Format
	}
	if opts.output == "" {
		opts.output = cfg.Output
	}
	if !opts.noCache {
		opts.noCache = cfg.NoCache
	}
	if opts.cacheBackend == "" {
		opts.cacheBackend = cfg.CacheBackend
	}
	if opts.redisAddr == "" {
		opts.redisAddr = cfg.RedisAddr
	}
}
