// Package config loads orbitdash settings from a TOML file.
//
// A missing file is not an error: every field has a default, and the
// ORBITDASH_DATASET, ORBITDASH_ADDR and ORBITDASH_REDIS_URL environment
// variables override the file. Call [Config.Validate] before use; it
// reports problems as INVALID_CONFIG coded errors.
//
// Example file:
//
//	[dataset]
//	path = "data/clean_leo_satellites.csv"
//
//	[dashboard]
//	top_k = 3
//	mode = "cumulative"
//
//	[dashboard.defaults]
//	object_type = ["PAYLOAD"]
//
//	[[classify.operator]]
//	label = "Amazon / Kuiper"
//	keywords = ["KUIPER"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/orbitdash/pkg/cache"
	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/facet"
	"github.com/matzehuels/orbitdash/pkg/summary"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "orbitdash.toml"

// Environment overrides.
const (
	EnvDataset  = "ORBITDASH_DATASET"
	EnvAddr     = "ORBITDASH_ADDR"
	EnvRedisURL = "ORBITDASH_REDIS_URL"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration.
type Config struct {
	Dataset   Dataset   `toml:"dataset"`
	Dashboard Dashboard `toml:"dashboard"`
	Classify  Classify  `toml:"classify"`
	Summary   Summary   `toml:"summary"`
	Cache     Cache     `toml:"cache"`
	Server    Server    `toml:"server"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Dataset locates the CSV and its columns.
type Dataset struct {
	Path    string  `toml:"path"`
	Columns Columns `toml:"columns"`
}

// Columns maps logical fields to CSV headers.
type Columns struct {
	Year       string `toml:"year"`
	Country    string `toml:"country"`
	ObjectType string `toml:"object_type"`
	Status     string `toml:"status"`
	Name       string `toml:"name"`
}

// Dashboard holds coordinator settings.
type Dashboard struct {
	TopK     int                 `toml:"top_k"`
	Width    int                 `toml:"width"`
	Mode     string              `toml:"mode"`
	Defaults map[string][]string `toml:"defaults"`
}

// Rule is one classification rule.
type Rule struct {
	Label    string   `toml:"label"`
	Keywords []string `toml:"keywords"`
	Pattern  string   `toml:"pattern"`
}

// Classify optionally replaces the built-in rule catalogs.
type Classify struct {
	Operator         []Rule `toml:"operator"`
	OperatorFallback string `toml:"operator_fallback"`
	Driver           []Rule `toml:"driver"`
	DriverFallback   string `toml:"driver_fallback"`
}

// Summary configures the year summary client.
type Summary struct {
	Enabled bool     `toml:"enabled"`
	BaseURL string   `toml:"base_url"`
	TTL     Duration `toml:"ttl"`
	Timeout Duration `toml:"timeout"`
}

// Cache selects the response cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

// Server configures the HTTP view.
type Server struct {
	Addr        string   `toml:"addr"`
	SessionTTL  Duration `toml:"session_ttl"`
	MaxSessions int      `toml:"max_sessions"`
}

// Duration is a time.Duration written as a string such as "30m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cols := dataset.DefaultColumns()
	return &Config{
		Dataset: Dataset{
			Path: "data/clean_leo_satellites.csv",
			Columns: Columns{
				Year:       cols.Year,
				Country:    cols.Country,
				ObjectType: cols.ObjectType,
				Status:     cols.Status,
				Name:       cols.Name,
			},
		},
		Dashboard: Dashboard{
			TopK:  dashboard.DefaultTopK,
			Width: dashboard.DefaultWidth,
			Mode:  dashboard.Yearly.String(),
		},
		Summary: Summary{
			Enabled: true,
			BaseURL: summary.DefaultBaseURL,
			TTL:     Duration{24 * time.Hour},
			Timeout: Duration{10 * time.Second},
		},
		Cache: Cache{
			Backend: BackendFile,
			Dir:     cache.DefaultDir(),
		},
		Server: Server{
			Addr:        ":7428",
			SessionTTL:  Duration{30 * time.Minute},
			MaxSessions: 1000,
		},
	}
}

// Load reads the file at path over the defaults. An empty path means
// DefaultFile. A missing file yields the defaults. Unknown keys are
// rejected. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
		}
		cfg.Path = path
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "stat %s", path)
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// Parse decodes TOML text over the defaults, without environment overrides.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", undecoded[0].String())
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataset); v != "" {
		c.Dataset.Path = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
		c.Cache.Backend = BackendRedis
	}
}

// Validate checks every section. It does not touch the filesystem.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}

	if err := errors.ValidatePath(c.Dataset.Path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "dataset.path")
	}
	if c.Dashboard.TopK < 1 {
		return invalid("dashboard.top_k must be at least 1, got %d", c.Dashboard.TopK)
	}
	if c.Dashboard.Width < dashboard.MinWidth || c.Dashboard.Width > dashboard.MaxWidth {
		return invalid("dashboard.width must be in [%d, %d], got %d", dashboard.MinWidth, dashboard.MaxWidth, c.Dashboard.Width)
	}
	if _, err := c.Mode(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "dashboard.mode")
	}
	for key := range c.Dashboard.Defaults {
		if _, err := facet.ParseDimension(key); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "dashboard.defaults")
		}
	}
	if _, err := c.Normalizer(); err != nil {
		return err
	}

	if c.Summary.Enabled {
		if err := errors.ValidateURL(c.Summary.BaseURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "summary.base_url")
		}
		if c.Summary.TTL.Duration <= 0 || c.Summary.Timeout.Duration <= 0 {
			return invalid("summary.ttl and summary.timeout must be positive")
		}
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return invalid("cache.redis_url is required for the redis backend")
		}
	default:
		return invalid("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}

	if c.Server.Addr == "" {
		return invalid("server.addr cannot be empty")
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return invalid("server.session_ttl must be positive")
	}
	if c.Server.MaxSessions <= 0 {
		return invalid("server.max_sessions must be positive")
	}
	return nil
}

// Columns returns the dataset column mapping.
func (c *Config) Columns() dataset.Columns {
	return dataset.Columns{
		Year:       c.Dataset.Columns.Year,
		Country:    c.Dataset.Columns.Country,
		ObjectType: c.Dataset.Columns.ObjectType,
		Status:     c.Dataset.Columns.Status,
		Name:       c.Dataset.Columns.Name,
	}
}

// Mode parses dashboard.mode.
func (c *Config) Mode() (dashboard.Mode, error) {
	return dashboard.ParseMode(c.Dashboard.Mode)
}

// Defaults returns dashboard.defaults keyed by dimension. Labels are not
// checked against a dataset here; the coordinator does that.
func (c *Config) Defaults() (map[facet.Dimension][]string, error) {
	if len(c.Dashboard.Defaults) == 0 {
		return nil, nil
	}
	out := make(map[facet.Dimension][]string, len(c.Dashboard.Defaults))
	for key, labels := range c.Dashboard.Defaults {
		dim, err := facet.ParseDimension(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "dashboard.defaults")
		}
		out[dim] = append(out[dim], labels...)
	}
	return out, nil
}

// Normalizer builds the record normalizer. Sections without rules keep the
// built-in catalog.
func (c *Config) Normalizer() (*dataset.Normalizer, error) {
	n := dataset.NewNormalizer()
	if len(c.Classify.Operator) > 0 {
		rs, err := ruleSet("operator", c.Classify.Operator, c.Classify.OperatorFallback, dataset.OperatorRules.Fallback)
		if err != nil {
			return nil, err
		}
		n.Operators = rs
	}
	if len(c.Classify.Driver) > 0 {
		rs, err := ruleSet("driver", c.Classify.Driver, c.Classify.DriverFallback, dataset.DriverRules.Fallback)
		if err != nil {
			return nil, err
		}
		n.Drivers = rs
	}
	return n, nil
}

func ruleSet(name string, rules []Rule, fallback, def string) (dataset.RuleSet, error) {
	if fallback == "" {
		fallback = def
	}
	rs := dataset.RuleSet{Name: name, Fallback: fallback, Rules: make([]dataset.Rule, 0, len(rules))}
	for i, r := range rules {
		rule, err := dataset.NewRule(r.Label, r.Pattern, r.Keywords...)
		if err != nil {
			return dataset.RuleSet{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "classify.%s[%d]", name, i)
		}
		rs.Rules = append(rs.Rules, rule)
	}
	return rs, nil
}
