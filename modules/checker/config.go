package checker

import (
	"flag"
	"time"

	"github.com/zachfi/zkit/pkg/util"
)

const (
	defaultOutputDir    = "site_data"
	defaultConcurrency  = 10
	defaultProbeTimeout = 10 * time.Second
	defaultRetries      = 1
	defaultBudget       = 15 * time.Minute
	defaultUserAgent    = "IPRD-Validator/1.0"
)

type Config struct {
	OutputDir        string        `yaml:"output-dir,omitempty"` // directory holding the catalog to refresh
	Concurrency      int           `yaml:"concurrency,omitempty"`
	ProbeTimeout     time.Duration `yaml:"probe-timeout,omitempty"`
	ProbeRetries     int           `yaml:"probe-retries,omitempty"`
	ValidationBudget time.Duration `yaml:"validation-budget,omitempty"`
	UserAgent        string        `yaml:"user-agent,omitempty"`
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.OutputDir, util.PrefixConfig(prefix, "output-dir"), defaultOutputDir,
		"Directory holding the existing catalog.json to refresh.")
	f.IntVar(&cfg.Concurrency, util.PrefixConfig(prefix, "concurrency"), defaultConcurrency,
		"Maximum number of stream probes in flight at once.")
	f.DurationVar(&cfg.ProbeTimeout, util.PrefixConfig(prefix, "probe-timeout"), defaultProbeTimeout,
		"Per-probe request deadline.")
	f.IntVar(&cfg.ProbeRetries, util.PrefixConfig(prefix, "probe-retries"), defaultRetries,
		"Retries after a transient transport failure (timeout, connection reset).")
	f.DurationVar(&cfg.ValidationBudget, util.PrefixConfig(prefix, "validation-budget"), defaultBudget,
		"Wall-clock budget for the whole validation pass. 0 disables the bound.")
	f.StringVar(&cfg.UserAgent, util.PrefixConfig(prefix, "user-agent"), defaultUserAgent,
		"User-Agent header sent with stream probes.")
}
