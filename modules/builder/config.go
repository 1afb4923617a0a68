package builder

import (
	"flag"
	"time"

	"github.com/zachfi/zkit/pkg/util"
)

const (
	defaultStreamsDir   = "streams"
	defaultOutputDir    = "site_data"
	defaultConcurrency  = 10
	defaultProbeTimeout = 10 * time.Second
	defaultRetries      = 1
	defaultBudget       = 15 * time.Minute
	defaultUserAgent    = "IPRD-Validator/1.0"
)

type Config struct {
	StreamsDir       string        `yaml:"streams-dir,omitempty"`       // directory tree of source playlists
	OutputDir        string        `yaml:"output-dir,omitempty"`        // where catalog.json, summary.json and validation-results.json land
	Concurrency      int           `yaml:"concurrency,omitempty"`       // simultaneous in-flight probes
	ProbeTimeout     time.Duration `yaml:"probe-timeout,omitempty"`     // per-request deadline
	ProbeRetries     int           `yaml:"probe-retries,omitempty"`     // extra attempts after a transient transport failure
	ValidationBudget time.Duration `yaml:"validation-budget,omitempty"` // wall-clock bound for the whole pass; 0 disables
	UserAgent        string        `yaml:"user-agent,omitempty"`
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.StreamsDir, util.PrefixConfig(prefix, "streams-dir"), defaultStreamsDir,
		"Directory tree of hand-maintained playlist files (<country>.m3u or <country>_<group>.m3u).")
	f.StringVar(&cfg.OutputDir, util.PrefixConfig(prefix, "output-dir"), defaultOutputDir,
		"Directory receiving catalog.json, summary.json and validation-results.json.")
	f.IntVar(&cfg.Concurrency, util.PrefixConfig(prefix, "concurrency"), defaultConcurrency,
		"Maximum number of stream probes in flight at once.")
	f.DurationVar(&cfg.ProbeTimeout, util.PrefixConfig(prefix, "probe-timeout"), defaultProbeTimeout,
		"Per-probe request deadline.")
	f.IntVar(&cfg.ProbeRetries, util.PrefixConfig(prefix, "probe-retries"), defaultRetries,
		"Retries after a transient transport failure (timeout, connection reset).")
	f.DurationVar(&cfg.ValidationBudget, util.PrefixConfig(prefix, "validation-budget"), defaultBudget,
		"Wall-clock budget for the whole validation pass. Endpoints not probed in time keep their previous state. 0 disables the bound.")
	f.StringVar(&cfg.UserAgent, util.PrefixConfig(prefix, "user-agent"), defaultUserAgent,
		"User-Agent header sent with stream probes.")
}
