package sitedata

import (
	"flag"

	"github.com/zachfi/zkit/pkg/util"
)

const defaultOutputDir = "site_data"

type Config struct {
	OutputDir string `yaml:"output-dir,omitempty"` // directory holding catalog.json; playlists are written alongside it
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.OutputDir, util.PrefixConfig(prefix, "output-dir"), defaultOutputDir,
		"Directory holding catalog.json. all_stations.m3u and by_country/ are written alongside it.")
}
