package app

import (
	"flag"

	"github.com/grafana/dskit/flagext"
	"github.com/grafana/dskit/server"

	"github.com/zachfi/zkit/pkg/tracing"

	"github.com/iprd/radiodir/modules/builder"
	"github.com/iprd/radiodir/modules/checker"
	"github.com/iprd/radiodir/modules/sitedata"
)

type Config struct {
	Target   string          `yaml:"target"`
	Tracing  tracing.Config  `yaml:"tracing,omitempty"`
	Server   server.Config   `yaml:"server,omitempty"`
	Builder  builder.Config  `yaml:"builder,omitempty"`
	Checker  checker.Config  `yaml:"checker,omitempty"`
	SiteData sitedata.Config `yaml:"sitedata,omitempty"`
}

func (c *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&c.Target, "target", All,
		"Pipeline stage to run: builder (rebuild catalog from sources and validate), checker (validation-only refresh), sitedata (regenerate playlists from the existing catalog), or all.")

	flagext.DefaultValues(&c.Server)
	f.IntVar(&c.Server.HTTPListenPort, "server.http-listen-port", 3030, "HTTP server listen port.")
	f.IntVar(&c.Server.GRPCListenPort, "server.grpc-listen-port", 9090, "gRPC server listen port.")

	c.Tracing.RegisterFlagsAndApplyDefaults("tracing", f)
	c.Builder.RegisterFlagsAndApplyDefaults("builder", f)
	c.Checker.RegisterFlagsAndApplyDefaults("checker", f)
	c.SiteData.RegisterFlagsAndApplyDefaults("sitedata", f)
}
