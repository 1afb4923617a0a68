package app

import (
	"context"
	"fmt"
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/grafana/dskit/modules"
	"github.com/grafana/dskit/server"
	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"

	"github.com/iprd/radiodir/modules/builder"
	"github.com/iprd/radiodir/modules/checker"
	"github.com/iprd/radiodir/modules/sitedata"
)

const (
	Server string = "server"

	Builder string = "builder"

	Checker string = "checker"

	SiteData string = "sitedata"

	All string = "all"
)

func (a *App) setupModuleManager() error {
	mm := modules.NewManager(kitlog.NewLogfmtLogger(os.Stderr))
	mm.RegisterModule(Server, a.initServer, modules.UserInvisibleModule)

	mm.RegisterModule(Builder, a.initBuilder)
	mm.RegisterModule(Checker, a.initChecker)
	mm.RegisterModule(SiteData, a.initSiteData)

	mm.RegisterModule(All, nil)

	deps := map[string][]string{
		Builder:  {Server},
		Checker:  {Server},
		SiteData: {Server},

		All: {Builder, SiteData},
	}

	for mod, targets := range deps {
		if err := mm.AddDependency(mod, targets...); err != nil {
			return err
		}
	}

	a.ModuleManager = mm

	return nil
}

func (a *App) initBuilder() (services.Service, error) {
	b, err := builder.New(a.cfg.Builder, a.logger)
	if err != nil {
		return nil, errors.Wrap(err, "unable to init builder")
	}

	return b, nil
}

func (a *App) initChecker() (services.Service, error) {
	c, err := checker.New(a.cfg.Checker, a.logger)
	if err != nil {
		return nil, errors.Wrap(err, "unable to init checker")
	}

	return c, nil
}

func (a *App) initSiteData() (services.Service, error) {
	// Site data is generated from the catalog on disk, so when a rebuild
	// runs in the same invocation (target=all) generation must wait until
	// the rebuild service has terminated.
	await := func(ctx context.Context) error {
		for _, dep := range []string{Builder, Checker} {
			if s, ok := a.serviceMap[dep]; ok {
				if err := s.AwaitTerminated(ctx); err != nil {
					return err
				}
			}
		}
		return nil
	}

	g, err := sitedata.New(a.cfg.SiteData, a.logger, await)
	if err != nil {
		return nil, errors.Wrap(err, "unable to init sitedata")
	}

	return g, nil
}

func (a *App) initServer() (services.Service, error) {
	a.cfg.Server.MetricsNamespace = metricsNamespace
	a.cfg.Server.ExcludeRequestInLog = true
	a.cfg.Server.RegisterInstrumentation = true
	a.cfg.Server.Log = kitlog.NewLogfmtLogger(os.Stderr)

	srv, err := server.New(a.cfg.Server)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create server")
	}

	servicesToWaitFor := func() []services.Service {
		svs := []services.Service(nil)
		for m, s := range a.serviceMap {
			// Server should not wait for itself.
			if m != Server {
				svs = append(svs, s)
			}
		}

		return svs
	}

	a.Server = srv

	serverDone := make(chan error, 1)

	runFn := func(ctx context.Context) error {
		go func() {
			defer close(serverDone)
			serverDone <- srv.Run()
		}()

		select {
		case <-ctx.Done():
			return nil
		case err := <-serverDone:
			if err != nil {
				return err
			}

			return fmt.Errorf("server stopped unexpectedly")
		}
	}

	stoppingFn := func(_ error) error {
		// wait until the pipeline stages are done, then shutdown server so
		// metrics stay scrapable for the whole run.
		for _, s := range servicesToWaitFor() {
			_ = s.AwaitTerminated(context.Background())
		}

		// shutdown HTTP and gRPC servers (this also unblocks Run)
		srv.Shutdown()

		// if not closed yet, wait until server stops.
		<-serverDone
		a.logger.Info("server stopped")
		return nil
	}

	return services.NewBasicService(nil, runFn, stoppingFn), nil
}
