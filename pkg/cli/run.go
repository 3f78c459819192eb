package cli

import (
	"context"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/boattime/portfolio/pkg/config"
	"github.com/boattime/portfolio/pkg/defaults"
	"github.com/boattime/portfolio/pkg/pool"
	"github.com/boattime/portfolio/pkg/scheduler"
	"github.com/boattime/portfolio/pkg/server"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the generation daemon",
		Description: `Run the periodic generation loop: collect telemetry, build the
dashboard, render it to HTML and plain text, and publish both documents
every interval. The first cycle starts immediately.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "interval",
				Usage:   "Interval between generation cycles",
				Sources: cli.EnvVars(config.EnvInterval),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Publish target: directory path or oci:// reference",
				Sources: cli.EnvVars(config.EnvOutput),
			},
			&cli.BoolFlag{
				Name:  "watch-templates",
				Usage: "Invalidate cached templates when their files change",
				Value: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			if v := cmd.Duration("interval"); v > 0 {
				cfg.Interval = config.Duration(v)
			}
			if v := cmd.String("output"); v != "" {
				cfg.Output = v
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runDaemon(ctx, cfg, cmd.Bool("watch-templates"))
		},
	}
}

func runDaemon(ctx context.Context, cfg config.Config, watchTemplates bool) error {
	p := pool.New(cfg.Workers, cfg.QueueDepth)
	p.Start(ctx)
	defer p.Stop(defaults.DrainTimeout)

	gen, templates, closeSources, err := buildGenerator(cfg, p)
	if err != nil {
		return err
	}
	defer closeSources()

	cycle := func(ctx context.Context, cycleID uint64) error {
		_, err := gen.Generate(ctx, cycleID)
		return err
	}
	sched, err := scheduler.New(cycle, scheduler.Options{
		Interval:  cfg.Interval.Std(),
		Pool:      p,
		Immediate: true,
	})
	if err != nil {
		return err
	}

	if watchTemplates {
		if err := templates.Watch(ctx); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sched.Run(gctx)
	})

	if cfg.Server.Enabled {
		srv, err := server.New(server.Options{
			Address: cfg.Server.Address,
			Status: func() server.Status {
				st := server.Status{
					State:       sched.State().String(),
					Cycles:      sched.Cycles(),
					MissedTicks: sched.Missed(),
				}
				if lastErr := sched.LastError(); lastErr != nil {
					st.LastError = lastErr.Error()
				}
				return st
			},
		})
		if err != nil {
			return err
		}
		srv.SetReady(true)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	// Tell systemd we are up, and flag shutdown when it begins.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	g.Go(func() error {
		<-gctx.Done()
		_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
		return nil
	})

	return g.Wait()
}
