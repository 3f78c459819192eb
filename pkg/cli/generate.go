package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/boattime/portfolio/pkg/config"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Run a single generation cycle and exit",
		Description: `Collect telemetry once, build and render the dashboard, publish the
artifact set, and exit. Useful for cron-driven setups and for checking a
configuration before starting the daemon.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Publish target: directory path or oci:// reference",
				Sources: cli.EnvVars(config.EnvOutput),
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Template name to render",
				Sources: cli.EnvVars(config.EnvTemplate),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			if v := cmd.String("output"); v != "" {
				cfg.Output = v
			}
			if v := cmd.String("template"); v != "" {
				cfg.Template = v
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			gen, _, closeSources, err := buildGenerator(cfg, nil)
			if err != nil {
				return err
			}
			defer closeSources()

			set, err := gen.Generate(ctx, 1)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "published %d bytes to %s\n", set.Size(), cfg.Output)
			return nil
		},
	}
}
