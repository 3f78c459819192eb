package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/boattime/portfolio/pkg/builder"
	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/render"
	"github.com/boattime/portfolio/pkg/telemetry"
	"github.com/boattime/portfolio/pkg/template"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a template file to stdout without collecting telemetry",
		ArgsUsage: "TEMPLATE_FILE",
		Description: `Parse and render a single template file against an empty snapshot.
Data panels come out empty; structure, headings, and variables render
normally. Good for iterating on template layout.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: html or text",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "ascii",
				Usage: "Restrict text output to ASCII box drawing",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New(errors.ErrCodeConfig, "render requires exactly one template file argument")
			}

			tmpl, err := template.FromFile(cmd.Args().First())
			if err != nil {
				return err
			}

			snap := telemetry.NewSnapshot(nil, nil, nil, "")
			root, err := builder.Build(tmpl, snap, builder.BuiltinVars(snap))
			if err != nil {
				return err
			}

			var r render.Renderer
			switch cmd.String("format") {
			case "html":
				r = render.NewHTML(render.WithTitle(tmpl.Name))
			case "text":
				if cmd.Bool("ascii") {
					r = render.NewText(render.WithASCIIOnly(true))
				} else {
					r = render.NewText()
				}
			default:
				return errors.Newf(errors.ErrCodeConfig, "unknown format %q", cmd.String("format"))
			}

			out, err := r.Render(&root)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.Root().Writer, string(out))
			return nil
		},
	}
}
