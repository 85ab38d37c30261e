package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
	"github.com/pipsleuth/pipsleuth/pkg/render"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	scanOpts
	format   string // dot or svg
	output   string // output file path (stdout if empty)
	detailed bool   // include versions and licenses in node labels
}

// newGraphCmd creates the graph command, which renders the installed
// dependency graph as Graphviz DOT or SVG.
func newGraphCmd(cfg *Config) *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the installed dependency graph as DOT or SVG",
		Long: `Render the dependency graph of installed packages.

Edges connect a package to the installed packages its requirements resolve
to. Requirements on packages that are not installed are omitted.

Examples:
  pipsleuth graph                          # DOT to stdout
  pipsleuth graph --format svg -o deps.svg # rendered SVG
  pipsleuth graph --detailed               # labels include version and license`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scanOptions, err := buildScanOptions(cfg, &opts.scanOpts)
			if err != nil {
				return err
			}

			pkgs, err := collectPackages(cmd.Context(), scanOptions)
			if err != nil {
				return err
			}

			dot := render.ToDOT(pkgs, render.Options{Detailed: opts.detailed})

			var out []byte
			switch opts.format {
			case "dot":
				out = []byte(dot)
			case "svg":
				out, err = render.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (use dot or svg)", opts.format)
			}

			if opts.output == "" {
				fmt.Print(string(out))
				return nil
			}
			if err := os.WriteFile(opts.output, out, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "writing %s", opts.output)
			}
			printSuccess("Wrote %s graph for %d packages", opts.format, len(pkgs))
			printFile(opts.output)
			return nil
		},
	}

	addScanFlags(cmd, &opts.scanOpts)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format (dot, svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include version and license in node labels")

	return cmd
}
