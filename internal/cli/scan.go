package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
	"github.com/pipsleuth/pipsleuth/pkg/inspect"
	"github.com/pipsleuth/pipsleuth/pkg/observability"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	python      string // interpreter to query (empty = auto-detect)
	source      string // license name source: meta, classifier, mixed, all
	noFiles     bool   // skip reading license/notice/SBOM file contents
	noNormalize bool   // keep raw package names
	output      string // output format: table or json
	long        bool   // include author, maintainer, and homepage columns
}

// newScanCmd creates the scan command.
func newScanCmd(cfg *Config) *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Inspect installed packages and print a license report",
		Long: `Scan the packages installed in a Python environment and report their
license metadata.

The environment is located by asking the interpreter for its module search
path; every installed distribution found there is inspected.

Examples:
  pipsleuth scan                             # scan the default interpreter
  pipsleuth scan --python .venv/bin/python   # scan a virtualenv
  pipsleuth scan --from classifier           # license names from trove classifiers
  pipsleuth scan --output json               # machine-readable output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scanOptions, err := buildScanOptions(cfg, &opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			pkgs, err := collectPackages(ctx, scanOptions)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Inspected %d packages", len(pkgs)))

			switch opts.output {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(pkgs)
			case "table":
				fmt.Println(renderPackageTable(pkgs, opts.long))
				return nil
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown output format %q (use table or json)", opts.output)
			}
		},
	}

	addScanFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format (table, json)")
	cmd.Flags().BoolVarP(&opts.long, "long", "l", false, "include author, maintainer, and homepage columns")

	return cmd
}

// addScanFlags registers the flags shared by every command that runs a scan.
func addScanFlags(cmd *cobra.Command, opts *scanOpts) {
	cmd.Flags().StringVar(&opts.python, "python", "", "Python interpreter to query (default: python3 on PATH)")
	cmd.Flags().StringVar(&opts.source, "from", "", "license name source: meta, classifier, mixed, all (default: mixed)")
	cmd.Flags().BoolVar(&opts.noFiles, "no-files", false, "skip reading license, notice, and SBOM file contents")
	cmd.Flags().BoolVar(&opts.noNormalize, "no-normalize", false, "keep raw package names instead of PEP 503 normalized ones")
}

// buildScanOptions merges flags over the config file over built-in defaults.
func buildScanOptions(cfg *Config, opts *scanOpts) (inspect.ScanOptions, error) {
	scanOptions := inspect.DefaultScanOptions()

	if cfg.Python != "" {
		scanOptions.PythonPath = cfg.Python
	}
	if opts.python != "" {
		scanOptions.PythonPath = opts.python
	}

	sourceName := cfg.Source
	if opts.source != "" {
		sourceName = opts.source
	}
	if sourceName != "" {
		source, err := inspect.ParseSource(sourceName)
		if err != nil {
			return inspect.ScanOptions{}, err
		}
		scanOptions.Source = source
	}

	scanOptions.IncludeFiles = !(opts.noFiles || cfg.NoFiles)
	scanOptions.NormalizeNames = !(opts.noNormalize || cfg.NoNormalize)
	return scanOptions, nil
}

// collectPackages runs a scan to completion, emitting observability events
// along the way. The slice is sorted by package name for stable output.
func collectPackages(ctx context.Context, opts inspect.ScanOptions) ([]*inspect.PackageInfo, error) {
	logger := loggerFromContext(ctx)
	start := time.Now()
	observability.Scan().OnScanStart(ctx, opts.PythonPath, len(opts.SearchPath))

	var pkgs []*inspect.PackageInfo
	for info, err := range inspect.Packages(ctx, opts) {
		if err != nil {
			observability.Scan().OnScanComplete(ctx, opts.PythonPath, len(pkgs), time.Since(start), err)
			return nil, err
		}
		logger.Debugf("inspected %s", info.NameVersion())
		observability.Scan().OnPackage(ctx, info.Name, info.Version)
		pkgs = append(pkgs, info)
	}

	observability.Scan().OnScanComplete(ctx, opts.PythonPath, len(pkgs), time.Since(start), nil)
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs, nil
}

// licenseSummary joins a package's selected license names for display.
func licenseSummary(info *inspect.PackageInfo) string {
	return strings.Join(info.LicenseNames.Sorted(), "; ")
}

// renderPackageTable formats scan results as a bordered terminal table.
func renderPackageTable(pkgs []*inspect.PackageInfo, long bool) string {
	headers := []string{"Package", "Version", "License"}
	if long {
		headers = append(headers, "Author", "Maintainer", "Homepage")
	}

	rows := make([][]string, 0, len(pkgs))
	for _, info := range pkgs {
		row := []string{info.Name, info.Version, licenseSummary(info)}
		if long {
			row = append(row, info.Author, info.Maintainer, info.Homepage)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render()
}
