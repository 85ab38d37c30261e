package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with values
// injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the pipsleuth CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (scan, browse,
// graph, export, serve), loads the config file, configures logging based on
// the --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext is like Execute but runs the command tree under ctx, so a
// cancelled context (e.g. SIGINT) aborts in-flight scans.
func ExecuteContext(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
		cfg        Config
	)

	root := &cobra.Command{
		Use:          "pipsleuth",
		Short:        "Pipsleuth reports license metadata of installed Python packages",
		Long:         `Pipsleuth inspects the packages installed in a Python environment and reports their license metadata, gathered from package metadata, trove classifiers, and bundled license files.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)

			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("pipsleuth %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/pipsleuth/config.toml)")

	root.AddCommand(newScanCmd(&cfg))
	root.AddCommand(newBrowseCmd(&cfg))
	root.AddCommand(newGraphCmd(&cfg))
	root.AddCommand(newExportCmd(&cfg))
	root.AddCommand(newServeCmd(&cfg))

	return root.ExecuteContext(ctx)
}
