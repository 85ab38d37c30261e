package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipsleuth/pipsleuth/pkg/observability"
	"github.com/pipsleuth/pipsleuth/pkg/store"
)

// newExportCmd creates the export command, which runs a scan and persists the
// result to the configured store backend.
func newExportCmd(cfg *Config) *cobra.Command {
	var (
		opts    scanOpts
		backend string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run a scan and persist the result to a store backend",
		Long: `Run a scan and save the result as a scan record.

The backend comes from the config file (store.backend) and can be overridden
with --store. Use --list to show previously stored scan IDs instead of
scanning.

Examples:
  pipsleuth export                   # save to the configured backend
  pipsleuth export --store redis     # save to redis
  pipsleuth export --list            # list stored scan IDs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if backend != "" {
				cfg.Store.Backend = backend
			}

			s, backendName, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if list {
				ids, err := s.List(ctx)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Println(id)
				}
				return nil
			}

			scanOptions, err := buildScanOptions(cfg, &opts)
			if err != nil {
				return err
			}

			pkgs, err := collectPackages(ctx, scanOptions)
			if err != nil {
				return err
			}

			rec := store.NewScanRecord(scanOptions.PythonPath, scanOptions.Source, pkgs)
			if err := s.Put(ctx, rec); err != nil {
				return err
			}
			observability.Store().OnPut(ctx, backendName, rec.ID, len(rec.Packages))

			printSuccess("Stored scan of %d packages", len(pkgs))
			printKeyValue("Scan ID", rec.ID)
			printKeyValue("Backend", backendName)
			return nil
		},
	}

	addScanFlags(cmd, &opts)
	cmd.Flags().StringVar(&backend, "store", "", "store backend (file, redis, mongo, none)")
	cmd.Flags().BoolVar(&list, "list", false, "list stored scan IDs instead of scanning")

	return cmd
}
