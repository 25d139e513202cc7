package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/ordercalc/pkg/infrastructure/config"
	"github.com/vsinha/ordercalc/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/ordercalc/pkg/infrastructure/repositories/postgres"
)

func newImportCmd(root *rootOpts) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "import DIR",
		Short: "Load a CSV dataset into the PostgreSQL store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg := *root.cfg
			cfg.Store.Kind = config.StorePostgres
			cfg.Database.AutoMigrate = cfg.Database.AutoMigrate || migrate

			prog := newProgress(logger)
			inv, err := openStore(ctx, &cfg, nil)
			if err != nil {
				return err
			}
			defer inv.close()

			repo, ok := inv.port.(*postgres.InventoryRepository)
			if !ok {
				return fmt.Errorf("import needs the postgres store")
			}
			if err := csv.NewLoader().LoadDirectory(args[0], repo); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			prog.done(fmt.Sprintf("Imported %s into %s", args[0], cfg.Database.DBName))
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "create or update the tables before importing")
	return cmd
}
