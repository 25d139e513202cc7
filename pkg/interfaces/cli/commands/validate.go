package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
	"github.com/vsinha/ordercalc/pkg/domain/services"
	"github.com/vsinha/ordercalc/pkg/infrastructure/config"
	"github.com/vsinha/ordercalc/pkg/infrastructure/repositories/csv"
)

func newValidateCmd(root *rootOpts) *cobra.Command {
	var store storeFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a CSV dataset for BOM cycles, dangling lines and flag mismatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg := *root.cfg
			if err := store.apply(&cfg); err != nil {
				return err
			}
			if cfg.Store.Kind == config.StorePostgres || cfg.Store.DataDir == "" {
				return fmt.Errorf("validate reads CSV files: use --data DIR")
			}

			// read the files directly so duplicate part ids are still visible
			loader := csv.NewLoader()
			partPtrs, err := loader.LoadParts(filepath.Join(cfg.Store.DataDir, csv.PartsFile))
			if err != nil {
				return err
			}
			linePtrs, err := loader.LoadBOM(filepath.Join(cfg.Store.DataDir, csv.BOMFile))
			if err != nil {
				return err
			}
			parts := make([]entities.Part, len(partPtrs))
			for i, p := range partPtrs {
				parts[i] = *p
			}
			lines := make([]entities.BOMLine, len(linePtrs))
			for i, l := range linePtrs {
				lines[i] = *l
			}

			validator := services.NewBOMValidator()
			result := validator.ValidatePartUniqueness(parts)
			bomResult := validator.ValidateBOM(parts, lines)
			result.Errors = append(result.Errors, bomResult.Errors...)
			result.Warnings = append(result.Warnings, bomResult.Warnings...)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Parts: %d, BOM lines: %d\n", len(parts), len(lines))
			for _, msg := range result.Errors {
				fmt.Fprintf(w, "ERROR   %s\n", msg)
			}
			for _, msg := range result.Warnings {
				fmt.Fprintf(w, "WARNING %s\n", msg)
			}

			if !result.IsValid() {
				return fmt.Errorf("validation failed with %d errors", len(result.Errors))
			}
			logger.Info("Dataset is valid", "warnings", len(result.Warnings))
			return nil
		},
	}

	store.register(cmd)
	return cmd
}
