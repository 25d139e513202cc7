package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/ordercalc/pkg/application/services/resolution"
	"github.com/vsinha/ordercalc/pkg/domain/services"
	"github.com/vsinha/ordercalc/pkg/infrastructure/config"
	"github.com/vsinha/ordercalc/pkg/interfaces/cli/output"
)

// calculateOpts holds the command-line flags for the calculate command
type calculateOpts struct {
	store       storeFlags
	targets     []string // ID=QTY pairs
	targetsFile string   // .csv or .xlsx with part_id,quantity rows
	format      string
	outputDir   string
	maxDepth    int // 0 keeps resolver.max_depth from config
	noPreflight bool
}

func newCalculateCmd(root *rootOpts) *cobra.Command {
	opts := calculateOpts{format: output.FormatText}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute the order list for target assemblies",
		Example: `  ordercalc calculate --data ./testdata/example -t 100=2
  ordercalc calculate --store postgres --targets-file targets.xlsx --format xlsx --output ./out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(output.Formats(), opts.format) {
				return fmt.Errorf("invalid format: %s (expected: %s)", opts.format, strings.Join(output.Formats(), ", "))
			}
			return runCalculate(cmd, root, &opts)
		},
	}

	opts.store.register(cmd)
	cmd.Flags().StringArrayVarP(&opts.targets, "target", "t", nil, "target as ID=QTY (repeatable)")
	cmd.Flags().StringVar(&opts.targetsFile, "targets-file", "", "read targets from a .csv or .xlsx file (part_id, quantity)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(output.Formats(), ", "))
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "write order_lines.<format> into this directory instead of stdout")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "maximum assembly nesting depth (default from config)")
	cmd.Flags().BoolVar(&opts.noPreflight, "no-preflight", false, "skip the BOM structure check before resolving")

	return cmd
}

func runCalculate(cmd *cobra.Command, root *rootOpts, opts *calculateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	targets, err := buildTargetSet(opts.targets, opts.targetsFile)
	if err != nil {
		return err
	}
	if targets.Len() == 0 {
		return fmt.Errorf("no targets given: use -t ID=QTY or --targets-file")
	}

	cfg := *root.cfg
	if err := opts.store.apply(&cfg); err != nil {
		return err
	}
	if opts.maxDepth > 0 {
		cfg.Resolver.MaxDepth = opts.maxDepth
	}

	coreLogger := zap.NewNop()
	if root.verbose {
		if coreLogger, err = newZapLogger(config.LogConfig{Level: "debug", Format: "console"}); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		defer coreLogger.Sync()
	}

	prog := newProgress(logger)
	store, err := openStore(ctx, &cfg, coreLogger)
	if err != nil {
		return err
	}
	defer store.close()
	prog.done(fmt.Sprintf("Opened %s store", cfg.Store.Kind))

	if store.snapshot != nil && !opts.noPreflight {
		preflight(logger, store)
	}

	resolver := resolution.NewResolverWithConfig(store.port, resolution.Config{
		MaxDepth: cfg.Resolver.MaxDepth,
		Logger:   coreLogger,
	})

	prog = newProgress(logger)
	result, err := resolver.ResolveDetailed(ctx, targets)
	if err != nil {
		return fmt.Errorf("calculation failed: %w", err)
	}
	prog.done(fmt.Sprintf("Resolved %d targets into %d order lines", targets.Len(), len(result.OrderLines)))
	if len(result.Diagnostics) > 0 {
		logger.Warn("some parts could not be read and were skipped", "count", len(result.Diagnostics))
	}

	path, err := output.Generate(result, output.Config{
		Format:    opts.format,
		OutputDir: opts.outputDir,
		Writer:    cmd.OutOrStdout(),
		Verbose:   root.verbose,
		Targets:   targets.Targets(),
	})
	if err != nil {
		return err
	}
	if path != "" {
		logger.Info("Wrote order list", "path", path)
	}
	return nil
}

// preflight logs structural problems without failing the calculation;
// cycles still abort the resolution itself
func preflight(logger *log.Logger, store *inventoryStore) {
	result := services.NewBOMValidator().ValidateBOM(store.snapshot.GetAllParts(), store.snapshot.GetAllBOMLines())
	for _, msg := range result.Errors {
		logger.Warn("BOM check", "error", msg)
	}
	for _, msg := range result.Warnings {
		logger.Debug("BOM check", "warning", msg)
	}
}
