// Package commands implements the ordercalc command-line interface.
//
// The root command carries --verbose and --config; every subcommand gets a
// charmbracelet logger through its context and the loaded configuration.
//
//	ordercalc calculate --data ./testdata/example -t 100=2
//	ordercalc validate --data ./testdata/example
//	ordercalc serve --config configs/config.yaml
package commands

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vsinha/ordercalc/pkg/infrastructure/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion sets the version information displayed by --version and /version
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// rootOpts is shared by all subcommands; cfg is set before any RunE
type rootOpts struct {
	verbose    bool
	configFile string
	envFile    string
	cfg        *config.Config
}

// Execute runs the CLI with the given context
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:           "ordercalc",
		Short:         "Compute the base components to order for a set of assemblies",
		Long:          `ordercalc expands target assemblies through their bills of materials, sums the base components they need and reports the shortfall against available stock.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			cfg, err := config.Load(config.Options{ConfigFile: opts.configFile, EnvFile: opts.envFile})
			if err != nil {
				return err
			}
			opts.cfg = cfg
			logger.Debug("configuration loaded", "store", cfg.Store.Kind, "max_depth", cfg.Resolver.MaxDepth)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("ordercalc %s\nbuilt: %s\n", version, buildTime))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: ./configs/config.yaml or ./config.yaml)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "environment file loaded before the config (default: .env)")

	root.AddCommand(newCalculateCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newImportCmd(opts))

	return root
}
