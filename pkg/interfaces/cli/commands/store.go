package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/ordercalc/pkg/domain/repositories"
	"github.com/vsinha/ordercalc/pkg/infrastructure/config"
	"github.com/vsinha/ordercalc/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/ordercalc/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/ordercalc/pkg/infrastructure/repositories/postgres"
)

// storeFlags override the store section of the configuration
type storeFlags struct {
	kind    string
	dataDir string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "store", "", "inventory store: memory, csv or postgres (default from config)")
	cmd.Flags().StringVarP(&f.dataDir, "data", "d", "", "directory with parts.csv, bom.csv and stock.csv (implies --store csv)")
}

// apply copies set flags into cfg and revalidates it
func (f *storeFlags) apply(cfg *config.Config) error {
	if f.dataDir != "" {
		cfg.Store.DataDir = f.dataDir
		if f.kind == "" {
			cfg.Store.Kind = config.StoreCSV
		}
	}
	if f.kind != "" {
		cfg.Store.Kind = f.kind
	}
	return cfg.Validate()
}

// inventoryStore is an opened inventory backend
type inventoryStore struct {
	port   repositories.InventoryPort
	health repositories.HealthChecker
	// snapshot is set for memory-backed stores, which can list every record
	snapshot *memory.InventoryRepository
	close    func() error
}

// openStore opens the backend selected by cfg.Store
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*inventoryStore, error) {
	switch cfg.Store.Kind {
	case config.StoreMemory, config.StoreCSV:
		repo := memory.NewInventoryRepository(0, 0)
		if cfg.Store.DataDir != "" {
			if err := csv.NewLoader().LoadDirectory(cfg.Store.DataDir, repo); err != nil {
				return nil, fmt.Errorf("failed to load data from %s: %w", cfg.Store.DataDir, err)
			}
		}
		return &inventoryStore{
			port:     repo,
			health:   repo,
			snapshot: repo,
			close:    func() error { return nil },
		}, nil

	case config.StorePostgres:
		db, err := postgres.Open(postgres.Options{
			DSN:             cfg.Database.DSN(),
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			LogSQL:          cfg.Database.LogSQL,
		})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}

		repo := postgres.NewInventoryRepository(db, logger)
		if cfg.Database.AutoMigrate {
			if err := repo.Migrate(ctx); err != nil {
				sqlDB.Close()
				return nil, err
			}
		}
		return &inventoryStore{
			port:   repo,
			health: repo,
			close:  sqlDB.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store: %s", cfg.Store.Kind)
	}
}
