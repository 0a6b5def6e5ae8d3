package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
	"github.com/vladislavdragonenkov/crm/internal/storage/postgres"
)

// Repositories — набор хранилищ, с которыми работает сервисный слой.
type Repositories struct {
	Sellers   domain.SellerRepository
	Products  domain.ProductRepository
	Customers domain.CustomerRepository
	Orders    domain.OrderRepository

	// Store не nil только для postgres-хранилища; используется
	// для health-проверок и закрытия соединения.
	Store *postgres.Store
}

// Close освобождает ресурсы хранилища.
func (r *Repositories) Close() error {
	if r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

// initStorage поднимает хранилище согласно конфигурации.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*Repositories, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		logger.Info("using in-memory storage")
		return &Repositories{
			Sellers:   memory.NewSellerRepository(),
			Products:  memory.NewProductRepository(),
			Customers: memory.NewCustomerRepository(),
			Orders:    memory.NewOrderRepository(),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres storage requires CRM_POSTGRES_DSN")
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}

		logger.Info("using postgres storage")
		return &Repositories{
			Sellers:   postgres.NewSellerRepository(store),
			Products:  postgres.NewProductRepository(store),
			Customers: postgres.NewCustomerRepository(store),
			Orders:    postgres.NewOrderRepository(store),
			Store:     store,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
