package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"qkart/storefront/internal/client"
	"qkart/storefront/internal/config"
	"qkart/storefront/internal/repository"
	"qkart/storefront/internal/state"
	"qkart/storefront/internal/storefront"
	"qkart/storefront/internal/ui"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Backend  client.Backend
	Sessions state.SessionStore
	Orders   repository.OrderRepository

	Store *storefront.Store

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized.
// Redis and Postgres are optional; without them sessions and orders live in memory.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config:  cfg,
		Backend: client.NewBackendClient(cfg.Backend),
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.Sessions = state.NewRedisSessionStore(rdb, cfg.Storefront.Profile)
	} else {
		log.Debug("Redis disabled, keeping the session in memory")
		container.Sessions = state.NewMemorySessionStore()
	}

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		container.db = db

		if err := repository.Migrate(ctx, db); err != nil {
			container.Close()
			return nil, err
		}
		log.Info("✅ Connected to Postgres successfully")

		container.Orders = repository.NewOrderRepository(db)
	} else {
		log.Debug("Database disabled, keeping order history in memory")
		container.Orders = repository.NewMemoryOrderRepository()
	}

	container.Store = storefront.NewStore(
		container.Backend,
		container.Sessions,
		container.Orders,
		cfg.Storefront.SearchDebounce,
	)

	return container, nil
}

// Persistent reports whether sessions outlive the process
func (c *Container) Persistent() bool {
	return c.redis != nil
}

// Run starts the terminal storefront and returns when the user quits or ctx is done
func (c *Container) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return ui.Run(ctx, c.Store)
	})

	// Flush pending cart updates once the UI is gone
	g.Go(func() error {
		<-ctx.Done()
		c.Store.Wait()
		return nil
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.Store != nil {
		c.Store.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
