package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-recruit/internal/config"
	"campus-recruit/internal/database"
	"campus-recruit/internal/database/migration"
	dbpostgres "campus-recruit/internal/database/postgres"
	"campus-recruit/internal/events"
	"campus-recruit/internal/infrastructure/cache"
	"campus-recruit/internal/pkg/jwt"
	"campus-recruit/internal/repository"
	"campus-recruit/internal/repository/memory"
	"campus-recruit/internal/seeder"
	"campus-recruit/internal/storage"
	"campus-recruit/internal/usecase"
	ucadmin "campus-recruit/internal/usecase/admin"
	ucauth "campus-recruit/internal/usecase/auth"
	ucrecruiter "campus-recruit/internal/usecase/recruiter"
	ucstudent "campus-recruit/internal/usecase/student"
	"campus-recruit/internal/ws"
	"campus-recruit/migrations"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// seedLockKey names the advisory lock that serialises seeding across processes.
const seedLockKey int64 = 746295115

// Container owns every long-lived dependency of the service. It is built once
// at startup and closed on shutdown.
type Container struct {
	Config config.Config
	Logger *zerolog.Logger

	DB    database.DB
	Store repository.Store
	Cache *cache.Redis
	Files storage.Storage

	Hub      *ws.Hub
	Broker   *events.AMQPPublisher
	Notifier *events.Notifier

	seedLock seeder.Locker

	JWT       jwt.Service
	JobList   *usecase.JobList
	Auth      *ucauth.Service
	Student   *ucstudent.Service
	Recruiter *ucrecruiter.Service
	Admin     *ucadmin.Service
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zerolog.Logger) (*Container, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	c := &Container{Config: cfg, Logger: logger}

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}

	c.Cache = cache.NewRedis(ctx, cfg.Redis, logger)

	files, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Files = files

	c.Hub = ws.NewHub(logger)
	sinks := events.Fanout{c.Hub}
	if cfg.Events.RabbitMQURL != "" {
		broker, err := events.DialAMQP(cfg.Events.RabbitMQURL, cfg.Events.Exchange)
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ unavailable, events stay in-process")
		} else {
			c.Broker = broker
			sinks = append(sinks, broker)
		}
	}
	c.Notifier = events.NewNotifier(sinks, logger)

	c.JWT = jwt.NewHMACService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTExpiresIn)

	var searchCache usecase.SearchCache
	if c.Cache.Client() != nil {
		searchCache = c.Cache
	}
	c.JobList = usecase.NewJobListUsecase(c.Store.Jobs, searchCache, cfg.Redis.TTL, logger)
	c.Auth = ucauth.NewService(c.Store.Accounts, c.Store.Students, c.JWT, logger)
	c.Student = ucstudent.NewService(c.Store, c.Files, c.JobList, c.Notifier, logger)
	c.Recruiter = ucrecruiter.NewService(c.Store, c.JobList, c.Notifier, logger)
	c.Admin = ucadmin.NewService(c.Store, c.JobList, c.Notifier, logger)

	if cfg.App.SeedDemo {
		if err := c.Seed(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.Database.Driver {
	case config.DriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(connectCtx, c.Config.Database)
		if err != nil {
			return err
		}
		c.DB = db
		if err := c.Migrate(ctx); err != nil {
			_ = db.Close()
			c.DB = nil
			return err
		}
		c.Store = repository.NewPostgresStore(db, c.Config.Database.QueryTimeout)
		c.seedLock = db.Lock(seedLockKey)
	default:
		c.Logger.Info().Msg("using in-memory store, data is lost on restart")
		c.Store = memory.NewStore()
		c.seedLock = &seeder.MutexLocker{}
	}
	return nil
}

// Migrate applies pending schema migrations. It is a no-op for the memory driver.
func (c *Container) Migrate(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	runner := migration.Runner{Dir: c.Config.Database.MigrationsDir, Logger: c.Logger}
	if runner.Dir == "" {
		runner.FS = migrations.FS
	}
	if err := runner.Run(ctx, c.DB.SQLDB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Seed creates the demo accounts and postings when they are missing.
func (c *Container) Seed(ctx context.Context) error {
	r := seeder.Runner{Seeders: seeder.Defaults(bcrypt.DefaultCost), Lock: c.seedLock, Logger: c.Logger}
	if err := r.Run(ctx, c.Store); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	c.JobList.Invalidate(ctx)
	return nil
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	if cfg.Driver == config.StorageS3 {
		s, err := storage.NewS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return storage.NewReference(cfg.PublicBaseURL), nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Broker != nil {
		errs = append(errs, c.Broker.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
