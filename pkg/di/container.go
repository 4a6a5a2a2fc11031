package di

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskboard/application/serviceimpl"
	"taskboard/domain/ports"
	"taskboard/domain/repositories"
	"taskboard/domain/services"
	"taskboard/infrastructure/messaging"
	"taskboard/infrastructure/postgres"
	redispkg "taskboard/infrastructure/redis"
	"taskboard/infrastructure/storage"
	"taskboard/infrastructure/websocket"
	"taskboard/interfaces/api/handlers"
	"taskboard/pkg/config"
	"taskboard/pkg/logger"
	"taskboard/pkg/scheduler"
)

// Cron expressions for the background jobs. Purge runs hourly; reminders
// go out once a day in the morning.
const (
	notificationPurgeCron = "0 * * * *"
	dueSoonReminderCron   = "0 8 * * *"
)

type Container struct {
	Config *config.Config

	// Infrastructure
	DB           *gorm.DB
	RedisClient  *redispkg.Client // optional, cache disabled when nil
	EventSink    *messaging.NATSEventSink
	Hub          *websocket.Hub
	Storage      ports.StoragePort
	JobScheduler scheduler.JobScheduler

	// Repositories
	UserRepository         repositories.UserRepository
	ProjectRepository      repositories.ProjectRepository
	TaskRepository         repositories.TaskRepository
	NotificationRepository repositories.NotificationRepository

	// Services
	AuthService         services.AuthService
	UserService         services.UserService
	ProjectService      services.ProjectService
	TaskService         services.TaskService
	NotificationService services.NotificationService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized", "level", c.Config.Log.Level, "format", c.Config.Log.Format)
	return nil
}

func (c *Container) initInfrastructure() error {
	db, err := postgres.NewDatabase(c.Config.Database, c.Config.IsDevelopment())
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Redis is optional: without it the unread-count cache is disabled and
	// every count hits the database.
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(c.Config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, unread-count cache disabled", "error", err)
		} else {
			c.RedisClient = redisClient
			logger.Info("Redis connected", "url", c.Config.Redis.URL)
		}
	}

	// NATS mirrors board events for external consumers. Also optional;
	// without it events only reach connected websocket clients.
	if c.Config.NATS.URL != "" {
		sink, err := messaging.NewNATSEventSink(c.Config.NATS.URL)
		if err != nil {
			logger.Warn("NATS unavailable, event mirroring disabled", "error", err)
		} else {
			c.EventSink = sink
			logger.Info("NATS event sink connected", "url", c.Config.NATS.URL)
		}
	}

	var sink ports.EventSink
	if c.EventSink != nil {
		sink = c.EventSink
	}
	c.Hub = websocket.NewHub(sink)

	return c.initStorage()
}

func (c *Container) initStorage() error {
	switch c.Config.Storage.Type {
	case "s3":
		s3Storage, err := storage.NewS3Storage(c.Config.Storage.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		c.Storage = s3Storage
		logger.Info("S3 storage initialized",
			"endpoint", c.Config.Storage.S3.Endpoint,
			"bucket", c.Config.Storage.S3.Bucket,
		)
	default:
		localStorage, err := storage.NewLocalStorage(storage.LocalStorageConfig{
			BasePath: c.Config.Storage.BasePath,
			BaseURL:  c.Config.Storage.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		c.Storage = localStorage
		logger.Info("Local storage initialized", "path", c.Config.Storage.BasePath)
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.ProjectRepository = postgres.NewProjectRepository(c.DB)
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	c.NotificationRepository = postgres.NewNotificationRepository(c.DB)
	return nil
}

func (c *Container) initServices() error {
	c.AuthService = serviceimpl.NewAuthService(c.UserRepository, c.Config.JWT.Secret)
	c.UserService = serviceimpl.NewUserService(c.UserRepository)

	c.ProjectService = serviceimpl.NewProjectService(
		c.ProjectRepository,
		c.TaskRepository,
		c.UserRepository,
		c.NotificationRepository,
		c.Hub,
		c.Config.Board.NotificationTTLDays,
	)

	c.TaskService = serviceimpl.NewTaskService(
		c.TaskRepository,
		c.ProjectRepository,
		c.NotificationRepository,
		c.Storage,
		c.Hub,
		c.Config.Board.NotificationTTLDays,
	)

	// Avoid handing a typed-nil cache to the service when Redis is down.
	var cache ports.CachePort
	if c.RedisClient != nil {
		cache = c.RedisClient
	}
	c.NotificationService = serviceimpl.NewNotificationService(
		c.NotificationRepository,
		c.TaskRepository,
		cache,
		c.Hub,
		c.Config.Board.NotificationTTLDays,
		c.Config.Board.DueSoonWindowHours,
	)

	return nil
}

func (c *Container) initScheduler() error {
	c.JobScheduler = scheduler.NewJobScheduler()

	err := c.JobScheduler.AddJob("notification-purge", notificationPurgeCron, func() {
		removed, err := c.NotificationService.PurgeExpired(context.Background())
		if err != nil {
			logger.Error("Notification purge failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Info("Expired notifications purged", "count", removed)
		}
	})
	if err != nil {
		return err
	}

	err = c.JobScheduler.AddJob("due-soon-reminders", dueSoonReminderCron, func() {
		sent, err := c.NotificationService.SendDueSoonReminders(context.Background())
		if err != nil {
			logger.Error("Due-soon reminder run failed", "error", err)
			return
		}
		if sent > 0 {
			logger.Info("Due-soon reminders sent", "count", sent)
		}
	})
	if err != nil {
		return err
	}

	c.JobScheduler.Start()
	logger.Info("Job scheduler started")
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.JobScheduler != nil && c.JobScheduler.IsRunning() {
		c.JobScheduler.Stop()
		logger.Info("Job scheduler stopped")
	}

	if c.EventSink != nil {
		c.EventSink.Close()
		logger.Info("NATS event sink closed")
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		AuthService:         c.AuthService,
		UserService:         c.UserService,
		ProjectService:      c.ProjectService,
		TaskService:         c.TaskService,
		NotificationService: c.NotificationService,
		JWTSecret:           c.Config.JWT.Secret,
		MaxUploadSize:       c.Config.Storage.MaxUploadSize,
	}
}
