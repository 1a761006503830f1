package main

import (
	"fmt"
	"log"

	"github.com/yukikurage/video-task-dashboard/internal/config"
	"github.com/yukikurage/video-task-dashboard/internal/database"
	"github.com/yukikurage/video-task-dashboard/internal/repository"
	"github.com/yukikurage/video-task-dashboard/internal/services"
)

// app holds the services shared by every subcommand
type app struct {
	cfg       *config.Config
	tasks     *services.TaskService
	poller    *services.OverduePoller
	views     *services.ViewService
	aiService *services.AIService
	closeRepo func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return nil, err
	}

	tasks := services.NewTaskService(repo)
	tasks.Load()

	poller := services.NewOverduePoller(tasks, cfg.OverdueHour, cfg.PollInterval, cfg.Location, nil)
	views := services.NewViewService(tasks, poller, cfg.OverdueHour, cfg.Location, nil)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(services.AIServiceConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	}

	return &app{
		cfg:       cfg,
		tasks:     tasks,
		poller:    poller,
		views:     views,
		aiService: aiService,
		closeRepo: closeRepo,
	}, nil
}

func (a *app) Close() {
	if err := a.closeRepo(); err != nil {
		log.Printf("Failed to close storage: %v", err)
	}
}

func openRepository(cfg *config.Config) (repository.SnapshotRepository, func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		log.Println("Using in-memory storage, tasks will not survive a restart")
		return repository.NewMemorySnapshotRepository(), func() error { return nil }, nil

	case config.DriverRedis:
		pool := repository.NewRedisPool(cfg.RedisAddr())
		log.Printf("Using redis storage at %s", cfg.RedisAddr())
		return repository.NewRedisSnapshotRepository(pool, cfg.SnapshotKey), pool.Close, nil

	case config.DriverSQLite, config.DriverMySQL, config.DriverPostgres:
		if err := database.Connect(cfg); err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(database.GetDB()); err != nil {
			return nil, nil, err
		}
		sqlDB, err := database.GetDB().DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		return repository.NewSnapshotRepository(database.GetDB(), cfg.SnapshotKey), sqlDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
