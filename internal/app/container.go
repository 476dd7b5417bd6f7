// Package app provides the dependency injection container for the
// application.
package app

import (
	"fmt"

	"github.com/YuriiYurchuk/Focus-Flow/internal/achievements"
	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
	"github.com/YuriiYurchuk/Focus-Flow/internal/infra/catalog"
	"github.com/YuriiYurchuk/Focus-Flow/internal/infra/config"
	"github.com/YuriiYurchuk/Focus-Flow/internal/infra/filestore"
	"github.com/YuriiYurchuk/Focus-Flow/internal/infra/logging"
	"github.com/YuriiYurchuk/Focus-Flow/internal/infra/memstore"
	"github.com/YuriiYurchuk/Focus-Flow/internal/infra/pgstore"
	"github.com/YuriiYurchuk/Focus-Flow/internal/tasksync"
	"github.com/YuriiYurchuk/Focus-Flow/internal/timer"
	"github.com/YuriiYurchuk/Focus-Flow/internal/usecase"
)

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for
// use cases. Nothing module-global: every consumer receives its stores
// through here.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskStore
	Users            domain.UserStore
	StoreInitializer domain.StoreInitializer
	Catalog          domain.AchievementCatalog
	Clock            domain.Clock
	Logger           domain.Logger

	// Configuration
	Config *config.Config

	closers []func() error
}

// New creates a new Container from the loaded configuration.
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		Clock:  domain.RealClock{},
		Config: cfg,
	}

	fileLogger := logging.New(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
	c.Logger = fileLogger
	c.closers = append(c.closers, fileLogger.Close)

	switch cfg.Store.Backend {
	case config.StoreMemory:
		store := memstore.New()
		c.Tasks = store
		c.Users = store
	case config.StoreFile:
		store := filestore.New(cfg.Store.Path)
		c.Tasks = store
		c.Users = store
		c.StoreInitializer = store
	case config.StorePostgres:
		store, err := pgstore.Open(cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect store: %w", err)
		}
		c.Tasks = store
		c.Users = store
		c.StoreInitializer = store
		c.closers = append(c.closers, store.Close)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}

	cacheTTL, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	c.Catalog = achievements.NewCache(catalog.New(cfg.Achievements.Catalog), c.Clock, cacheTTL)

	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *config.Config, tasks domain.TaskStore, users domain.UserStore, cat domain.AchievementCatalog, clock domain.Clock, logger domain.Logger) *Container {
	return &Container{
		Tasks:   tasks,
		Users:   users,
		Catalog: cat,
		Clock:   clock,
		Logger:  logger,
		Config:  cfg,
	}
}

// Close releases held resources (store connections, log files).
func (c *Container) Close() error {
	var lastErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Owner returns the configured owner id for local commands.
func (c *Container) Owner() string {
	if c.Config != nil && c.Config.Owner != "" {
		return c.Config.Owner
	}
	return config.DefaultOwner
}

// UseCase factory methods

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Tasks, c.Users, c.Clock, c.Logger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Clock)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// GetTaskUseCase returns a new GetTask use case.
func (c *Container) GetTaskUseCase() *usecase.GetTask {
	return usecase.NewGetTask(c.Tasks)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Users, c.Clock, c.Logger)
}

// StartSessionUseCase returns a new StartSession use case.
func (c *Container) StartSessionUseCase() *usecase.StartSession {
	return usecase.NewStartSession(c.Tasks, c.Clock, c.Logger)
}

// PauseSessionUseCase returns a new PauseSession use case.
func (c *Container) PauseSessionUseCase() *usecase.PauseSession {
	return usecase.NewPauseSession(c.Tasks, c.Clock, c.Logger)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Tasks, c.Clock, c.Logger)
}

// ReconcileActiveUseCase returns a new ReconcileActive use case.
func (c *Container) ReconcileActiveUseCase() *usecase.ReconcileActive {
	return usecase.NewReconcileActive(c.Tasks, c.Clock, c.Logger)
}

// RecordCompletionUseCase returns a new RecordCompletion use case.
func (c *Container) RecordCompletionUseCase() *usecase.RecordCompletion {
	return usecase.NewRecordCompletion(c.Users, c.Clock, c.Logger)
}

// GrantAchievementsUseCase returns a new GrantAchievements use case.
func (c *Container) GrantAchievementsUseCase() *usecase.GrantAchievements {
	return usecase.NewGrantAchievements(c.Users, c.Catalog, c.Clock, c.Logger)
}

// ListActivityUseCase returns a new ListActivity use case.
func (c *Container) ListActivityUseCase() *usecase.ListActivity {
	return usecase.NewListActivity(c.Users)
}

// TaskObserver returns a live observer bound to the task store.
func (c *Container) TaskObserver() *tasksync.Observer {
	return tasksync.New(c.Tasks, c.Logger)
}

// TimerState returns a timer presentation state bound to one task.
func (c *Container) TimerState(ownerID, taskID string) (*timer.State, error) {
	tick, err := c.Config.TickInterval()
	if err != nil {
		return nil, err
	}
	minUpdate, err := c.Config.MinUpdateInterval()
	if err != nil {
		return nil, err
	}
	errorTTL, err := c.Config.ErrorTTL()
	if err != nil {
		return nil, err
	}
	return timer.New(
		c.StartSessionUseCase(),
		c.PauseSessionUseCase(),
		c.TaskObserver(),
		c.Clock,
		ownerID,
		taskID,
		timer.Config{TickInterval: tick, MinUpdate: minUpdate, ErrorTTL: errorTTL},
	), nil
}
