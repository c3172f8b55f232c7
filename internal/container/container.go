package container

import (
	"fmt"

	"fleetops/adapters/coercer"
	"fleetops/adapters/excel"
	"fleetops/adapters/postgres"
	"fleetops/app"
	"fleetops/internal"
	"fleetops/internal/api"
	"fleetops/internal/config"
	"fleetops/internal/importer"
	"fleetops/internal/session"
	"fleetops/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories
	TaskRepo ports.TaskRepository

	// Import pipeline
	Reader        *excel.DataReader
	Normalizer    *importer.Normalizer
	Committer     *app.BatchCommitter
	ImportService *app.ImportService

	// Shared state for the HTTP layer
	Sessions *session.ImportStore
	SSEHub   *api.SSEHub
}

// New creates a container with everything that does not need a database.
// The import service can parse files but not commit them until a task
// store is attached with InitWithDatabase or InitWithRepository.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}
	c.initImportPipeline()

	c.Sessions = session.NewImportStore(cfg.Import.SessionTTL, logger)
	c.SSEHub = api.NewSSEHub(logger)

	return c, nil
}

func (c *Container) initImportPipeline() {
	coercion := coercer.DefaultCoercionConfig()
	if c.Config.Timezone != nil {
		coercion.Location = c.Config.Timezone
	}

	excelConfig := excel.DefaultExcelConfig()
	if c.Config.Import.SheetName != "" {
		excelConfig.SheetName = c.Config.Import.SheetName
	}

	c.Reader = excel.NewDataReader(excelConfig, c.Logger)
	c.Normalizer = importer.NewNormalizer(coercer.NewTypeCoercer(coercion), importer.DefaultHeaderRules, c.Config.Import.DefaultPlateType)
	c.ImportService = app.NewImportService(c.Reader, c.Normalizer, nil, c.Logger)
}

// InitWithDatabase attaches the Postgres task store
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.InitWithRepository(postgres.NewTaskRepository(db))
	c.Logger.Info("[Container] Initialized with database connection")
	return nil
}

// InitWithRepository attaches any task store and enables commits
func (c *Container) InitWithRepository(repo ports.TaskRepository) {
	c.TaskRepo = repo
	c.Committer = app.NewBatchCommitter(repo, c.Config.Import.ChunkSize, c.Logger)
	c.ImportService = app.NewImportService(c.Reader, c.Normalizer, c.Committer, c.Logger)
}

// Shutdown stops background components. The database handle is owned by
// the caller that opened it.
func (c *Container) Shutdown() {
	if c.SSEHub != nil {
		c.SSEHub.Close()
	}
	_ = c.Logger.Sync()
}
