package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/empcrud/internal/config"
	"github.com/locvowork/empcrud/internal/database"
	"github.com/locvowork/empcrud/internal/domain"
	"github.com/locvowork/empcrud/internal/handler"
	"github.com/locvowork/empcrud/internal/logger"
	"github.com/locvowork/empcrud/internal/middleware"
	"github.com/locvowork/empcrud/internal/repository"
	"github.com/locvowork/empcrud/internal/service"
	"github.com/locvowork/empcrud/internal/service/serviceutils"
)

type App struct {
	Echo *echo.Echo
	DB   *sql.DB
	// ES is nil when ES_URL is empty.
	ES *database.ElasticSearchClient

	EmployeeRepo domain.EmployeeRepository
}

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Employee   *handler.EmployeeHandler
	Department *handler.DepartmentHandler
	Export     *handler.ExportHandler
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = serviceutils.HTTPErrorHandler
	return &App{Echo: e}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	db, err := database.NewPostgresDB(ctx, database.Config{
		Host:            cfg.DB_HOST,
		Port:            cfg.DB_PORT,
		User:            cfg.DB_USER,
		Password:        cfg.DB_PASSWORD,
		DBName:          cfg.DB_NAME,
		SSLMode:         cfg.DB_SSL_MODE,
		MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	if cfg.DB_AUTO_MIGRATE {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		logger.InfoLog(ctx, "Database schema is up to date")
	}

	var indexer domain.EmployeeIndexer
	if cfg.ES_URL != "" {
		es, err := database.NewElasticSearchClient(cfg.ES_URL, cfg.ES_INDEX)
		if err != nil {
			return err
		}
		a.ES = es
		indexer = es
		logger.InfoLog(ctx, "Search mirror enabled on index %s", cfg.ES_INDEX)
	}

	a.EmployeeRepo = repository.NewEmployeeRepository(db)
	empSvc := service.NewEmployeeService(a.EmployeeRepo, indexer, service.ListOptions{
		PageSize:      cfg.PAGE_SIZE,
		NavigatePages: cfg.NAVIGATE_PAGES,
	})
	deptSvc := service.NewDepartmentService(repository.NewDepartmentRepository(db))

	a.RegisterMiddlewares()
	a.RegisterRoutes(Handlers{
		Employee:   handler.NewEmployeeHandler(empSvc),
		Department: handler.NewDepartmentHandler(deptSvc),
		Export:     handler.NewExportHandler(empSvc, cfg.EXPORT_TEMPLATE_PATH),
	})
	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(echomw.Recover())
	a.Echo.Use(echomw.CORS())
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.RequestLogger())
}

func (a *App) RegisterRoutes(h Handlers) {
	emps := a.Echo.Group("/emps")
	emps.GET("", h.Employee.ListHandler)
	emps.GET("/all", h.Employee.AllHandler)
	emps.GET("/search", h.Employee.SearchHandler)
	emps.GET("/export", h.Export.ExportHandler)

	a.Echo.POST("/emp", h.Employee.CreateHandler)
	a.Echo.GET("/emp/:id", h.Employee.GetHandler)
	a.Echo.PUT("/emp/:id", h.Employee.UpdateHandler)
	// the segment may also be a "-" joined batch such as 1-2-3
	a.Echo.DELETE("/emp/:id", h.Employee.DeleteHandler)

	a.Echo.GET("/checkuser", h.Employee.CheckUserHandler)
	a.Echo.GET("/depts", h.Department.ListHandler)
}

func (a *App) Run() error {
	defer a.DB.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
