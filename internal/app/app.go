package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/db"
	"github.com/edusphere/edusphere-backend/internal/graph"
	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/platform/neo4jdb"
	"github.com/edusphere/edusphere-backend/internal/server"
	"github.com/edusphere/edusphere-backend/internal/sse"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	SSEHub   *sse.SSEHub

	neo4j           *neo4jdb.Client
	cron            *cron.Cron
	cancel          context.CancelFunc
	shutdownTracing func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	shutdownTracing, err := initTracing(cfg.ServiceName)
	if err != nil {
		log.Warn("Tracing init failed; continuing without it", "error", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	neoClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("Neo4j init failed; graph features degrade to empty", "error", err)
		neoClient = nil
	}
	var runner graph.Runner
	if neoClient != nil {
		runner = neoClient
	}

	rdb := newRedisClient(cfg, log)
	hub := sse.NewSSEHub(log, rdb)

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, hub, runner)
	routerCfg := wireRouter(cfg, log, serviceset, hub)
	router := server.NewRouter(*routerCfg)

	return &App{
		Log:             log,
		DB:              theDB,
		Router:          router,
		Cfg:             cfg,
		Repos:           reposet,
		Services:        serviceset,
		SSEHub:          hub,
		neo4j:           neoClient,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Start launches the background pieces: the SSE Redis relay and the
// in-process deadline reminder cron.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.SSEHub.RunRedisRelay(ctx)

	a.cron = cron.New()
	if _, err := a.cron.AddFunc(a.Cfg.ReminderSpec, func() {
		if _, err := a.Services.Reminder.SendDeadlineReminders(ctx, a.Cfg.ReminderDays, false); err != nil {
			a.Log.Error("Scheduled reminder run failed", "error", err)
		}
	}); err != nil {
		a.Log.Error("Invalid reminder cron spec", "spec", a.Cfg.ReminderSpec, "error", err)
	}
	a.cron.Start()
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.cron != nil {
		a.cron.Stop()
	}
	if a.neo4j != nil {
		_ = a.neo4j.Close(context.Background())
	}
	if a.shutdownTracing != nil {
		_ = a.shutdownTracing(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
