package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"rackops-backend/config"
	"rackops-backend/database"
	_ "rackops-backend/docs" // generated by swag
	"rackops-backend/internal/controller"
	"rackops-backend/internal/elasticsearch"
	"rackops-backend/internal/filestate"
	"rackops-backend/internal/kafka"
	"rackops-backend/internal/layout"
	"rackops-backend/internal/parser"
	"rackops-backend/internal/repository"
	"rackops-backend/internal/scheduler"
	"rackops-backend/internal/service"
	"rackops-backend/internal/timescaledb"
)

// @title           RackOps API
// @version         1.0
// @description     Datacenter operations backend: bad-log search and ingest, trouble tickets, server inventory with rack occupancy, and walking paths through the room.

// @contact.name   RackOps Team

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         logs
// @tag.description  Bad-log search, upload and deletion

// @tag.name         tickets
// @tag.description  Trouble ticket operations

// @tag.name         servers
// @tag.description  Server inventory operations

// @tag.name         racks
// @tag.description  Rack occupancy views

// @tag.name         path
// @tag.description  Walking paths through the room

// @tag.name         stats
// @tag.description  Severity statistics

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		fx.Provide(
			NewConfig,
		),
		fx.Provide(
			database.NewDB,
			NewGinEngine,
			NewRoomLayout,
			repository.NewTicketRepository,
			elasticsearch.NewElasticsearchLogRepository,
			timescaledb.ProvideTimescaleDBPool,
			timescaledb.NewTimescaleStatsRepository,
			timescaledb.NewInventoryRepository,
			elasticsearch.NewElasticLogStore,
			kafka.NewKafkaLogProducer,
			kafka.NewKafkaLogConsumer,
			NewFileStateManager,
			parser.NewKeywordClassifier,
			service.NewLogQueryService,
			service.NewLogIngestService,
			service.NewTicketService,
			NewServerService,
			service.NewPathService,
			service.NewStatsService,
			service.NewCollectorService,
			service.NewIndexerService,
			controller.NewLogController,
			controller.NewTicketController,
			controller.NewServerController,
			controller.NewPathController,
			controller.NewStatsController,
		),
		fx.Invoke(
			RegisterAPIRoutes,
			RegisterScheduler,
			EnsureRoomLayout,
			func(lc fx.Lifecycle, indexerService service.IndexerService) {
				startIndexer(lc, &wg, indexerService)
			},
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait()
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// NewRoomLayout builds the fixed room grid once; every view and path
// query shares the same instance.
func NewRoomLayout(cfg *config.Config) *layout.Layout {
	return layout.Build(cfg.Datacenter.AisleCount, cfg.Datacenter.RacksPerAisle)
}

func NewServerService(inventory repository.InventoryRepository, room *layout.Layout, cfg *config.Config) service.ServerService {
	return service.NewServerService(inventory, room, cfg.Datacenter.SlotsPerRack)
}

func NewFileStateManager(cfg *config.Config) filestate.Manager {
	return filestate.NewManager(cfg.FileState.FilePath)
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	logController *controller.LogController,
	ticketController *controller.TicketController,
	serverController *controller.ServerController,
	pathController *controller.PathController,
	statsController *controller.StatsController,
) {
	controller.RegisterLogRoutes(router, logController)
	controller.RegisterTicketRoutes(router, ticketController)
	controller.RegisterServerRoutes(router, serverController)
	controller.RegisterPathRoutes(router, pathController)
	controller.RegisterStatsRoutes(router, statsController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, collectorSvc service.CollectorService) {
	scheduler.NewScheduler(lc, cfg, collectorSvc)
}

// EnsureRoomLayout seeds the inventory schema with the fixed room on
// first start. Later starts find the room already present and do
// nothing.
func EnsureRoomLayout(lc fx.Lifecycle, inventory repository.InventoryRepository, cfg *config.Config, room *layout.Layout) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return inventory.EnsureLayout(ctx, cfg.Datacenter.Name, room)
		},
	})
}

// startIndexer runs the indexer loop in a goroutine tied to the fx
// lifecycle; the WaitGroup lets main wait for it after Stop.
func startIndexer(lc fx.Lifecycle, wg *sync.WaitGroup, indexerService service.IndexerService) {
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting indexer goroutine")
			go indexerService.Run(ctx, wg)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling indexer goroutine to stop...")
			cancel()
			return nil
		},
	})
}
