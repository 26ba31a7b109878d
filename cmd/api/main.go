package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/internal/application/ports"
	"github.com/jhoicas/cctv-stock-api/internal/application/usecase"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
	infraai "github.com/jhoicas/cctv-stock-api/internal/infrastructure/ai"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/cache"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/events"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/cctv-stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cctv-stock-api/internal/interfaces/http"
	"github.com/jhoicas/cctv-stock-api/pkg/config"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// backend repositorios y TxRunner según DB_DRIVER.
type backend struct {
	txRunner     inventory.TxRunner
	products     repository.ProductRepository
	movements    repository.StockMovementRepository
	reservations repository.ReservationRepository
	pool         *pgxpool.Pool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Str("events", cfg.Events.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("inicializar persistencia")
	}
	if be.pool != nil {
		defer be.pool.Close()
	}

	// Cache del estado de stock: opcional, solo si hay Redis configurado
	var statusCache ports.StatusCache
	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		statusCache = cache.NewRedisStatusCache(client, cfg.Redis.StatusTTL)
	}

	publisher, err := openPublisher(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Events.Driver).Msg("inicializar publicación de eventos")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar publicador de eventos")
		}
	}()

	ledgerUC := inventory.NewStockLedgerUseCase(inventory.LedgerDeps{
		TxRunner:     be.txRunner,
		Products:     be.products,
		Movements:    be.movements,
		Reservations: be.reservations,
		Cache:        statusCache,
		Publisher:    publisher,
		Logger:       log.Component("ledger"),
		OpTimeout:    cfg.Ledger.OpTimeout,
	})
	lowStockUC := inventory.NewLowStockUseCase(be.products, cfg.Ledger.OpTimeout)
	reconcileUC := inventory.NewReconcileUseCase(be.txRunner, be.products, log.Component("reconcile"), cfg.Ledger.OpTimeout)
	// Kardex en PDF
	reportUC := inventory.NewMovementReportUseCase(be.products, be.movements, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	productUC := usecase.NewProductUseCase(be.products)

	var invoiceUC *usecase.InvoiceUseCase
	if extractor := openExtractor(cfg); extractor != nil {
		invoiceUC = usecase.NewInvoiceUseCase(extractor, be.products)
	} else {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("lectura de facturas con IA desactivada: falta API key")
	}

	go reconcileUC.RunPeriodic(ctx, cfg.Ledger.ReconcileInterval)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 40, // la lectura de facturas puede tardar hasta 30 s
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(usecase.MaxInvoiceSize) + 1<<20,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "CCTV Stock API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		Ledger:      ledgerUC,
		LowStock:    lowStockUC,
		Reconcile:   reconcileUC,
		Report:      reportUC,
		InvoiceUC:   invoiceUC,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		ServiceName: cfg.App.Name,
		Logger:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP")
			stop()
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor escuchando")

	<-ctx.Done()
	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.DB.Driver == "memory" {
		store := memory.NewStore(cfg.Ledger.MaxRetries, log.Component("memory"))
		return &backend{
			txRunner:     store,
			products:     store.Products(),
			movements:    store.Movements(),
			reservations: store.Reservations(),
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &backend{
		txRunner:     postgres.NewTxRunner(pool, cfg.Ledger.MaxRetries, log.Component("tx")),
		products:     postgres.NewProductRepository(pool),
		movements:    postgres.NewStockMovementRepository(pool),
		reservations: postgres.NewReservationRepository(pool),
		pool:         pool,
	}, nil
}

func openPublisher(cfg *config.Config) (ports.StockEventPublisher, error) {
	switch cfg.Events.Driver {
	case "nats":
		return events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.NATSSubject, cfg.App.Name)
	case "kafka":
		return events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic)
	default:
		return events.NopPublisher{}, nil
	}
}

// openExtractor devuelve nil si el proveedor elegido no tiene API key.
func openExtractor(cfg *config.Config) ports.InvoiceExtractor {
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.GeminiAPIKey == "" {
			return nil
		}
		return infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	default:
		if cfg.AI.AnthropicAPIKey == "" {
			return nil
		}
		return infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	}
}
