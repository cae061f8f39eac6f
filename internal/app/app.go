package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/eodhd"
	"github.com/ternarybob/bosbiss/internal/handlers"
	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/services/events"
	"github.com/ternarybob/bosbiss/internal/services/llm"
	"github.com/ternarybob/bosbiss/internal/services/scheduler"
	"github.com/ternarybob/bosbiss/internal/services/session"
	"github.com/ternarybob/bosbiss/internal/storage"
)

// maintenanceTimeout bounds one storage GC run
const maintenanceTimeout = 10 * time.Minute

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Services
	EventService     interfaces.EventService
	LLMFactory       *llm.ProviderFactory
	InsightService   interfaces.InsightGenerator
	PriceLookup      interfaces.PriceLookup
	Session          *session.Session
	SchedulerService *scheduler.Service

	// Handlers
	APIHandler       *handlers.APIHandler
	SessionHandler   *handlers.SessionHandler
	WatchlistHandler *handlers.WatchlistHandler
	SchedulerHandler *handlers.SchedulerHandler
	WSHandler        *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app.EventService = events.NewService(app.Logger)
	if err := events.SubscribeLoggerToAllEvents(app.EventService, app.Logger); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to subscribe event logger: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initHandlers(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	logger.Info().
		Str("session_id", app.Session.ID()).
		Str("llm_provider", string(cfg.LLM.DefaultProvider)).
		Str("price_provider", string(cfg.Price.Provider)).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes the collaborators, the session and the scheduler
func (a *App) initServices() error {
	a.LLMFactory = llm.NewProviderFactory(&a.Config.Gemini, &a.Config.Claude, &a.Config.LLM, a.Logger)
	a.InsightService = llm.NewInsightService(a.LLMFactory, "", a.Logger)
	a.PriceLookup = NewPriceLookup(a.Config, a.LLMFactory, a.Logger)

	a.Session = session.New(context.Background(), session.Options{
		Insight:        a.InsightService,
		Prices:         a.PriceLookup,
		Storage:        a.StorageManager.WatchlistStorage(),
		Events:         a.EventService,
		InsightTimeout: common.ParseDurationOr(a.Config.Session.InsightTimeout, session.DefaultInsightTimeout),
		PriceTimeout:   common.ParseDurationOr(a.Config.Session.PriceTimeout, session.DefaultPriceTimeout),
	}, a.Logger)

	if !a.Config.Scheduler.Enabled {
		a.Logger.Debug().Msg("Scheduler disabled")
		return nil
	}

	a.SchedulerService = scheduler.NewService(a.Logger, maintenanceTimeout)
	if err := a.SchedulerService.RegisterStorageGC(a.StorageManager, a.Config.Scheduler.GCSchedule, a.Config.Scheduler.GCRatio); err != nil {
		return fmt.Errorf("failed to register storage maintenance: %w", err)
	}
	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	return nil
}

// NewPriceLookup selects the price collaborator. EODHD without an API key
// falls back to the search-grounded Gemini lookup.
func NewPriceLookup(cfg *common.Config, factory *llm.ProviderFactory, logger arbor.ILogger) interfaces.PriceLookup {
	if cfg.Price.Provider == common.PriceProviderEODHD {
		apiKey, err := common.ResolveAPIKey("eodhd_api_key", cfg.EODHD.APIKey)
		if err == nil {
			opts := []eodhd.ClientOption{
				eodhd.WithLogger(logger),
				eodhd.WithHTTPClient(&http.Client{
					Timeout: common.ParseDurationOr(cfg.EODHD.Timeout, eodhd.DefaultTimeout),
				}),
			}
			if cfg.EODHD.BaseURL != "" {
				opts = append(opts, eodhd.WithBaseURL(cfg.EODHD.BaseURL))
			}
			if cfg.EODHD.Exchange != "" {
				opts = append(opts, eodhd.WithExchange(cfg.EODHD.Exchange))
			}
			if cfg.EODHD.RateLimit > 0 {
				opts = append(opts, eodhd.WithRateLimit(cfg.EODHD.RateLimit))
			}
			logger.Debug().Str("price_provider", "eodhd").Msg("Price lookup configured")
			return eodhd.NewClient(apiKey, opts...)
		}
		logger.Warn().Err(err).Msg("EODHD API key missing, using Gemini price lookup")
	}

	// Search grounding only exists on Gemini, so the model is pinned to it
	model := "gemini/" + factory.GetDefaultModel(llm.ProviderGemini)
	logger.Debug().Str("price_provider", "gemini").Str("model", model).Msg("Price lookup configured")
	return llm.NewPriceService(factory, model, cfg.Price.Market, logger)
}

// initHandlers initializes the HTTP and WebSocket handlers
func (a *App) initHandlers() error {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.SessionHandler = handlers.NewSessionHandler(a.Session, a.Logger)
	a.WatchlistHandler = handlers.NewWatchlistHandler(a.Session, a.Logger)

	var schedulerService interfaces.SchedulerService
	if a.SchedulerService != nil {
		schedulerService = a.SchedulerService
	}
	a.SchedulerHandler = handlers.NewSchedulerHandler(schedulerService, a.Logger)

	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, a.Session, a.Logger, &a.Config.WebSocket)
	if err := a.WSHandler.SubscribeToSessionEvents(); err != nil {
		return err
	}

	a.Logger.Debug().Msg("Handlers initialized")
	return nil
}

// Close closes all application resources
func (a *App) Close() error {
	// Stop scheduler service
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	// Let in-flight collaborator calls settle before storage goes away
	if a.Session != nil {
		a.Session.Wait()
	}

	if a.WSHandler != nil {
		if err := a.WSHandler.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close WebSocket handler")
		}
	}

	// Close LLM clients
	if a.LLMFactory != nil {
		if err := a.LLMFactory.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM clients")
		}
	}

	// Close event service
	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	// Close storage
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
