package app

import (
	"context"
	"net/http"
	"os"

	"jobfair/config"
	"jobfair/internal/database"
	"jobfair/internal/events"
	"jobfair/internal/form"
	"jobfair/internal/handlers/middleware"
	"jobfair/internal/logger"
	"jobfair/internal/qrcode"
	"jobfair/internal/repositories"
	"jobfair/internal/services"
	"jobfair/internal/views"
	"jobfair/internal/websockets"

	adminController "jobfair/internal/controllers/admin"
	registrationController "jobfair/internal/controllers/registration"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config
	Variant    form.Variant
	Locator    qrcode.Locator
	Renderer   *views.Renderer

	// Services
	Dispatcher    *services.SubmissionDispatcher
	ExportService *services.ExportService

	// Repositories
	FormStateRepo repositories.FormStateRepository
	// DispatchOutcomeRepo is nil when no database is configured.
	DispatchOutcomeRepo repositories.DispatchOutcomeRepository

	// Controllers
	RegistrationController *registrationController.RegistrationController
	AdminController        *adminController.AdminController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(config, nil)
}

// NewWithConfig builds the object graph from config. A nil client uses a
// default http.Client for dispatches.
func NewWithConfig(config config.Config, client *http.Client) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	logger.Configure(os.Stdout, config.LogLevel, config.LogFormat)

	variant, err := form.LookupVariant(config.FormVariant)
	if err != nil {
		return &App{}, log.Err("failed to select form variant", err)
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		return &App{}, log.Err("failed to load views", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New()

	// Initialize repositories
	formStateRepo := repositories.NewFormState(db, config.SessionTTL)
	var dispatchOutcomeRepo repositories.DispatchOutcomeRepository
	if db.SQL != nil {
		dispatchOutcomeRepo = repositories.NewDispatchOutcome(db, config.DiagnosticsEmailDigestKey)
	}

	// Initialize services
	dispatcher := services.NewSubmissionDispatcher(services.DispatcherConfig{
		Endpoint: config.DispatchEndpoint,
		Timeout:  config.DispatchTimeout,
	}, client, services.NewLogSink(), eventBus)
	if dispatchOutcomeRepo != nil {
		dispatcher.AddSink(dispatchOutcomeRepo)
	}
	exportService := services.NewExportService()
	if !dispatcher.Configured() {
		log.Warn("submission endpoint not configured, submissions will only be acknowledged locally")
	}

	// Initialize controllers with repositories and services
	middleware := middleware.New(config)
	registrationController := registrationController.New(variant, dispatcher, formStateRepo)
	locator := qrcode.NewLocator(config.QRServiceURL, config.FormURL())
	adminController := adminController.New(dispatchOutcomeRepo, exportService, locator)

	websocket, err := websockets.New(eventBus)
	if err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:               db,
		Config:                 config,
		Middleware:             middleware,
		Websocket:              websocket,
		EventBus:               eventBus,
		Variant:                variant,
		Locator:                locator,
		Renderer:               renderer,
		Dispatcher:             dispatcher,
		ExportService:          exportService,
		FormStateRepo:          formStateRepo,
		DispatchOutcomeRepo:    dispatchOutcomeRepo,
		RegistrationController: registrationController,
		AdminController:        adminController,
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	if a.Variant.Name == "" {
		return log.ErrMsg("form variant is not set")
	}

	nilChecks := map[string]bool{
		"websocket":              a.Websocket == nil,
		"eventBus":               a.EventBus == nil,
		"renderer":               a.Renderer == nil,
		"dispatcher":             a.Dispatcher == nil,
		"formStateRepo":          a.FormStateRepo == nil,
		"registrationController": a.RegistrationController == nil,
		"adminController":        a.AdminController == nil,
		"exportService":          a.ExportService == nil,
	}

	for name, isNil := range nilChecks {
		if isNil {
			return log.Error("nil check failed", "dependency", name)
		}
	}

	return nil
}

// Shutdown waits for in-flight dispatches, bounded by ctx, then closes.
func (a *App) Shutdown(ctx context.Context) error {
	log := logger.New("app").Function("Shutdown")

	if a.Dispatcher != nil {
		if err := a.Dispatcher.Wait(ctx); err != nil {
			log.Warn("in-flight dispatches did not finish before shutdown", "error", err)
		}
	}

	return a.Close()
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
