package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobfair/internal/app"
	"jobfair/internal/handlers"
	"jobfair/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 20 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the registration web server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logger.New("main").Function("runServe")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.NewWithConfig(cfg, nil)
	if err != nil {
		return log.Err("failed to initialize app", err)
	}

	server := fiber.New(fiber.Config{
		AppName:               "jobfair",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})

	if err := handlers.Router(server, a); err != nil {
		_ = a.Close()
		return log.Err("failed to register routes", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		log.Info("Server listening", "addr", addr, "variant", a.Variant.Name, "formURL", a.Locator.FormURL())
		listenErr <- server.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		_ = a.Close()
		if err != nil {
			return log.Err("server stopped", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		shutdownErr = log.Err("failed to stop server", err)
	}
	if err := a.Shutdown(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, log.Err("failed to close app", err))
	}

	return shutdownErr
}
