package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/flyhigh/internal/app"
	"github.com/dharmasatrya/flyhigh/internal/config"
	"github.com/dharmasatrya/flyhigh/internal/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	if err := cfg.Proxy.Validate(); err != nil {
		log.Printf("Warning: %v (searches will fail until it is set)", err)
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(cfg.Server.AllowedOrigins, ","),
	}))
	e.Use(middleware.RequestID())

	handler.RegisterRoutes(e,
		handler.NewSearchHandler(a.Orchestrator, a.LLM, a.Recorder),
		handler.NewConversationHandler(a.Sessions, a.LLM),
		handler.NewTransactionHandler(a.Recorder),
	)

	go func() {
		log.Printf("Starting flight search server on port %s", cfg.Server.Port)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
