// Command server runs the Menu Maker API: registration, login, token
// refresh, and the bearer-guarded profile endpoints.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gastoncarriquiry/menu-maker/auth"
	"github.com/gastoncarriquiry/menu-maker/auth/password"
	"github.com/gastoncarriquiry/menu-maker/config"
	"github.com/gastoncarriquiry/menu-maker/logger"
	"github.com/gastoncarriquiry/menu-maker/observability"
	"github.com/gastoncarriquiry/menu-maker/server"
	"github.com/gastoncarriquiry/menu-maker/server/handler"
	"github.com/gastoncarriquiry/menu-maker/server/middleware"
	"github.com/gastoncarriquiry/menu-maker/store"
	"github.com/gastoncarriquiry/menu-maker/version"
)

const gracefulTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	log.Info("Configuration loaded", logger.Fields(
		"environment", cfg.Environment,
		"store", cfg.Store.Driver,
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, observability.Config{
			ServiceName:    cfg.Name,
			ServiceVersion: version.Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Environment != "production",
			SampleRatio:    cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("Tracer shutdown failed")
			}
		}()
	}

	var userStore store.UserStore
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pg.Close()
		userStore = pg
		log.Info("Connected to PostgreSQL")
	default:
		userStore = store.NewMemoryStore()
		log.Warn("Using in-memory user store; data will not survive restarts")
	}

	codec, err := auth.NewCodec(&cfg.Auth)
	if err != nil {
		return err
	}
	svc := auth.NewService(userStore, password.NewBcryptHasher(), codec, log)

	srv := server.New(cfg.Server, log)
	engine := srv.Engine()
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(cfg.Server.CORSOrigins))
	engine.Use(middleware.RequestLogger(log))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing())
	}

	authHandler := handler.NewAuthHandler(svc, log)
	healthHandler := handler.NewHealthHandler(userStore)
	server.MountAuth(engine, authHandler, middleware.RequireAuth(codec))
	server.MountHealth(engine, healthHandler, handler.Welcome)

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("Menu Maker API ready", logger.Fields("port", cfg.Server.Port))

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
