package main // Entry point package

import (
	"context"
	"errors"
	"log" // Logging library
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/booking"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/clock"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/config"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/database"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/handler"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/middleware"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/queue"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/repository"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/router"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	loc := cfg.Location()

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
		log.Printf("db migrations applied")
	}

	facilities := repository.NewFacilityRepo(db)
	reservations := repository.NewReservationRepo(db)
	admins := repository.NewAdminRepo(db)

	opts := []booking.Option{booking.WithLocation(loc)}
	qcfg := config.LoadQueueConfig()
	if qcfg.Enabled {
		pub := service.NewPublisher(qcfg, loc)
		defer pub.Close()
		opts = append(opts, booking.WithNotifier(pub))

		consumer := queue.NewConsumer(qcfg)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("reservation-consumer stopped: %v", err)
			}
		}()
	}
	svc := booking.NewService(facilities, reservations, clock.NewSystem(), opts...)

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	submitLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(config.ScopeReservations), rdb)
	loginLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(config.ScopeLogin), rdb)

	adminHandler := handler.NewAdminHandler(cfg.JWTSecret, cfg.AccessTTLMin, admins, facilities, svc)
	adminHandler.FacilitiesChanged = func(ctx context.Context) {
		if err := middleware.InvalidateCache(ctx, rdb, cacheCfg.Prefix); err != nil {
			log.Printf("cache invalidate: %v", err)
		}
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, db)
	router.RegisterPublic(e, handler.NewPublicHandler(facilities, svc), handler.NewReservationHandler(svc), cache, submitLimit)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret, loginLimit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, tz=%s)", addr, cfg.Env, loc)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
