package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xDbibix/Better-Ticketmaster/internal/app"
	"github.com/xDbibix/Better-Ticketmaster/internal/auth"
	"github.com/xDbibix/Better-Ticketmaster/internal/clock"
	"github.com/xDbibix/Better-Ticketmaster/internal/config"
	"github.com/xDbibix/Better-Ticketmaster/internal/notification"
	"github.com/xDbibix/Better-Ticketmaster/internal/storage/postgres"
	transporthttp "github.com/xDbibix/Better-Ticketmaster/internal/transport/http"
	"github.com/xDbibix/Better-Ticketmaster/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := newLogger(cfg.App.Environment)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.URL)
	if err != nil {
		logger.Fatal("parse database url", zap.Error(err))
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(startupCtx, poolCfg)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	clk := clock.NewSystem()
	notifier := notification.NewLogNotifier(logger)
	tokens := auth.NewTokenStore()

	seatRepo := postgres.NewSeatRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	venueRepo := postgres.NewVenueRepository(pool)
	resetRepo := postgres.NewResetRepository(pool, seatRepo, bookingRepo, ticketRepo)

	seatSvc := app.NewSeatService(seatRepo, eventRepo, clk, logger,
		app.WithHoldTTL(cfg.Hold.SeatHoldTTL))
	bookingSvc := app.NewBookingService(bookingRepo, ticketRepo, userRepo, seatSvc, eventRepo, notifier, clk, logger,
		app.WithBookingTTL(cfg.Hold.BookingTTL))
	ticketSvc := app.NewTicketService(ticketRepo, userRepo, eventRepo, clk)
	eventSvc := app.NewEventService(eventRepo, seatRepo, venueRepo, resetRepo, clk, logger)
	venueSvc := app.NewVenueService(venueRepo)
	authSvc := app.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/auth/register", transporthttp.HandleRegister(authSvc))
	mux.Handle("/auth/login", transporthttp.HandleLogin(authSvc))
	mux.Handle("/auth/logout", transporthttp.HandleLogout(authSvc))
	mux.Handle("/auth/me", transporthttp.HandleMe(authSvc))

	mux.Handle("/events", transporthttp.HandleEvents(eventSvc, authSvc))
	mux.Handle("/events/", transporthttp.HandleEventItem(eventSvc, seatSvc, ticketSvc, authSvc))
	mux.Handle("/seats/hold", transporthttp.HandleHoldSeats(seatSvc, authSvc))
	mux.Handle("/seats/release", transporthttp.HandleReleaseSeats(seatSvc, authSvc))
	mux.Handle("/bookings", transporthttp.HandleBookings(bookingSvc, authSvc))
	mux.Handle("/bookings/", transporthttp.HandleBookingItem(bookingSvc, authSvc))
	mux.Handle("/tickets", transporthttp.HandleTickets(ticketSvc, authSvc))
	mux.Handle("/tickets/", transporthttp.HandleTicketItem(ticketSvc, authSvc))

	mux.Handle("/admin/events", transporthttp.HandleAdminEvents(eventSvc, authSvc))
	mux.Handle("/admin/events/", transporthttp.HandleAdminEventActions(eventSvc, authSvc))
	mux.Handle("/admin/venues", transporthttp.HandleAdminVenues(venueSvc, authSvc))
	mux.Handle("/admin/venues/", transporthttp.HandleAdminVenueItem(venueSvc, authSvc))
	mux.Handle("/admin/layouts/", transporthttp.HandleAdminLayoutSections(venueSvc, authSvc))

	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.Server.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: handler,
	}

	logger.Info("api listening", zap.String("port", cfg.Server.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
