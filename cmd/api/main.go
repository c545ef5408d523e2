package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/config"
	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	appHTTP "github.com/driverwallet/shift-backend-go/internal/handler/http"
	"github.com/driverwallet/shift-backend-go/internal/pkg/cron"
	"github.com/driverwallet/shift-backend-go/internal/pkg/database"
	"github.com/driverwallet/shift-backend-go/internal/pkg/jwt"
	"github.com/driverwallet/shift-backend-go/internal/pkg/sse"
	"github.com/driverwallet/shift-backend-go/internal/repository/postgresql"
	"github.com/driverwallet/shift-backend-go/internal/repository/sqlite"
	serviceAuth "github.com/driverwallet/shift-backend-go/internal/service/auth"
	ledgerService "github.com/driverwallet/shift-backend-go/internal/service/ledger"
	shiftService "github.com/driverwallet/shift-backend-go/internal/service/shift"
)

var version = "dev"

type stores struct {
	shifts shift.ShiftRepository
	ledger ledger.LedgerRepository
	tx     shift.Transactor
	close  func()
}

func openStores(ctx context.Context, cfg *config.Config, loc *time.Location) (stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return stores{}, err
		}
		if err := database.MigratePostgreSQL(ctx, db); err != nil {
			db.Close()
			return stores{}, err
		}
		return stores{
			shifts: postgresql.NewShiftRepository(db, loc),
			ledger: postgresql.NewLedgerRepository(db, loc),
			tx:     postgresql.NewTransactor(db),
			close:  db.Close,
		}, nil

	default:
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return stores{}, err
		}
		if err := database.MigrateSQLite(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, err
		}
		return stores{
			shifts: sqlite.NewShiftRepository(db, loc),
			ledger: sqlite.NewLedgerRepository(db, loc),
			tx:     sqlite.NewTransactor(db),
			close:  func() { _ = db.Close() },
		}, nil
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})))

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("Invalid timezone", "error", err)
		os.Exit(1)
	}
	clock := func() time.Time { return time.Now().In(loc) }

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, loc)
	if err != nil {
		slog.Error("Error opening database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer st.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	shiftSvc := shiftService.NewShiftService(st.shifts, st.ledger, st.tx, cfg.Policy(), loc, clock)
	ledgerSvc := ledgerService.NewLedgerService(st.ledger, shiftSvc, st.tx, loc, clock)
	authSvc := serviceAuth.NewAuthService(JWTService, cfg.Auth.PINHash)

	scheduler := cron.NewScheduler(loc)
	if err := cron.NewShiftJobs(shiftSvc, hub, clock).RegisterJobs(scheduler, cfg.Shift.SweepInterval); err != nil {
		slog.Error("Failed to register cron jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins:     cfg.App.AllowedOrigins,
			LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
			Env:                cfg.App.Env,
			Version:            version,
		},
		JWTService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewShiftHandler(shiftSvc, ledgerSvc, hub, clock),
		appHTTP.NewLedgerHandler(ledgerSvc),
		appHTTP.NewStatusStreamHandler(shiftSvc, JWTService, hub, cfg.Shift.StreamInterval, clock),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
