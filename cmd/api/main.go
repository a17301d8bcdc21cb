package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpadp "loan-ledger-service/internal/adapter/http"
	"loan-ledger-service/internal/adapter/middleware"
	"loan-ledger-service/internal/adapter/publisher"
	"loan-ledger-service/internal/adapter/repository/mysql"
	"loan-ledger-service/internal/config"
	"loan-ledger-service/internal/infrastructure/cache"
	"loan-ledger-service/internal/infrastructure/db"
	"loan-ledger-service/internal/infrastructure/logging"
	"loan-ledger-service/internal/infrastructure/metrics"
	applicantuc "loan-ledger-service/internal/usecase/applicant"
	loanuc "loan-ledger-service/internal/usecase/loan"
	paymentuc "loan-ledger-service/internal/usecase/payment"
	"loan-ledger-service/internal/usecase/registration"
	"loan-ledger-service/pkg/token"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		// logger itself is broken; nothing better to write to
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), db.Options{LogLevel: cfg.GormLogLevel, Logger: log})
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal("database handle", zap.Error(err))
	}

	rdb, err := cache.Open(context.Background(), cache.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err != nil {
		log.Fatal("open redis", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	events := publisher.NewRedisPublisher(rdb, cfg.EventsChannel, log)

	// repositories + unit of work
	tx := mysql.NewGormUoW(gdb)
	applicants := mysql.NewApplicantRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)

	// usecases
	accounts := applicantuc.NewUsecase(applicants,
		token.NewService(cfg.JWTSecret, "loan-ledger-service", cfg.TokenTTL()),
		cfg.BcryptCost, log.Named("applicant"))
	reg := registration.NewUsecase(tx, mysql.NewAttachmentRepository(gdb),
		registration.Config{BcryptCost: cfg.BcryptCost, AttachmentMaxBytes: cfg.AttachmentMaxBytes},
		registration.WithLogger(log.Named("registration")),
		registration.WithMetrics(m),
		registration.WithPublisher(events),
		registration.WithTokenIssuer(accounts))
	loanUC := loanuc.NewUsecase(loans, tx,
		loanuc.WithLogger(log.Named("loan")),
		loanuc.WithMetrics(m),
		loanuc.WithPublisher(events),
		loanuc.WithDecisionLog(mysql.NewDecisionRepository(gdb)))
	paymentUC := paymentuc.NewUsecase(loans, payments, tx,
		paymentuc.WithLogger(log.Named("payment")),
		paymentuc.WithMetrics(m),
		paymentuc.WithPublisher(events))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(log.Named("http")))

	httpadp.Routes{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"database": sqlDB.PingContext,
			"redis":    cache.Check(rdb),
		}),
		Auth:        httpadp.NewAuthHandler(accounts, reg, log.Named("http")),
		Loans:       httpadp.NewLoanHandler(loanUC, log.Named("http")),
		Payments:    httpadp.NewPaymentHandler(paymentUC, log.Named("http")),
		RequireAuth: middleware.RequireAuth(accounts),
		Idempotency: middleware.Idempotency(rdb, cfg.IdempotencyTTL(), log.Named("idempotency")),
		Metrics:     promhttp.Handler(),
	}.Register(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		log.Warn("close redis", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
}
