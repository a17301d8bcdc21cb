package db

import (
	"strings"
	"time"

	"loan-ledger-service/internal/domain/applicant"
	"loan-ledger-service/internal/domain/attachment"
	"loan-ledger-service/internal/domain/decision"
	"loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/payment"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	// LogLevel is one of silent, error, warn, info.
	LogLevel string
	Logger   *zap.Logger
}

func OpenGorm(dsn string, opts Options) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), opts)
}

// OpenGormWithDialector opens and pings; tests pass a sqlite or sqlmock-backed dialector.
func OpenGormWithDialector(dial gorm.Dialector, opts Options) (*gorm.DB, error) {
	zl := opts.Logger
	if zl == nil {
		zl = zap.NewNop()
	}
	cfg := &gorm.Config{
		Logger: logger.New(zapWriter{zl.Sugar()}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  parseLevel(opts.LogLevel),
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	zl.Info("gorm: connected", zap.String("dialect", dial.Name()))
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&applicant.Applicant{},
		&loan.Loan{},
		&payment.Payment{},
		&decision.Decision{},
		&attachment.Attachment{},
	)
}

func parseLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

type zapWriter struct{ s *zap.SugaredLogger }

func (w zapWriter) Printf(format string, args ...any) { w.s.Infof(format, args...) }
