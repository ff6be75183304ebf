package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// IndexConfig selects the secondary index database.
type IndexConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	// SlowThreshold is reported by the gorm logger; zero keeps one second.
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

type IndexService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewIndexService opens and migrates the index database. SQLite uses the
// pure-Go modernc driver; ":memory:" keeps one connection so the schema
// survives for the life of the process.
func NewIndexService(cfg IndexConfig, logg *logger.Logger) (*IndexService, error) {
	serviceLog := logg.With("service", "IndexService")

	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = time.Second
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s index db: %w", cfg.Driver, err)
	}
	if strings.EqualFold(cfg.Driver, DriverSQLite) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, err
	}
	serviceLog.Info("index db ready", "driver", cfg.Driver)
	return &IndexService{db: db, log: serviceLog}, nil
}

func dialectorFor(cfg IndexConfig) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverSQLite, "":
		dsn := strings.TrimSpace(cfg.DSN)
		if dsn == "" {
			dsn = ":memory:"
		}
		return sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, nil
	case DriverPostgres:
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, fmt.Errorf("postgres index db requires a dsn")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported index driver %q", cfg.Driver)
	}
}

func (s *IndexService) DB() *gorm.DB { return s.db }

// Ping backs the readiness probe.
func (s *IndexService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *IndexService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
