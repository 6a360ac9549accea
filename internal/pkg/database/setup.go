package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

// Supported DB_DRIVER values
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverNone   = "none"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

// GetDB returns the connection, nil when statistics are disabled
func GetDB() *gorm.DB {
	return DB
}

// SetupDatabase opens the database selected by DB_DRIVER and migrates it
func SetupDatabase() error {
	driver := env.GetEnv("DB_DRIVER", DriverSQLite)
	if driver == DriverNone {
		log.Info("[Database] DB_DRIVER=none, statistics disabled")
		DB = nil
		return nil
	}

	dialector, err := dialectorFor(driver)
	if err != nil {
		return err
	}

	cfg := &gorm.Config{}
	if !env.IsDev() {
		cfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(dialector, cfg)
		if err == nil {
			if err = Migrate(DB); err != nil {
				return err
			}
			log.Infof("[Database] Connected using %s", driver)
			return nil
		}

		log.Warnf("[Database] Failed to connect (try %d/%d): %v", i+1, maxRetries, err)
		if driver == DriverSQLite {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	DB = nil
	return fmt.Errorf("failed to open %s database: %w", driver, err)
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Compression{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func dialectorFor(driver string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		return sqlite.Open(env.GetEnv("SQLITE_PATH", "pixelshrink.db")), nil
	case DriverMySQL:
		// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			env.GetEnv("DB_USER", ""),
			env.GetEnv("DB_PASSWORD", ""),
			env.GetEnv("DB_HOST", "127.0.0.1"),
			env.GetEnv("DB_PORT", "3306"),
			env.GetEnv("DB_NAME", ""),
		)
		return mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}
