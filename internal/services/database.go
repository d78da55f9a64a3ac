package services

import (
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"picxury_api/internal/models"

	applog "picxury_api/internal/logger"
)

// InitDB initializes the database connection with connection pooling.
// DSNs starting with "file:" or ending in ".db" open an embedded SQLite
// database, which is handy for local runs without Postgres.
func InitDB(dsn string, logMode string) (*gorm.DB, error) {
	level := logger.Info
	if logMode == "production" {
		level = logger.Warn
	}

	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if isSQLite(dsn) {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	applog.Log.Infow("database connection established", "driver", db.Dialector.Name())
	return db, nil
}

func isSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, "file:") || strings.HasSuffix(dsn, ".db")
}

func dialectorFor(dsn string) gorm.Dialector {
	if isSQLite(dsn) {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	applog.Log.Info("running database migrations")

	err := db.AutoMigrate(models.All()...)
	if err != nil {
		return err
	}

	applog.Log.Info("database migrations completed")
	return nil
}
