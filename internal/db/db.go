package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vietanh2810/raffle-web/internal/config"
	"github.com/vietanh2810/raffle-web/internal/repository/dao"
)

func Open(conf *config.DatabaseConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch conf.Driver {
	case "sqlite":
		db, err = OpenSQLite(conf.Path)
	default:
		db, err = OpenPostgresWithURL(conf.DSN())
	}
	if err != nil {
		return nil, err
	}

	if err = dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	return db, nil
}

func OpenPostgres(conf *config.DatabaseConfig) (*gorm.DB, error) {
	return OpenPostgresWithURL(conf.DSN())
}

func OpenPostgresWithURL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open(postgres) -> %w", err)
	}

	return db, nil
}

// OpenSQLite is used for local runs and tests. Pass ":memory:" for a throwaway database.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		path = "raffle.db"
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open(sqlite) -> %w", err)
	}

	if path == ":memory:" {
		// Every new connection would get its own empty in-memory database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("db.DB -> %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Driver errors stay raw so the dao can tell which unique constraint failed.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
}
