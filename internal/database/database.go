// Package database owns the gorm connection handle and schema migration.
// Repositories for each domain live in the subpackages users, catalog and
// engagement; they all share the *gorm.DB constructed here.
package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookden/bookden/internal/config"
	"github.com/bookden/bookden/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured database and migrates the schema.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of the driver.
func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Book{},
		&entities.Favorite{},
		&entities.Rating{},
		&entities.History{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		// sqlite ships with foreign_keys off, which would leave the
		// ON DELETE constraints in the schema unenforced.
		dsn := cfg.Path + "?_foreign_keys=on"
		if strings.Contains(cfg.Path, "?") {
			dsn = cfg.Path + "&_foreign_keys=on"
		}
		return sqlite.Open(dsn), nil
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires DATABASE_DSN")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
