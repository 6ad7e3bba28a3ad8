// Package store persists documents, analysis snapshots, their statistics and
// audit trails. A snapshot, its statistics row and its audit messages are
// committed in one transaction: they appear together or not at all.
package store

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store wraps the database handle and owns all schema knowledge.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the database behind dsn. A postgres:// DSN selects the
// Postgres driver; anything else is treated as a SQLite path (the local
// development default).
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		if dsn == "" {
			dsn = "statement-insight.db"
		}
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// AutoMigrate creates or updates the schema for all persisted models.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(
		&UploadedDocument{},
		&AnalysisSnapshot{},
		&AnalysisStatistics{},
		&AuditMessage{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}
