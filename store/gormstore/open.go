package gormstore

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres at dsn and migrates the custody tables. Driver errors
// are translated, so a unique violation surfaces as gorm.ErrDuplicatedKey.
func Open(ctx context.Context, dsn string, level logger.LogLevel) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return s, nil
}
