package postgresql

import (
	"context"
	"fmt"

	"github.com/aniladanir/retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// Initialize initializes the db session and auto migrates given models
func Initialize(ctx context.Context, connStr string, models []any) (*gorm.DB, error) {
	retrier, err := retry.New(retry.WithMaxAttemps(connectAttempts))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize retrier: %w", err)
	}

	// retry connect
	var db *gorm.DB
	var openErr error
	connected := <-retrier.Retry(ctx, func(attempt int) (terminate bool) {
		db, openErr = gorm.Open(postgres.Open(connStr), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		return openErr == nil
	}, true)
	if !connected {
		if openErr == nil {
			openErr = ctx.Err()
		}
		return nil, fmt.Errorf("failed to connect to postgres: %w", openErr)
	}

	if err = db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate models: %w", err)
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDb, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDb.Close()
}
