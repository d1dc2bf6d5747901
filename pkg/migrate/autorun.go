package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at api startup, only in dev with
// SHOPDESK_AUTO_MIGRATE set. Other environments run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	runner, err := NewRunner(sqlDB, Embedded(), logg)
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "applying migrations (dev auto-run)")
	if err := runner.Exec(ctx, "up"); err != nil {
		return err
	}
	logg.Info(ctx, "migrations up to date")
	return nil
}
