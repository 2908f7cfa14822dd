package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/smallretail/fieldsync/internal/config"
	"github.com/smallretail/fieldsync/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Embedded migrations target postgres; other dialects
		// (sqlite in tests, mysql) manage their own schema.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		}

		if cfg.Bootstrap.EnsureDefaultVendor {
			return seed.EnsureDefaultVendor(conn, cfg.Bootstrap.DefaultVendorCode)
		}
		return nil
	}),
)
