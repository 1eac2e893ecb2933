package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bigkaa/filmorate/internal/config"
	"github.com/bigkaa/filmorate/internal/database"
)

func newMigrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции PostgreSQL",
		Long: `Применяет встроенные SQL-миграции к базе FM_DB_*.
С флагом --down откатывает все миграции (таблицы и данные удаляются).`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(config.StoragePostgres)
			if err != nil {
				return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
			}

			if down {
				return database.MigrateDown(cfg, logger)
			}
			return database.Migrate(cfg, logger)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "откатить все миграции")
	return cmd
}
