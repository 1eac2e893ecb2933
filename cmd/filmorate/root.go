package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bigkaa/filmorate/internal/config"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:   "filmorate",
		Short: "Filmorate — каталог фильмов, лайки и дружба пользователей",
		Long: `Filmorate хранит фильмы и пользователей, ведёт направленный граф дружбы
и журнал лайков, строит рейтинг популярных фильмов.

Конфигурация задаётся переменными окружения FM_*.
Без подкоманды выполняется serve.`,
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newMigrateCmd())
	return root
}

// loadConfig загружает конфигурацию. storage, если не пуст, заменяет FM_STORAGE
// до загрузки, чтобы обязательные параметры БД проверялись для нужного бэкенда.
func loadConfig(storage string) (*config.Config, *slog.Logger, error) {
	if storage != "" {
		if err := os.Setenv("FM_STORAGE", storage); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, config.SetupLogger(cfg), nil
}
