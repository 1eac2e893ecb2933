// Точка входа Filmorate — сервис каталога фильмов с социальным графом.
// Команды:
//   - serve (по умолчанию) — HTTP API поверх in-memory или PostgreSQL хранилища
//   - migrate — применение или откат миграций PostgreSQL
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
