package logging

import (
	"log/slog"
	"os"
)

// Setup installs the global slog logger: JSON records to stdout at INFO.
// The Postgres handler is attached later, once the database is up.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
