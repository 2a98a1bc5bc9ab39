package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/kharelpawan/uaebackend/internal/store"
)

// buildLogger constructs the process logger from the log.* config keys.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(viper.GetString("log.level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(viper.GetString("log.format")) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openStore opens the database named by the db.* config keys and runs
// migrations. The caller owns the returned store and must Close it.
func openStore() (*store.Store, error) {
	driver := viper.GetString("db.driver")
	dsn := viper.GetString("db.dsn")

	st, err := store.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store (%s): %w", driver, err)
	}
	return st, nil
}
