package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
)

// loadEnvFiles loads .env and .env.local from dir when present. Existing
// process environment variables are never overwritten.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Failed to load env file", logfields.Path(p), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(p))
	}
}
