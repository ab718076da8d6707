package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter: JSON-логгер с уровнем debug в dev. Каждая запись несёт
// run_id процесса, чтобы отличать перезапуски в общем потоке логов.
func NewWithWriter(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", "warehouse-ops", "run_id", uuid.NewString())
}
