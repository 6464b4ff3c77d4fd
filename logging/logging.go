package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once sync.Once
	base *slog.Logger
)

// Init configures the global logger exactly once.
// Call this in main(): logging.Init("resto-pos", "./logs/app.log")
func Init(component, filePath string) *slog.Logger {
	once.Do(func() {
		_ = os.MkdirAll("./logs", 0755)

		rot := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		mw := io.MultiWriter(os.Stdout, rot)

		h := slog.NewJSONHandler(mw, &slog.HandlerOptions{Level: slog.LevelInfo})
		base = slog.New(h).With("component", component)
	})
	return base
}

// Base returns the global logger (Init if not already called).
func Base() *slog.Logger {
	if base == nil {
		return Init("app", "./logs/app.log")
	}
	return base
}

// New returns a child logger derived from the global one.
func New(component string) *slog.Logger {
	return Base().With("component", component)
}

// With stores the logger in gin.Context.
func With(c *gin.Context, l *slog.Logger) {
	c.Set("logger", l)
}

// From returns the request-scoped logger from gin.Context, or the global one.
func From(c *gin.Context) *slog.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Base()
}
