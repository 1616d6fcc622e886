// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the per-request logger injected by the HTTP middleware, so
// every line from a handler carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("fabric created", "id", f.ID)
//	// → time=... level=INFO msg="fabric created" request_id=a1b2c3d4 id=4
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/telascatalogo/telas/config"
)

var (
	L    *slog.Logger
	base slog.Handler
	mu   sync.Mutex
)

func init() {
	base = newBaseHandler(os.Stdout, config.AppEnv())
	L = slog.New(base)
	slog.SetDefault(L)
}

func newBaseHandler(w io.Writer, env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "testing", "test":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// SetOutput rebuilds the base handler writing to w. Used by the CLI to keep
// stdout clean for command output, and by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = newBaseHandler(w, config.AppEnv())
	L = slog.New(base)
	slog.SetDefault(L)
}

// AttachMongo fans every record out to a MongoDB collection in addition to
// the base handler. The returned func flushes and disconnects.
func AttachMongo(uri, db, collection string) (func(), error) {
	h, err := NewMongoHandler(uri, db, collection)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	L = slog.New(NewMultiHandler(base, h))
	slog.SetDefault(L)
	mu.Unlock()
	return h.Close, nil
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
