// Package notify delivers user-facing notifications raised by API calls.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/dtroode/tourdesk/internal/logger"
	"github.com/dtroode/tourdesk/internal/model"
)

var (
	_ model.Notifier = (*Console)(nil)
	_ model.Notifier = (*Sentry)(nil)
	_ model.Notifier = Multi(nil)
	_ model.Notifier = Nop{}
)

// Console prints notifications for the operator and records them in the log.
type Console struct {
	out    io.Writer
	logger *logger.Logger
}

// NewConsole creates a Console notifier writing to out.
func NewConsole(out io.Writer, logger *logger.Logger) *Console {
	return &Console{out: out, logger: logger.Component("notify")}
}

func (c *Console) Notify(_ context.Context, n model.Notification) {
	if n.Message == "" {
		return
	}

	prefix := "✓"
	if n.Level == model.NotificationError {
		prefix = "✗"
		c.logger.Warn("request failed",
			"method", n.Method,
			"path", n.Path,
			"status", n.Status,
			"message", n.Message)
	}
	fmt.Fprintf(c.out, "%s %s\n", prefix, n.Message)
}

// Sentry reports server-side failures (status 500 and above).
type Sentry struct {
	hub *sentry.Hub
}

// NewSentry creates a Sentry notifier reporting through hub.
func NewSentry(hub *sentry.Hub) *Sentry {
	return &Sentry{hub: hub}
}

func (s *Sentry) Notify(_ context.Context, n model.Notification) {
	if n.Level != model.NotificationError || n.Status < http.StatusInternalServerError {
		return
	}

	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("http.method", n.Method)
		scope.SetTag("http.path", n.Path)
		scope.SetExtra("status", n.Status)
		scope.SetLevel(sentry.LevelError)
		s.hub.CaptureMessage(fmt.Sprintf("API %s %s failed with %d: %s", n.Method, n.Path, n.Status, n.Message))
	})
}

// Multi fans a notification out to every notifier.
type Multi []model.Notifier

func (m Multi) Notify(ctx context.Context, n model.Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}

// Nop drops notifications.
type Nop struct{}

func (Nop) Notify(context.Context, model.Notification) {}
