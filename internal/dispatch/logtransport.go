package dispatch

import (
	"context"

	"semaforo-srv/internal/model"
	pkgLog "semaforo-srv/pkg/log"
)

type logTransport struct {
	l pkgLog.Logger
}

// NewLogTransport writes alerts to the service log. It is the fallback
// when no webhook is configured, so deliveries still complete and the
// scheduler does not retry forever.
func NewLogTransport(l pkgLog.Logger) Transport {
	return &logTransport{l: l}
}

func (t *logTransport) Send(ctx context.Context, a model.Alert) error {
	t.l.Infof(ctx, "internal.dispatch.logTransport: alert delivered | ID: %s | Type: %s | Severity: %s | Title: %s",
		a.ID, a.Type, a.Severity, a.Title)
	return nil
}
