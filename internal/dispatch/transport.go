package dispatch

import (
	"context"

	"semaforo-srv/internal/model"
)

// Transport delivers one alert to its recipients. The engine treats
// delivery as opaque: email, SMS or chat integrations all plug in here.
type Transport interface {
	Send(ctx context.Context, a model.Alert) error
}
