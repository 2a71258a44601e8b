package http

import (
	"net/http"

	"semaforo-srv/internal/alert"
	"semaforo-srv/pkg/errors"
	"semaforo-srv/pkg/response"
)

var errMapping = response.ErrorMapping{
	alert.ErrAlertNotFound:     errors.NewHTTPError(40403, "Alert not found", http.StatusNotFound),
	alert.ErrInvalidTransition: errors.NewHTTPError(40901, "Alert is not in a state that allows this action", http.StatusConflict),
	alert.ErrRetriesExhausted:  errors.NewHTTPError(40902, "Alert retries exhausted", http.StatusConflict),
}
