package http

import (
	"net/http"

	"semaforo-srv/internal/status"
	"semaforo-srv/pkg/errors"
	"semaforo-srv/pkg/response"
)

var errMapping = response.ErrorMapping{
	status.ErrSnapshotNotFound: errors.NewHTTPError(40401, "Campaign not found", http.StatusNotFound),
	status.ErrRecordNotFound:   errors.NewHTTPError(40402, "Status record not found", http.StatusNotFound),
	status.ErrInvalidConfig:    errors.NewHTTPError(40001, "Invalid threshold config", http.StatusBadRequest),
	status.ErrPersistence:      errors.NewHTTPError(50001, "Status persistence failed", http.StatusInternalServerError),
}
