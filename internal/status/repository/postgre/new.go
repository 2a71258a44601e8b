package postgres

import (
	"database/sql"

	"semaforo-srv/internal/status/repository"
	"semaforo-srv/pkg/log"
)

type implRepository struct {
	l  log.Logger
	db *sql.DB
}

// New creates a PostgreSQL-backed status repository.
func New(l log.Logger, db *sql.DB) repository.Repository {
	return &implRepository{
		l:  l,
		db: db,
	}
}
