package postgres

import "fmt"

var ErrInvalidUUID = fmt.Errorf("invalid UUID format")
