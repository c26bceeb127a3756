package database

import "errors"

// ErrNotReady indicates the connection was requested before startup completed.
var ErrNotReady = errors.New("database not ready")
