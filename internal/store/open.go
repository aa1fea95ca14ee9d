package store

import (
	"context"
	"fmt"
	"strings"
)

// Drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and addresses a sheet backend.
type Options struct {
	Driver string
	Path   string
	DSN    string
	Table  string
}

// Open returns the table for opts.Driver.
func Open(ctx context.Context, opts Options) (Table, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite store needs a path")
		}
		return OpenSQLite(opts.Path, opts.Table)
	case DriverPostgres, "postgresql":
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres store needs a dsn")
		}
		return OpenPostgres(ctx, opts.DSN, opts.Table)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
