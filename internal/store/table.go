// Package store persists user profiles to a sheet-like keyed table.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Record is one sheet row: column name to cell text.
type Record map[string]string

// Row is a stored record with its row handle and lookup key.
type Row struct {
	ID     int64
	Key    string
	Record Record
}

// ErrRowNotFound is returned when updating a row that no longer exists.
var ErrRowNotFound = errors.New("row not found")

// Table is the abstract keyed document table the gateway writes to.
// Find returns the first row whose key matches.
type Table interface {
	Rows(ctx context.Context) ([]Row, error)
	Find(ctx context.Context, key string) (Row, bool, error)
	UpdateRow(ctx context.Context, id int64, key string, rec Record) error
	AppendRow(ctx context.Context, key string, rec Record) (int64, error)
	Close() error
}

// DefaultTableName is used when no table is configured.
const DefaultTableName = "profiles"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

func checkTableName(name string) (string, error) {
	if name == "" {
		return DefaultTableName, nil
	}
	if !tableNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return name, nil
}
