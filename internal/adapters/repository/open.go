package repository

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

// Open returns the store for driver. location is the data directory for csv
// and the database file for sqlite.
func Open(ctx context.Context, driver, location string, opts ...Option) (Store, error) {
	switch driver {
	case DriverCSV:
		s, err := NewCSVStore(location, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx, location, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
