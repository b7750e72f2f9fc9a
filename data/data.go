// Copyright © 2023 EcoSwell

package data

import (
	"context"
	"database/sql"
	"sort"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
)

// Database stores aggregated readings through one of the registered drivers.
type Database struct {
	db     *sql.DB
	driver DBdriver
}

// Row is one aggregate of a sensor column over an interval.
type Row struct {
	Timestamp     int64
	Run           string
	Sensor        string
	Key           string
	Min, Max, Avg float64
}

var drivers map[string]DBdriver

// DBdriver hides the SQL dialect differences between backends.
type DBdriver interface {
	OpenDatabase(db *sql.DB) error
	Close(db *sql.DB)
	InsertRow(db *sql.DB, row Row) error
	QueryRows(db *sql.DB, start int64, sensor string, key string) (*sql.Rows, error)
}

func init() {
	drivers = make(map[string]DBdriver)
}

func RegisterDBDriver(name string, driver DBdriver) {
	drivers[name] = driver
}

func DBDrivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects to source with the named driver and prepares the schema.
func Open(driverName, source string) (*Database, error) {
	driver, ok := drivers[driverName]
	if !ok {
		return nil, errors.Errorf("unknown database driver %q", driverName)
	}

	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}

	if err := driver.OpenDatabase(db); err != nil {
		return nil, errors.Wrap(err, "prepare schema")
	}

	return &Database{db, driver}, nil
}

// OpenDatabase opens the database configured by the dbDriver and database keys.
func OpenDatabase() (*Database, error) {
	return Open(viper.GetString("dbDriver"), viper.GetString("database"))
}

func (database *Database) Close() {
	database.driver.Close(database.db)
	database.db.Close()
}

func (database *Database) InsertRow(row Row) error {
	return database.driver.InsertRow(database.db, row)
}

// QueryRows streams the rows of sensor/key newer than start. An empty key
// matches every column of the sensor. The channel is closed when the rows
// run out or ctx is cancelled.
func (database *Database) QueryRows(ctx context.Context, start int64, sensor string, key string) (<-chan Row, error) {
	if key == "" {
		key = "%"
	}
	rows, err := database.driver.QueryRows(database.db, start, sensor, key)
	if err != nil {
		return nil, err
	}

	ch := make(chan Row, 64)
	go func() {
		defer close(ch)
		defer rows.Close()
		for rows.Next() {
			if ctx.Err() != nil {
				return
			}
			var r Row
			err := rows.Scan(&r.Timestamp, &r.Run, &r.Sensor, &r.Key, &r.Min, &r.Max, &r.Avg)
			if err != nil {
				jww.ERROR.Printf("Skipping %s row: %v", sensor, err)
				continue
			}
			select {
			case ch <- r:
			case <-ctx.Done():
				return
			}
		}
		if err := rows.Err(); err != nil {
			jww.ERROR.Printf("Reading %s rows: %v", sensor, err)
		}
	}()

	return ch, nil
}
