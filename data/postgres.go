// Copyright © 2023 EcoSwell

package data

import (
	"database/sql"

	_ "github.com/lib/pq"
)

type postgres_driver struct {
}

func init() {
	RegisterDBDriver("postgres", postgres_driver{})
}

func (postgres postgres_driver) OpenDatabase(db *sql.DB) error {
	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS readings (
		timestamp   timestamp,
		run         text,
		sensor      text,
		key         text,
		min         real,
		max         real,
		avg         real
	)`); err != nil {
		db.Close()
		return err
	}

	if _, err := db.Exec(`
	CREATE INDEX IF NOT EXISTS i_readings ON readings (
		timestamp,
		sensor,
		key
	)`); err != nil {
		db.Close()
		return err
	}

	return nil
}

func (postgres postgres_driver) Close(db *sql.DB) {
}

func (postgres postgres_driver) InsertRow(db *sql.DB, row Row) error {
	stmt := `INSERT INTO readings (
		timestamp,
		run,
		sensor,
		key,
		min, max, avg
	) VALUES (to_timestamp($1), $2, $3, $4, $5, $6, $7)`

	_, err := db.Exec(stmt, row.Timestamp, row.Run, row.Sensor, row.Key, row.Min, row.Max, row.Avg)
	return err
}

func (postgres postgres_driver) QueryRows(db *sql.DB, start int64, sensor string, key string) (*sql.Rows, error) {
	stmt := `SELECT CAST(EXTRACT(EPOCH FROM timestamp) AS bigint),run,sensor,key,min,max,avg FROM readings
		WHERE
			sensor = $1 AND
			key LIKE $2 AND
			timestamp > to_timestamp($3)
		ORDER BY timestamp`
	return db.Query(stmt, sensor, key, start)
}
