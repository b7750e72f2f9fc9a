// Copyright © 2023 EcoSwell

package data

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3" // Load SQLite DB driver
)

type sqlite_driver struct {
}

func init() {
	RegisterDBDriver("sqlite3", sqlite_driver{})
}

func (sqlite sqlite_driver) OpenDatabase(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS readings (
		timestamp   integer,
		run         text,
		sensor      text,
		key         text,
		min         real,
		max         real,
		avg         real
	)`)
	if err != nil {
		db.Close()
		return err
	}

	return nil
}

func (sqlite sqlite_driver) Close(db *sql.DB) {
}

func (sqlite sqlite_driver) InsertRow(db *sql.DB, row Row) error {
	stmt := `INSERT INTO readings (
		timestamp,
		run,
		sensor,
		key,
		min, max, avg
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := db.Exec(stmt, row.Timestamp, row.Run, row.Sensor, row.Key, row.Min, row.Max, row.Avg)
	return err
}

func (sqlite sqlite_driver) QueryRows(db *sql.DB, start int64, sensor string, key string) (*sql.Rows, error) {
	stmt := `SELECT timestamp,run,sensor,key,min,max,avg FROM readings
		WHERE
			sensor = ? AND
			key LIKE ? AND
			timestamp > ?
		ORDER BY timestamp`
	return db.Query(stmt, sensor, key, start)
}
