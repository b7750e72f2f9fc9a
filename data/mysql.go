// Copyright © 2023 EcoSwell

package data

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

type mysql_driver struct {
}

func init() {
	RegisterDBDriver("mysql", mysql_driver{})
}

func (mysql mysql_driver) OpenDatabase(db *sql.DB) error {
	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS readings (
		timestamp   timestamp,
		run         varchar(64),
		sensor      varchar(32),
		key_        varchar(128),
		min         double,
		max         double,
		avg         double
	)`); err != nil {
		db.Close()
		return err
	}

	row := db.QueryRow(`
	SELECT COUNT(1) IndexIsThere FROM INFORMATION_SCHEMA.STATISTICS WHERE
		table_schema=DATABASE() AND
		table_name='readings' AND
		index_name='i_readings';
	`)
	var result int
	err := row.Scan(&result)
	if err != nil {
		db.Close()
		return err
	}

	if result == 0 {
		if _, err := db.Exec(`
		CREATE INDEX i_readings ON readings (
			timestamp,
			sensor,
			key_
		)`); err != nil {
			db.Close()
			return err
		}
	}

	return nil
}

func (mysql mysql_driver) Close(db *sql.DB) {
}

func (mysql mysql_driver) InsertRow(db *sql.DB, row Row) error {
	stmt := `INSERT INTO readings (
		timestamp,
		run,
		sensor,
		key_,
		min, max, avg
	) VALUES (FROM_UNIXTIME(?), ?, ?, ?, ?, ?, ?)`

	_, err := db.Exec(stmt, row.Timestamp, row.Run, row.Sensor, row.Key, row.Min, row.Max, row.Avg)
	return err
}

func (mysql mysql_driver) QueryRows(db *sql.DB, start int64, sensor string, key string) (*sql.Rows, error) {
	stmt := `SELECT UNIX_TIMESTAMP(timestamp),run,sensor,key_,min,max,avg FROM readings
		WHERE
			sensor = ? AND
			key_ LIKE ? AND
			timestamp > FROM_UNIXTIME(?)
		ORDER BY timestamp`
	return db.Query(stmt, sensor, key, start)
}
