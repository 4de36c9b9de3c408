package database

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mbolis/onboarding-feedback/config"
)

// busy connections wait this long (ms) for a lock before failing
const busyTimeout = "5000"

// Open connects to the SQLite file cfg.DBUrl, sizes the connection pool
// after cfg.DBPool and brings the schema up to date.
func Open(cfg config.Config) (db *sql.DB, err error) {
	db, err = sql.Open("sqlite3", dsn(cfg.DBUrl))
	if err != nil {
		return
	}

	pool := cfg.DBPool
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	err = db.Ping()
	if err != nil {
		db.Close()
		return
	}

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return
	}

	return
}

// dsn sets the per-connection options through the driver's DSN parameters,
// so that every pooled connection gets them, not only the first.
func dsn(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_foreign_keys=on&_busy_timeout=" + busyTimeout
}
