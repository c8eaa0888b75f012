package postgres

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

var (
	connectOnce sync.Once
	sharedDB    *sql.DB
	connectErr  error
)

// Connect opens the process-wide connection pool. The first call dials and
// pings the database; subsequent calls return the same pool. Services never
// see the handle directly, only repositories constructed around it.
func Connect(url string) (*sql.DB, error) {
	connectOnce.Do(func() {
		db, err := sql.Open("postgres", url)
		if err != nil {
			connectErr = fmt.Errorf("open database: %w", err)
			return
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.Ping(); err != nil {
			connectErr = fmt.Errorf("ping database: %w", err)
			return
		}
		sharedDB = db
	})
	return sharedDB, connectErr
}
