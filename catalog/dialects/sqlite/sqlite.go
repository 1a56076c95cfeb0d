package sqlite

import (
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// NewSQLiteDatabase opens the sqlite database at dbPath.
func NewSQLiteDatabase(dbPath string, dbLogMode bool) (*gorm.DB, error) {
	inMemory := strings.Contains(dbPath, ":memory:")

	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=1000"
	if inMemory {
		dsn = dbPath
	}
	db, err := gorm.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %s", err)
	}
	if inMemory {
		// Every new connection to :memory: is a new, empty database.
		db.DB().SetMaxOpenConns(1)
	}
	db.LogMode(dbLogMode)
	return db, nil
}
