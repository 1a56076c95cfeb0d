package postgres

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

// NewPostgresDatabase connects to PostgreSQL using a lib/pq connection string.
func NewPostgresDatabase(connection string, dbLogMode bool) (*gorm.DB, error) {
	db, err := gorm.Open("postgres", connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %s", err)
	}
	db.LogMode(dbLogMode)
	return db, nil
}
