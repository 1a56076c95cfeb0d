// Package catalog stores media assets, their codec variants and the global
// codec preference ordering.
package catalog

import (
	"strings"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/catalog/dialects/mysql"
	"gitlab.com/olaris/olaris-variants/catalog/dialects/postgres"
	"gitlab.com/olaris/olaris-variants/catalog/dialects/sqlite"
)

// InMemory is a connection string for a throwaway sqlite database.
const InMemory = "sqlite3://:memory:"

var db *gorm.DB

// DatabaseOptions selects and configures the database.
type DatabaseOptions struct {
	// Connection is "<dialect>://<dsn>", dialect one of sqlite3, mysql, postgres.
	Connection string
	LogMode    bool
}

// NewDb opens the database described by options, migrates the schema and makes
// it the catalog's active database.
func NewDb(options DatabaseOptions) (*gorm.DB, error) {
	parts := strings.SplitN(options.Connection, "://", 2)
	if len(parts) != 2 {
		return nil, errors.Errorf("invalid database connection string %q", options.Connection)
	}

	var database *gorm.DB
	var err error
	switch parts[0] {
	case "sqlite3":
		database, err = sqlite.NewSQLiteDatabase(parts[1], options.LogMode)
	case "mysql":
		database, err = mysql.NewMySQLDatabase(parts[1], options.LogMode)
	case "postgres":
		database, err = postgres.NewPostgresDatabase(options.Connection, options.LogMode)
	default:
		return nil, errors.Errorf("unsupported database dialect %q", parts[0])
	}
	if err != nil {
		return nil, err
	}

	if err := migrate(database); err != nil {
		database.Close()
		return nil, errors.Wrap(err, "failed to migrate catalog schema")
	}

	log.WithFields(log.Fields{"dialect": parts[0]}).Debugln("catalog database ready")
	db = database
	return database, nil
}
