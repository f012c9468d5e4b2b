package store

import (
	"fmt"

	"github.com/tordrt/musicdb/internal/db"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openGorm layers gorm over the client's existing pool so both share one
// set of connections and session settings.
func openGorm(client *db.Client) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch client.Dialect() {
	case db.SQLite:
		dialector = sqlite.Dialector{Conn: client.DB()}
	case db.Postgres:
		dialector = postgres.New(postgres.Config{Conn: client.DB()})
	case db.MySQL:
		dialector = mysql.New(mysql.Config{Conn: client.DB(), SkipInitializeWithVersion: true})
	default:
		return nil, fmt.Errorf("unsupported database type: %s", client.Dialect())
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise gorm: %w", err)
	}
	return gdb, nil
}
