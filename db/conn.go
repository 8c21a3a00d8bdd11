// Package db opens the database connection
package db

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
	"github.com/mastkeey/cb-cloud-service/pkg/util"
)

func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch viper.GetString("db.driver") {
	case "postgres":
		dialector = postgres.Open(viper.GetString("db.dsn"))
	default:
		dsn := viper.GetString("db.dsn")

		// In a container the sqlite file must come from a volume, a
		// fresh one inside the container would vanish on restart
		if util.IsRunningInDocker() {
			if _, err := os.Stat(dsn); err != nil {
				return nil, fmt.Errorf("SQLite database file not mounted, please mount it to /app/%s", dsn)
			}
		}

		dialector = sqlite.Open(dsn)
	}

	// TranslateError is what lets the services see unique-constraint
	// races as gorm.ErrDuplicatedKey instead of driver-specific errors
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Workspace{}, model.File{}, model.UserWorkspace{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
