package sql

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewPosgreORM(dsn string) (*DB, error) {
	pass, ok := os.LookupEnv("FEINSTAUB_SERVER_POSTGRES_PASSWORD")
	if ok {
		dsn = fmt.Sprintf("%s password=%s", dsn, pass)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return &DB{
		DB:                   gormDB,
		autoMigrationEnabled: true,
	}, nil
}
