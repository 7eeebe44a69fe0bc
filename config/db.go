package config

import (
	"sync"
)

var (
	dbOnce   sync.Once
	dbConfig *DBConfig
)

type DBConfig struct {
	Path string
}

func GetDBConfig() *DBConfig {
	dbOnce.Do(func() {
		loadEnv()

		dbConfig = &DBConfig{
			Path: getEnv("DB_PATH", "invoices.db"),
		}
	})
	return dbConfig
}
