package config

import (
	"time"

	"github.com/spf13/viper"
)

// Data holds the data layer settings.
type Data struct {
	Database *Database
}

// Database describes one relational database connection.
type Database struct {
	Driver          string // postgres, mysql, sqlite
	Source          string // DSN
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifeTime time.Duration
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		Database: &Database{
			Driver:          getStringOrDefault(v, "data.database.driver", "postgres"),
			Source:          v.GetString("data.database.source"),
			MaxIdleConn:     getIntOrDefault(v, "data.database.max_idle_conn", 10),
			MaxOpenConn:     getIntOrDefault(v, "data.database.max_open_conn", 100),
			ConnMaxLifeTime: getDurationOrDefault(v, "data.database.conn_max_life_time", time.Hour),
		},
	}
}
