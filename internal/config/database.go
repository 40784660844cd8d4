// internal/config/database.go
package config

import (
	"fmt"
	"time"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

func (m *MongoConfig) ConnectTimeout() time.Duration {
	if m.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.Timeout) * time.Second
}
