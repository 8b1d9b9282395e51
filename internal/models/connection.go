package models

// ConnectionConfig holds the postgres connection settings of the
// backing database
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}
