package config

import (
	"fmt"
	"log"
	"os"
)

// Placeholder values shipped in sample env files; the networked backend is
// only selected when both remote settings are present and not these.
const (
	placeholderAddr = "db.example.com:5432"
	placeholderKey  = "changeme"
)

type Config struct {
	Port    string
	DBPath  string // local sqlite file
	LogFile string

	// Networked backend. RemoteAddr is host:port of the shared Postgres,
	// RemoteKey the password for the tillbook role.
	RemoteAddr string
	RemoteKey  string
	RemoteDB   string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "tillbook.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./tillbook.log"
	}
	remoteDB := os.Getenv("REMOTE_DB")
	if remoteDB == "" {
		remoteDB = "tillbook"
	}

	cfg := Config{
		Port:       port,
		DBPath:     dbPath,
		LogFile:    logFile,
		RemoteAddr: os.Getenv("REMOTE_ADDR"),
		RemoteKey:  os.Getenv("REMOTE_KEY"),
		RemoteDB:   remoteDB,
	}
	log.Printf("[config] PORT=%s DB_PATH=%s LOG_FILE=%s REMOTE=%v", cfg.Port, cfg.DBPath, cfg.LogFile, cfg.RemoteEnabled())
	return cfg
}

// RemoteEnabled is the boot-time connectivity check: both endpoint and key
// must be set and must not be the sample placeholders. The decision is made
// once here and never revisited at runtime.
func (c Config) RemoteEnabled() bool {
	if c.RemoteAddr == "" || c.RemoteAddr == placeholderAddr {
		return false
	}
	if c.RemoteKey == "" || c.RemoteKey == placeholderKey {
		return false
	}
	return true
}

// RemoteDSN assembles the Postgres connection string for the store and the
// change-event listener.
func (c Config) RemoteDSN() string {
	return fmt.Sprintf("postgres://tillbook:%s@%s/%s?sslmode=require", c.RemoteKey, c.RemoteAddr, c.RemoteDB)
}
