package config

import (
	"path/filepath"
	"strings"

	"github.com/okian/agentdesk/internal/adapters/kvstore"
)

// sqliteFile is the database file created inside StorePath when it names
// a directory.
const sqliteFile = "agentdesk.db"

// StoreOptions translates the store settings into kvstore options.
func (c *Config) StoreOptions() kvstore.Options {
	path := c.StorePath
	if strings.EqualFold(c.StoreBackend, kvstore.BackendSQLite) && path != ":memory:" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite", ".sqlite3":
		default:
			path = filepath.Join(path, sqliteFile)
		}
	}
	return kvstore.Options{
		Backend: c.StoreBackend,
		Path:    path,
		Redis: kvstore.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.StorePrefix,
		},
	}
}
