package database

import (
	"io/fs"
	"net/url"
	"strings"
	"testing"

	"clinic-frontdesk/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_PinsUTCAndDefaultsSSLMode(t *testing.T) {
	got := dsn(config.DBConfig{Host: "db", Port: "5432", User: "clinic", Password: "pw", Name: "frontdesk"})
	assert.Contains(t, got, "TimeZone=UTC")
	assert.Contains(t, got, "sslmode=disable")
	assert.Contains(t, got, "dbname=frontdesk")
}

func TestMigrateURL_EscapesCredentials(t *testing.T) {
	raw := migrateURL(config.DBConfig{Host: "db", Port: "5432", User: "clinic", Password: "p@ss/word", Name: "frontdesk", SSLMode: "require"})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "pgx5", u.Scheme)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss/word", pw)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)

	var ups, downs int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)

	up, err := fs.ReadFile(migrationFiles, "migrations/000001_create_clinic_tables.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "uq_appointments_pending_queue")
	assert.Contains(t, string(up), "WHERE status = 'PENDING'")
}
