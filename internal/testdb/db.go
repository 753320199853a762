package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/platewise/backend/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// Open creates an in-memory SQLite database with the full schema
// applied. Each call gets its own database, so tests stay independent.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	// A unique shared-cache name keeps the database alive across the
	// connections in GORM's pool while isolating it per test.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_fk=1", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
