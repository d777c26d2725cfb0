package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	platformdb "github.com/guilletomac/CS50-finance/internal/platform/db"
)

// setupTestDB prepares an in-memory SQLite database with the production schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := platformdb.OpenSQLite(":memory:")
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, platformdb.Migrate(db, platformdb.DriverSQLite), "failed to migrate schema")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
