package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_Ordered(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_facilities.sql", "0002_reservations.sql", "0003_admins.sql"}, names)
}

func TestSplitStatements(t *testing.T) {
	src := `-- header
CREATE TABLE a (
    id INT
);

-- second
INSERT INTO a VALUES (1);
INSERT INTO a VALUES (2)`

	stmts := splitStatements(src)
	require.Len(t, stmts, 3)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE a ("))
	assert.NotContains(t, stmts[0], ";")
	assert.Equal(t, "INSERT INTO a VALUES (1)", stmts[1])
	assert.Equal(t, "INSERT INTO a VALUES (2)", stmts[2])
}

func TestEmbeddedMigrations_HaveOneStatementEach(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	for _, name := range names {
		b, err := migrationFiles.ReadFile("migrations/" + name)
		require.NoError(t, err)
		assert.Len(t, splitStatements(string(b)), 1, name)
	}
}

func TestReservationsSchema_OverlapSupport(t *testing.T) {
	b, err := migrationFiles.ReadFile("migrations/0002_reservations.sql")
	require.NoError(t, err)
	ddl := string(b)
	assert.Contains(t, ddl, "KEY idx_reservations_facility_start (facility_id, start_time)")
	assert.Contains(t, ddl, "ON DELETE CASCADE")
	assert.Contains(t, ddl, "CHECK (end_time > start_time)")
}

func TestOptionsDSN(t *testing.T) {
	dsn := Options{User: "app", Pass: "s3cret", Host: "db", Port: "3306", Name: "nareum"}.DSN()
	assert.True(t, strings.HasPrefix(dsn, "app:s3cret@tcp(db:3306)/nareum?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
