package database

import "strings"

// IsUniqueViolation checks if the error is a SQLite unique constraint
// violation. Works with both mattn/go-sqlite3 and modernc.org/sqlite drivers,
// which only expose the failure through the error string.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "(2067)") || // SQLITE_CONSTRAINT_UNIQUE
		strings.Contains(errStr, "(1555)") // SQLITE_CONSTRAINT_PRIMARYKEY
}

// IsForeignKeyViolation checks if the error is a SQLite foreign key constraint
// violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "(787)") // SQLITE_CONSTRAINT_FOREIGNKEY
}
