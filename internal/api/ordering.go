package api

import "fmt"

// nullsLastDesc orders by column descending with NULL rows trailing.
// Written as a CASE expression so it behaves the same on postgres and
// on the sqlite driver used in tests.
func nullsLastDesc(column string) string {
	return fmt.Sprintf("CASE WHEN %s IS NULL THEN 1 ELSE 0 END, %s DESC", column, column)
}
