package etl

import (
	"fmt"
	"strings"
)

// ValidateTableName rejects names that cannot double as a file name. The
// name ends up in the staging path, the container path and the HDFS path.
func ValidateTableName(table string) error {
	switch {
	case strings.TrimSpace(table) == "":
		return fmt.Errorf("empty table name")
	case strings.ContainsRune(table, '/'):
		return fmt.Errorf("table name %q contains '/'", table)
	case strings.ContainsRune(table, 0):
		return fmt.Errorf("table name %q contains a NUL byte", table)
	case table == "." || table == "..":
		return fmt.Errorf("table name %q is not a valid file name", table)
	}
	return nil
}
