package utils

import (
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

// IsDuplicateEntry reports whether err is a MySQL duplicate-key violation
// (error 1062), the race-safe complement of pre-insert uniqueness checks.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
