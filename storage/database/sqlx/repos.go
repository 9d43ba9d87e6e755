// Package sqlxrepos implements the repositories over PostgreSQL.
package sqlxrepos

import (
	"database/sql"
	"strconv"
	"time"
)

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func pqPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}
