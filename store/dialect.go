package store

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Dialect selects the SQL flavour spoken by the SQL store.
type Dialect int

const (
	SQLite Dialect = iota
	MySQL
	Postgres
)

// ParseDialect maps a driver name from configuration to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	}
	return SQLite, eris.Errorf("unsupported database driver %q", driver)
}

// String returns the database/sql driver name registered for the dialect.
func (d Dialect) String() string {
	switch d {
	case MySQL:
		return "mysql"
	case Postgres:
		return "postgres"
	default:
		return "sqlite"
	}
}

// rebind rewrites ? placeholders into the dialect's form.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (d Dialect) idColumn() string {
	switch d {
	case MySQL:
		return "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	case Postgres:
		return "id BIGSERIAL PRIMARY KEY"
	default:
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}
