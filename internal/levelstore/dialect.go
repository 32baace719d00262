package levelstore

import (
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// DialectType names a supported database engine.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// postgresUniqueViolation is the SQLSTATE for a unique constraint failure
const postgresUniqueViolation = "23505"

// Dialect captures the SQL differences between SQLite and PostgreSQL. Queries
// in this package are written with ? placeholders and rebound per dialect.
type Dialect struct {
	Type DialectType

	driver    string
	numbered  bool // $N placeholders, ids come back through RETURNING
	serialPK  string
	init      []string
	duplicate func(error) bool
}

var (
	sqliteDialect = Dialect{
		Type:     DialectSQLite,
		driver:   "sqlite",
		serialPK: "INTEGER PRIMARY KEY AUTOINCREMENT",
		init: []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA busy_timeout = 5000",
		},
		duplicate: func(err error) bool {
			return strings.Contains(err.Error(), "UNIQUE constraint failed")
		},
	}

	postgresDialect = Dialect{
		Type:      DialectPostgres,
		driver:    "postgres",
		numbered:  true,
		serialPK:  "BIGSERIAL PRIMARY KEY",
		init:      []string{"SET TIME ZONE 'UTC'"},
		duplicate: isPostgresDuplicate,
	}
)

// NewDialect returns the dialect for t. Unknown names fall back to SQLite.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return postgresDialect
	}
	return sqliteDialect
}

// DriverName is the database/sql driver registered for the dialect
func (d Dialect) DriverName() string { return d.driver }

// IsPostgres reports whether the dialect targets PostgreSQL
func (d Dialect) IsPostgres() bool { return d.Type == DialectPostgres }

// ReturnsInsertID reports whether inserts hand back their id through a
// RETURNING clause instead of LastInsertId.
func (d Dialect) ReturnsInsertID() bool { return d.numbered }

func (d Dialect) SerialPrimaryKey() string { return d.serialPK }

// InitStatements run once on a freshly opened connection
func (d Dialect) InitStatements() []string { return d.init }

// Rebind rewrites ? placeholders into the dialect's form.
//
//	"WHERE depth = ? AND seed = ?" -> "WHERE depth = $1 AND seed = $2"
func (d Dialect) Rebind(query string) string {
	if !d.numbered || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Insert rebinds an INSERT and, where needed, asks for the id column back.
func (d Dialect) Insert(query, idColumn string) string {
	query = d.Rebind(query)
	if d.numbered {
		query += " RETURNING " + idColumn
	}
	return query
}

// IsDuplicateKeyError reports whether err is a unique constraint violation
func (d Dialect) IsDuplicateKeyError(err error) bool {
	if err == nil || d.duplicate == nil {
		return false
	}
	return d.duplicate(err)
}

func isPostgresDuplicate(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == postgresUniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, postgresUniqueViolation)
}
