package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vitanet/vitanet/internal/logging"
)

// Statement classes produced by ClassOf.
type Class int

const (
	ClassOther Class = iota
	ClassSchema
	ClassData
)

type schemaObject struct {
	name string
	typ  string
	sql  string
}

// Dump returns the statements that recreate db, in the order SQLite's .dump
// emits them: the transaction opener, each table followed by its rows, then
// indexes, triggers and views, then the commit.
func Dump(ctx context.Context, db *sql.DB) ([]string, error) {
	tables, err := schemaObjects(ctx, db,
		`SELECT "name", "type", "sql" FROM "sqlite_master" WHERE "sql" NOT NULL AND "type" == 'table' ORDER BY "name"`)
	if err != nil {
		return nil, errors.Wrap(err, "listing tables")
	}

	stmts := []string{"BEGIN TRANSACTION;"}
	for _, t := range tables {
		switch {
		case t.name == "sqlite_sequence":
			stmts = append(stmts, `DELETE FROM "sqlite_sequence";`)
		case t.name == "sqlite_stat1":
			// statistics are regenerated, not copied
			stmts = append(stmts, `ANALYZE "sqlite_master";`)
			continue
		case strings.HasPrefix(t.name, "sqlite_"):
			continue
		default:
			stmts = append(stmts, t.sql+";")
		}

		rows, err := tableInserts(ctx, db, t.name)
		if err != nil {
			return nil, errors.Wrapf(err, "dumping rows of %s", t.name)
		}
		stmts = append(stmts, rows...)
	}

	others, err := schemaObjects(ctx, db,
		`SELECT "name", "type", "sql" FROM "sqlite_master" WHERE "sql" NOT NULL AND "type" IN ('index', 'trigger', 'view')`)
	if err != nil {
		return nil, errors.Wrap(err, "listing indexes, triggers and views")
	}
	for _, o := range others {
		stmts = append(stmts, o.sql+";")
	}

	return append(stmts, "COMMIT;"), nil
}

func schemaObjects(ctx context.Context, db *sql.DB, query string) ([]schemaObject, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objs []schemaObject
	for rows.Next() {
		var o schemaObject
		if err := rows.Scan(&o.name, &o.typ, &o.sql); err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	return objs, rows.Err()
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// tableInserts renders every row of table as an INSERT statement. Values
// are rendered by SQLite's quote() so that text, blobs, reals and NULL
// survive a replay exactly.
func tableInserts(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	cols, err := tableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, nil
	}

	values := make([]string, len(cols))
	for i, c := range cols {
		values[i] = "quote(" + quoteIdent(c) + ")"
	}
	prefix := "INSERT INTO " + quoteIdent(table) + " VALUES("
	query := "SELECT " + quoteLiteral(prefix) + " || " + strings.Join(values, " || ',' || ") +
		" || ');' FROM " + quoteIdent(table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stmts []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, rows.Err()
}

// ClassOf classifies a statement by its leading keyword.
func ClassOf(stmt string) Class {
	s := strings.ToUpper(strings.TrimSpace(stmt))
	switch {
	case strings.HasPrefix(s, "CREATE"):
		return ClassSchema
	case strings.HasPrefix(s, "INSERT"):
		return ClassData
	default:
		return ClassOther
	}
}

// Classify splits stmts into schema and data sequences, preserving order
// within each. Statements of ClassOther are dropped.
func Classify(stmts []string) *SQLDump {
	d := &SQLDump{}
	for _, s := range stmts {
		switch ClassOf(s) {
		case ClassSchema:
			d.Schema = append(d.Schema, s)
		case ClassData:
			d.Data = append(d.Data, s)
		}
	}
	return d
}

// DumpFile opens the database at path read-only and returns its classified
// dump.
func DumpFile(ctx context.Context, path string) (*SQLDump, error) {
	db, err := OpenReadOnly(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	stmts, err := Dump(ctx, db)
	if err != nil {
		return nil, err
	}
	d := Classify(stmts)
	logging.FromContext(ctx).Debug("store dumped",
		"statements", len(stmts),
		"schema", len(d.Schema),
		"data", len(d.Data),
		"dropped", len(stmts)-len(d.Schema)-len(d.Data))
	return d, nil
}
