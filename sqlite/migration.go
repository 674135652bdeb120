// Package sqlite keeps the next alarm in an SQLite database.
package sqlite

import (
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
)

// Migrate brings the schema of conn up to date by running, in name order,
// every *.sql script in fsys it hasn't run yet. The number of scripts already
// applied is kept in the user_version pragma.
func Migrate(conn *sqlite.Conn, fsys fs.FS) (err error) {
	release := sqlitex.Save(conn)
	defer release(&err)

	var applied int
	if err = sqlitex.ExecTransient(conn, "pragma user_version", func(stmt *sqlite.Stmt) error {
		applied = stmt.ColumnInt(0)
		return nil
	}); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	scripts, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if applied >= len(scripts) {
		return nil
	}

	sort.Strings(scripts)
	for _, script := range scripts[applied:] {
		if err := runScript(conn, fsys, script); err != nil {
			return err
		}
	}

	if err := sqlitex.ExecTransient(conn, "pragma user_version="+strconv.Itoa(len(scripts)), nil); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

func runScript(conn *sqlite.Conn, fsys fs.FS, script string) error {
	buf, err := fs.ReadFile(fsys, script)
	if err != nil {
		return fmt.Errorf("read %s: %w", script, err)
	}
	queries := strings.TrimSpace(string(buf))
	for i := 0; queries != ""; i++ {
		stmt, trailingBytes, err := conn.PrepareTransient(queries)
		if err != nil {
			return fmt.Errorf("prepare %s, stmt %d: %w", script, i, err)
		}
		queries = strings.TrimSpace(queries[len(queries)-trailingBytes:])
		_, err = stmt.Step()
		stmt.Finalize()
		if err != nil {
			return fmt.Errorf("execute %s, stmt %d: %w", script, i, err)
		}
	}
	return nil
}
