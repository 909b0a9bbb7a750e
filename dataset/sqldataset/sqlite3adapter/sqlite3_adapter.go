/*
Package sqlite3adapter provides an implementation of the Adapter
interface in the sqldataset package that works over a SQLite3
database file.
*/
package sqlite3adapter

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/canopyml/canopy/dataset/sqldataset"

	// Import of SQLite3 driver
	_ "github.com/mattn/go-sqlite3"
)

const (
	// MaxRowInsertionsPerStatement is the maximum number of rows
	// that are allowed to be added with a single insert command
	// with the AddRows method of the adapter. Trying to add more
	// will result in making more insertion commands.
	MaxRowInsertionsPerStatement = 10
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to a SQLite3 database file and a limit for the
number of open connections to it and returns an Adapter that works
on the database or an error if it fails to open it.
*/
func New(filepath string, maxOpenConns int) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", filepath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	return &adapter{db}, nil
}

func (a *adapter) ColumnName(fieldName string) (string, error) {
	if fieldName == "id" {
		return "", fmt.Errorf("'%s' is reserved and cannot be used as field name", fieldName)
	}
	if strings.ContainsAny(fieldName, `"`) {
		return "", fmt.Errorf(`field name '%s' contains invalid character '"'`, fieldName)
	}
	return fieldName, nil
}

func (a *adapter) CreateRowsTable(ctx context.Context, numericColumns, textColumns []string) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString("CREATE TABLE IF NOT EXISTS rows(")
	for _, c := range numericColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" REAL NULL, `, c))
	}
	for _, c := range textColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" TEXT NULL, `, c))
	}
	createStmtBuf.WriteString(`"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT)`)
	createStmt, err := a.db.PrepareContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("preparing rows creation statement: %v", err)
	}
	defer createStmt.Close()
	_, err = createStmt.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("running rows creation statement: %v", err)
	}
	return nil
}

func (a *adapter) AddRows(ctx context.Context, columns []string, values [][]interface{}) (int, error) {
	var added int
	for len(values) > 0 {
		batch := values
		if len(batch) > MaxRowInsertionsPerStatement {
			batch = batch[0:MaxRowInsertionsPerStatement]
		}
		values = values[len(batch):]
		n, err := a.addRowsBatch(ctx, columns, batch)
		added += n
		if err != nil {
			return added, err
		}
	}
	return added, nil
}

func (a *adapter) addRowsBatch(ctx context.Context, columns []string, values [][]interface{}) (int, error) {
	var insertStmtBuf bytes.Buffer
	insertStmtBuf.WriteString(`INSERT INTO rows(`)
	for i, c := range columns {
		if i > 0 {
			insertStmtBuf.WriteString(", ")
		}
		insertStmtBuf.WriteString(fmt.Sprintf(`"%s"`, c))
	}
	insertStmtBuf.WriteString(`) VALUES `)
	var args []interface{}
	for i, tuple := range values {
		if i > 0 {
			insertStmtBuf.WriteString(", ")
		}
		insertStmtBuf.WriteString("(")
		for j, v := range tuple {
			if j > 0 {
				insertStmtBuf.WriteString(", ")
			}
			insertStmtBuf.WriteString("?")
			args = append(args, v)
		}
		insertStmtBuf.WriteString(")")
	}
	insertStmt, err := a.db.PrepareContext(ctx, insertStmtBuf.String())
	if err != nil {
		return 0, fmt.Errorf("preparing rows insertion statement: %v", err)
	}
	defer insertStmt.Close()
	_, err = insertStmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("running rows insertion statement: %v", err)
	}
	return len(values), nil
}

func (a *adapter) ListRows(ctx context.Context, columns []string, where string, args []interface{}) ([][]interface{}, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = fmt.Sprintf(`"%s"`, c)
	}
	query := fmt.Sprintf(`SELECT %s FROM rows%s ORDER BY "id"`, strings.Join(quoted, ", "), whereFragment(where))
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %v", err)
	}
	defer rows.Close()
	var result [][]interface{}
	for rows.Next() {
		tuple := make([]interface{}, len(columns))
		dests := make([]interface{}, len(columns))
		for i := range tuple {
			dests[i] = &tuple[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scanning row: %v", err)
		}
		result = append(result, tuple)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating over rows: %v", err)
	}
	return result, nil
}

func (a *adapter) ListColumn(ctx context.Context, column string, where string, args []interface{}) ([]interface{}, error) {
	query := fmt.Sprintf(`SELECT "%s" FROM rows%s ORDER BY "id"`, column, whereFragment(where))
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying column %s: %v", column, err)
	}
	defer rows.Close()
	var result []interface{}
	for rows.Next() {
		var v interface{}
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning column %s: %v", column, err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating over column %s: %v", column, err)
	}
	return result, nil
}

func (a *adapter) CountRows(ctx context.Context, where string, args []interface{}) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM rows%s`, whereFragment(where))
	var count int
	err := a.db.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting rows: %v", err)
	}
	return count, nil
}

func (a *adapter) Placeholder(n int) string {
	return "?"
}

func whereFragment(where string) string {
	if where == "" {
		return ""
	}
	return fmt.Sprintf(" WHERE %s", where)
}
