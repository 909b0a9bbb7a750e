package sqldataset

import "context"

/*
Adapter is an interface providing the methods needed to implement
a Dataset with a SQL database backend, hiding driver and dialect
differences from the dataset logic.
*/
type Adapter interface {
	// ColumnName takes a schema field name and returns the
	// column name to use for it, or an error if the name cannot
	// be represented safely on the database.
	ColumnName(string) (string, error)

	// CreateRowsTable ensures the rows table exists with a REAL
	// (or equivalent) column per numeric column name and a TEXT
	// column per text column name, all nullable.
	CreateRowsTable(ctx context.Context, numericColumns, textColumns []string) error

	// AddRows inserts the given value tuples, one per row, for
	// the given columns and returns the number of inserted rows.
	AddRows(ctx context.Context, columns []string, values [][]interface{}) (int, error)

	// ListRows returns the value tuples for the given columns of
	// the rows satisfying the given WHERE clause, in insertion
	// order. An empty clause selects every row.
	ListRows(ctx context.Context, columns []string, where string, args []interface{}) ([][]interface{}, error)

	// ListColumn returns the values of the given column for the
	// rows satisfying the given WHERE clause, in insertion order.
	ListColumn(ctx context.Context, column string, where string, args []interface{}) ([]interface{}, error)

	// CountRows returns the number of rows satisfying the given
	// WHERE clause.
	CountRows(ctx context.Context, where string, args []interface{}) (int, error)

	// Placeholder returns the parameter placeholder for the nth
	// (1-based) argument of a statement on the adapter's dialect.
	Placeholder(n int) string
}
