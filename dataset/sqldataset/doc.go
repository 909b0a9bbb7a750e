/*
Package sqldataset provides an implementation of dataset.Dataset
that uses a SQL database as backend, pushing question partitions
down to the database as WHERE clauses.

Rows are stored on a single table with one column per schema
field; Missing cells are stored as NULLs, which no question
matches, so false-side clauses accept NULLs explicitly.
*/
package sqldataset
