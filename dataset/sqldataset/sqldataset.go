package sqldataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

/*
Dataset is a dataset.Dataset to which rows can be added.
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Row) (int, error)
}

type rowFilter struct {
	question *feature.Question
	want     bool
}

type sqlDataset struct {
	adapter Adapter
	schema  *feature.Schema
	columns []string
	filters []rowFilter
	gini    *float64
	count   *int
}

/*
Open takes an adapter and a schema and returns a Dataset working
on the adapter's database, after ensuring the rows table exists,
or an error.
*/
func Open(ctx context.Context, adapter Adapter, schema *feature.Schema) (Dataset, error) {
	columns := make([]string, schema.Len())
	var numericColumns, textColumns []string
	for i, f := range schema.Fields() {
		c, err := adapter.ColumnName(f.Name())
		if err != nil {
			return nil, fmt.Errorf("opening sql dataset: %v", err)
		}
		columns[i] = c
		if _, ok := f.(*feature.NumericField); ok {
			numericColumns = append(numericColumns, c)
		} else {
			textColumns = append(textColumns, c)
		}
	}
	err := adapter.CreateRowsTable(ctx, numericColumns, textColumns)
	if err != nil {
		return nil, fmt.Errorf("opening sql dataset: %v", err)
	}
	return &sqlDataset{adapter: adapter, schema: schema, columns: columns}, nil
}

func (ds *sqlDataset) Schema() *feature.Schema {
	return ds.schema
}

func (ds *sqlDataset) Count(ctx context.Context) (int, error) {
	if ds.count != nil {
		return *ds.count, nil
	}
	where, args := ds.whereClause()
	count, err := ds.adapter.CountRows(ctx, where, args)
	if err != nil {
		return 0, err
	}
	ds.count = &count
	return count, nil
}

func (ds *sqlDataset) Rows(ctx context.Context) ([]dataset.Row, error) {
	where, args := ds.whereClause()
	tuples, err := ds.adapter.ListRows(ctx, ds.columns, where, args)
	if err != nil {
		return nil, err
	}
	rows := make([]dataset.Row, 0, len(tuples))
	for _, tuple := range tuples {
		r := make(dataset.Row, len(tuple))
		for i, raw := range tuple {
			v, err := valueFromSQL(ds.schema.Field(i), raw)
			if err != nil {
				return nil, err
			}
			r[i] = v
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (ds *sqlDataset) ClassCounts(ctx context.Context) (map[string]int, error) {
	where, args := ds.whereClause()
	labels, err := ds.adapter.ListColumn(ctx, ds.columns[ds.schema.LabelColumn()], where, args)
	if err != nil {
		return nil, err
	}
	result := make(map[string]int)
	for _, raw := range labels {
		v, err := valueFromSQL(ds.schema.Label(), raw)
		if err != nil {
			return nil, err
		}
		label, ok := v.(feature.Text)
		if !ok {
			return nil, fmt.Errorf("row label must be a text value, got %T", v)
		}
		result[string(label)]++
	}
	return result, nil
}

func (ds *sqlDataset) GiniImpurity(ctx context.Context) (float64, error) {
	if ds.gini != nil {
		return *ds.gini, nil
	}
	counts, err := ds.ClassCounts(ctx)
	if err != nil {
		return 0.0, err
	}
	var total int
	for _, c := range counts {
		total += c
	}
	gini := 0.0
	if total > 0 {
		gini = 1.0
		for _, c := range counts {
			p := float64(c) / float64(total)
			gini -= p * p
		}
	}
	ds.gini = &gini
	return gini, nil
}

func (ds *sqlDataset) DistinctValues(ctx context.Context, column int) ([]feature.Value, error) {
	where, args := ds.whereClause()
	raws, err := ds.adapter.ListColumn(ctx, ds.columns[column], where, args)
	if err != nil {
		return nil, err
	}
	var result []feature.Value
	encountered := make(map[string]bool)
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		v, err := valueFromSQL(ds.schema.Field(column), raw)
		if err != nil {
			return nil, err
		}
		if !encountered[v.String()] {
			encountered[v.String()] = true
			result = append(result, v)
		}
	}
	return result, nil
}

func (ds *sqlDataset) Partition(ctx context.Context, q *feature.Question) (dataset.Dataset, dataset.Dataset, error) {
	trueSide := &sqlDataset{adapter: ds.adapter, schema: ds.schema, columns: ds.columns, filters: append(append([]rowFilter{}, ds.filters...), rowFilter{q, true})}
	falseSide := &sqlDataset{adapter: ds.adapter, schema: ds.schema, columns: ds.columns, filters: append(append([]rowFilter{}, ds.filters...), rowFilter{q, false})}
	return trueSide, falseSide, nil
}

func (ds *sqlDataset) Write(ctx context.Context, rows []dataset.Row) (int, error) {
	values := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		if err := r.Validate(ds.schema); err != nil {
			return 0, fmt.Errorf("writing rows to sql dataset: %v", err)
		}
		tuple := make([]interface{}, len(r))
		for i, v := range r {
			switch v := v.(type) {
			case feature.Numeric:
				tuple[i] = float64(v)
			case feature.Text:
				tuple[i] = string(v)
			case feature.Missing:
				tuple[i] = nil
			}
		}
		values = append(values, tuple)
	}
	n, err := ds.adapter.AddRows(ctx, ds.columns, values)
	if err != nil {
		return n, fmt.Errorf("writing rows to sql dataset: %v", err)
	}
	ds.count = nil
	ds.gini = nil
	return n, nil
}

// whereClause translates the accumulated question filters into a
// WHERE clause. NULL columns encode Missing cells, which must
// never satisfy a question, so false sides accept NULLs
// explicitly.
func (ds *sqlDataset) whereClause() (string, []interface{}) {
	var clauses []string
	var args []interface{}
	for _, f := range ds.filters {
		column := ds.columns[f.question.Column()]
		var op string
		switch value := f.question.Value().(type) {
		case feature.Numeric:
			op = ">="
			args = append(args, float64(value))
		case feature.Text:
			op = "="
			args = append(args, string(value))
		}
		condition := fmt.Sprintf(`"%s" %s %s`, column, op, ds.adapter.Placeholder(len(args)))
		if f.want {
			clauses = append(clauses, condition)
		} else {
			clauses = append(clauses, fmt.Sprintf(`("%s" IS NULL OR NOT (%s))`, column, condition))
		}
	}
	return strings.Join(clauses, " AND "), args
}

func valueFromSQL(f feature.Field, raw interface{}) (feature.Value, error) {
	if raw == nil {
		return feature.Missing{}, nil
	}
	switch f.(type) {
	case *feature.NumericField:
		switch n := raw.(type) {
		case float64:
			return feature.Numeric(n), nil
		case int64:
			return feature.Numeric(n), nil
		}
		return nil, fmt.Errorf("numeric field %s holds a %T value on the database", f.Name(), raw)
	case *feature.TextField:
		switch s := raw.(type) {
		case string:
			return feature.Text(s), nil
		case []byte:
			return feature.Text(s), nil
		}
		return nil, fmt.Errorf("text field %s holds a %T value on the database", f.Name(), raw)
	}
	return nil, fmt.Errorf("unknown field type %T for field %s", f, f.Name())
}
