package dataset

import (
	"context"
	"fmt"

	"github.com/canopyml/canopy/feature"
)

const (
	rowCountThresholdForDatasetImplementation = 1000
)

/*
Dataset represents a collection of rows sharing a schema.

Its ClassCounts method returns a frequency table of the class
labels of the rows that belong to it.

Its GiniImpurity method returns the Gini impurity of the dataset:
the probability that two rows drawn at random from it carry
different class labels.

Its Partition method takes a feature.Question and splits the
dataset in two: the rows that satisfy the question and the rows
that do not. Every row lands on exactly one side.

Its DistinctValues method returns the distinct non-missing values
appearing in the given column, in the order they are first
encountered.

Its Rows method returns the rows it contains.
*/
type Dataset interface {
	Schema() *feature.Schema
	Count(context.Context) (int, error)
	Rows(context.Context) ([]Row, error)
	ClassCounts(context.Context) (map[string]int, error)
	GiniImpurity(context.Context) (float64, error)
	DistinctValues(context.Context, int) ([]feature.Value, error)
	Partition(context.Context, *feature.Question) (Dataset, Dataset, error)
}

type rowFilter struct {
	question *feature.Question
	want     bool
}

type memoryIntensivePartitioningDataset struct {
	schema *feature.Schema
	gini   *float64
	rows   []Row
}

type cpuIntensivePartitioningDataset struct {
	schema  *feature.Schema
	gini    *float64
	count   *int
	rows    []Row
	filters []rowFilter
}

/*
New takes a schema and a slice of rows and returns a dataset built
with them. The dataset will be a CPU intensive one when the number
of rows is over rowCountThresholdForDatasetImplementation.
*/
func New(schema *feature.Schema, rows []Row) Dataset {
	if len(rows) > rowCountThresholdForDatasetImplementation {
		return &cpuIntensivePartitioningDataset{schema: schema, rows: rows}
	}
	return &memoryIntensivePartitioningDataset{schema: schema, rows: rows}
}

/*
NewMemoryIntensive takes a schema and a slice of rows and returns
a Dataset built with them. A memory-intensive dataset replicates
the row slice when partitioning to reduce calculations at the cost
of increased memory.
*/
func NewMemoryIntensive(schema *feature.Schema, rows []Row) Dataset {
	return &memoryIntensivePartitioningDataset{schema: schema, rows: rows}
}

/*
NewCPUIntensive takes a schema and a slice of rows and returns a
Dataset built with them. A cpu-intensive dataset does not
replicate rows when partitioning: it keeps the original slice and
a chain of question filters that define the partition. This
drastically reduces memory use at the cost of CPU time, as every
calculation over the dataset applies the filter chain to all
original rows.
*/
func NewCPUIntensive(schema *feature.Schema, rows []Row) Dataset {
	return &cpuIntensivePartitioningDataset{schema: schema, rows: rows}
}

func (ds *memoryIntensivePartitioningDataset) Schema() *feature.Schema {
	return ds.schema
}

func (ds *cpuIntensivePartitioningDataset) Schema() *feature.Schema {
	return ds.schema
}

func (ds *memoryIntensivePartitioningDataset) Count(ctx context.Context) (int, error) {
	return len(ds.rows), nil
}

func (ds *cpuIntensivePartitioningDataset) Count(ctx context.Context) (int, error) {
	if ds.count != nil {
		return *ds.count, nil
	}
	var length int
	err := ds.iterateOnDataset(ctx, func(Row) (bool, error) {
		length++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	ds.count = &length
	return length, nil
}

func (ds *memoryIntensivePartitioningDataset) Rows(ctx context.Context) ([]Row, error) {
	return ds.rows, nil
}

func (ds *cpuIntensivePartitioningDataset) Rows(ctx context.Context) ([]Row, error) {
	var rows []Row
	err := ds.iterateOnDataset(ctx, func(r Row) (bool, error) {
		rows = append(rows, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (ds *memoryIntensivePartitioningDataset) ClassCounts(ctx context.Context) (map[string]int, error) {
	result := make(map[string]int)
	for _, r := range ds.rows {
		label, err := r.Label()
		if err != nil {
			return nil, err
		}
		result[string(label)]++
	}
	return result, nil
}

func (ds *cpuIntensivePartitioningDataset) ClassCounts(ctx context.Context) (map[string]int, error) {
	result := make(map[string]int)
	err := ds.iterateOnDataset(ctx, func(r Row) (bool, error) {
		label, err := r.Label()
		if err != nil {
			return false, err
		}
		result[string(label)]++
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ds *memoryIntensivePartitioningDataset) GiniImpurity(ctx context.Context) (float64, error) {
	if ds.gini != nil {
		return *ds.gini, nil
	}
	counts, err := ds.ClassCounts(ctx)
	if err != nil {
		return 0.0, err
	}
	gini := giniFromCounts(counts)
	ds.gini = &gini
	return gini, nil
}

func (ds *cpuIntensivePartitioningDataset) GiniImpurity(ctx context.Context) (float64, error) {
	if ds.gini != nil {
		return *ds.gini, nil
	}
	counts, err := ds.ClassCounts(ctx)
	if err != nil {
		return 0.0, err
	}
	gini := giniFromCounts(counts)
	ds.gini = &gini
	return gini, nil
}

func (ds *memoryIntensivePartitioningDataset) DistinctValues(ctx context.Context, column int) ([]feature.Value, error) {
	var result []feature.Value
	encountered := make(map[string]bool)
	for _, r := range ds.rows {
		v, err := cellAt(r, column, ds.schema)
		if err != nil {
			return nil, err
		}
		if _, ok := v.(feature.Missing); ok {
			continue
		}
		if !encountered[v.String()] {
			encountered[v.String()] = true
			result = append(result, v)
		}
	}
	return result, nil
}

func (ds *cpuIntensivePartitioningDataset) DistinctValues(ctx context.Context, column int) ([]feature.Value, error) {
	var result []feature.Value
	encountered := make(map[string]bool)
	err := ds.iterateOnDataset(ctx, func(r Row) (bool, error) {
		v, err := cellAt(r, column, ds.schema)
		if err != nil {
			return false, err
		}
		if _, ok := v.(feature.Missing); ok {
			return true, nil
		}
		if !encountered[v.String()] {
			encountered[v.String()] = true
			result = append(result, v)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ds *memoryIntensivePartitioningDataset) Partition(ctx context.Context, q *feature.Question) (Dataset, Dataset, error) {
	var trueRows, falseRows []Row
	for _, r := range ds.rows {
		ok, err := q.Match(r)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			trueRows = append(trueRows, r)
		} else {
			falseRows = append(falseRows, r)
		}
	}
	trueSide := &memoryIntensivePartitioningDataset{schema: ds.schema, rows: trueRows}
	falseSide := &memoryIntensivePartitioningDataset{schema: ds.schema, rows: falseRows}
	return trueSide, falseSide, nil
}

func (ds *cpuIntensivePartitioningDataset) Partition(ctx context.Context, q *feature.Question) (Dataset, Dataset, error) {
	trueFilters := append(append([]rowFilter{}, ds.filters...), rowFilter{q, true})
	falseFilters := append(append([]rowFilter{}, ds.filters...), rowFilter{q, false})
	trueSide := &cpuIntensivePartitioningDataset{schema: ds.schema, rows: ds.rows, filters: trueFilters}
	falseSide := &cpuIntensivePartitioningDataset{schema: ds.schema, rows: ds.rows, filters: falseFilters}
	return trueSide, falseSide, nil
}

func (ds *cpuIntensivePartitioningDataset) iterateOnDataset(ctx context.Context, lambda func(Row) (bool, error)) error {
	for _, r := range ds.rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		skip := false
		for _, f := range ds.filters {
			ok, err := f.question.Match(r)
			if err != nil {
				return err
			}
			if ok != f.want {
				skip = true
				break
			}
		}
		if !skip {
			ok, err := lambda(r)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
	}
	return nil
}

func cellAt(r Row, column int, schema *feature.Schema) (feature.Value, error) {
	if column >= len(r) {
		return nil, fmt.Errorf("row has %d values, schema %v declares %d fields", len(r), schema.Names(), schema.Len())
	}
	return r[column], nil
}

// giniFromCounts computes 1 - sum((count/total)^2). An empty
// frequency table yields 0, so callers never divide by zero.
func giniFromCounts(counts map[string]int) float64 {
	var total int
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0.0
	}
	gini := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		gini -= p * p
	}
	return gini
}
