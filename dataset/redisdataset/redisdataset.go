/*
Package redisdataset provides an implementation of dataset.Dataset
that keeps rows on a redis list. Redis cannot evaluate question
predicates, so rows are loaded once on first use and partitioning
happens on the loaded copy; the redis side only stores and streams
rows.
*/
package redisdataset

import (
	"context"
	"fmt"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
	redis "gopkg.in/redis.v5"
)

/*
RowEncodeDecoder is an interface for objects that allow encoding
rows as slices of bytes and decoding them back to rows. It is used
to serialize rows into a representation to store on redis.
*/
type RowEncodeDecoder interface {

	//Encode receives a dataset.Row and returns a slice of bytes
	//with the row encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(dataset.Row) ([]byte, error)

	//Decode receives a slice of bytes and returns a dataset.Row
	//decoded from it or an error if the decoding could not be
	//performed for some reason.
	Decode([]byte) (dataset.Row, error)
}

/*
Dataset is a dataset.Dataset to which rows can be added and from
which rows can be sequentially read
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Row) (int, error)
	Read(context.Context) (<-chan dataset.Row, <-chan error)
}

type redisDataset struct {
	rc     *redis.Client
	prefix string
	schema *feature.Schema
	encdec RowEncodeDecoder
	loaded dataset.Dataset
}

/*
Open takes a redis client, a key prefix, a schema and a
RowEncodeDecoder and returns a Dataset backed by the list at
<prefix>:rows on the redis DB.
*/
func Open(rc *redis.Client, prefix string, schema *feature.Schema, encdec RowEncodeDecoder) Dataset {
	return &redisDataset{rc: rc, prefix: prefix, schema: schema, encdec: encdec}
}

func (rds *redisDataset) Schema() *feature.Schema {
	return rds.schema
}

func (rds *redisDataset) Count(ctx context.Context) (int, error) {
	if rds.loaded != nil {
		return rds.loaded.Count(ctx)
	}
	n, err := rds.rc.LLen(rds.rowsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("counting rows on redis: %v", err)
	}
	return int(n), nil
}

func (rds *redisDataset) Rows(ctx context.Context) ([]dataset.Row, error) {
	ds, err := rds.load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Rows(ctx)
}

func (rds *redisDataset) ClassCounts(ctx context.Context) (map[string]int, error) {
	ds, err := rds.load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.ClassCounts(ctx)
}

func (rds *redisDataset) GiniImpurity(ctx context.Context) (float64, error) {
	ds, err := rds.load(ctx)
	if err != nil {
		return 0.0, err
	}
	return ds.GiniImpurity(ctx)
}

func (rds *redisDataset) DistinctValues(ctx context.Context, column int) ([]feature.Value, error) {
	ds, err := rds.load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.DistinctValues(ctx, column)
}

func (rds *redisDataset) Partition(ctx context.Context, q *feature.Question) (dataset.Dataset, dataset.Dataset, error) {
	ds, err := rds.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ds.Partition(ctx, q)
}

func (rds *redisDataset) Write(ctx context.Context, rows []dataset.Row) (int, error) {
	for n, r := range rows {
		if err := r.Validate(rds.schema); err != nil {
			return n, fmt.Errorf("writing row to redis: %v", err)
		}
		data, err := rds.encdec.Encode(r)
		if err != nil {
			return n, fmt.Errorf("writing row to redis: %v", err)
		}
		err = rds.rc.RPush(rds.rowsKey(), data).Err()
		if err != nil {
			return n, fmt.Errorf("writing row to redis: %v", err)
		}
	}
	rds.loaded = nil
	return len(rows), nil
}

func (rds *redisDataset) Read(ctx context.Context) (<-chan dataset.Row, <-chan error) {
	rows := make(chan dataset.Row)
	errs := make(chan error, 1)
	go func() {
		var err error
		var encodedRows []string
		encodedRows, err = rds.rc.LRange(rds.rowsKey(), 0, -1).Result()
		if err != nil {
			err = fmt.Errorf("reading rows from redis: %v", err)
		}
		for _, data := range encodedRows {
			if err != nil {
				break
			}
			var r dataset.Row
			r, err = rds.encdec.Decode([]byte(data))
			if err != nil {
				break
			}
			select {
			case <-ctx.Done():
				err = ctx.Err()
			case rows <- r:
			}
		}
		if err != nil {
			errs <- err
		}
		close(errs)
		close(rows)
	}()
	return rows, errs
}

func (rds *redisDataset) load(ctx context.Context) (dataset.Dataset, error) {
	if rds.loaded != nil {
		return rds.loaded, nil
	}
	var rows []dataset.Row
	rowChan, errs := rds.Read(ctx)
	for r := range rowChan {
		rows = append(rows, r)
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	rds.loaded = dataset.New(rds.schema, rows)
	return rds.loaded, nil
}

func (rds *redisDataset) rowsKey() string {
	return fmt.Sprintf("%s:rows", rds.prefix)
}
