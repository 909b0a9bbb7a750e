package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/canopyml/canopy/dataset"
	csvds "github.com/canopyml/canopy/dataset/csv"
	jsonds "github.com/canopyml/canopy/dataset/json"
	"github.com/canopyml/canopy/dataset/mongodataset"
	"github.com/canopyml/canopy/dataset/redisdataset"
	"github.com/canopyml/canopy/dataset/sqldataset"
	"github.com/canopyml/canopy/dataset/sqldataset/pgadapter"
	"github.com/canopyml/canopy/dataset/sqldataset/sqlite3adapter"
	"github.com/canopyml/canopy/feature"
	mgo "gopkg.in/mgo.v2"
	redis "gopkg.in/redis.v5"
)

const redisKeyPrefix = "canopy"

/*
datasetWriter is a destination to which rows can be dumped:
CSV writers and the mongo, redis and SQL dataset backends all
satisfy it.
*/
type datasetWriter interface {
	Write(context.Context, []dataset.Row) (int, error)
}

/*
openInputDataset opens the dataset the input string points to: a
PostgreSQL connection URL, a MongoDB URL, a redis URL, a SQLite3
(.db) file or a CSV file (STDIN when input is ""), in that order
of precedence.
*/
func openInputDataset(ctx context.Context, input string, schema *feature.Schema, dg csvds.DatasetGenerator, maxDBConns int, log logger) (dataset.Dataset, error) {
	switch {
	case input == "":
		log.Logf("Reading dataset from STDIN...")
		return csvds.ReadDataset(os.Stdin, schema, dg)
	case strings.HasPrefix(input, "postgresql://"):
		log.Logf("Creating PostgreSQL adapter for url %s to read dataset...", input)
		adapter, err := pgadapter.New(input)
		if err != nil {
			return nil, err
		}
		return sqldataset.Open(ctx, adapter, schema)
	case strings.HasPrefix(input, "mongodb://"):
		log.Logf("Dialing %s to read dataset...", input)
		session, err := mgo.Dial(input)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB at %s: %v", input, err)
		}
		return mongodataset.Open(ctx, session, schema)
	case strings.HasPrefix(input, "redis://"):
		log.Logf("Connecting to redis at %s to read dataset...", input)
		rc, err := redisClient(input)
		if err != nil {
			return nil, err
		}
		return redisdataset.Open(rc, redisKeyPrefix, schema, jsonds.New(schema)), nil
	case strings.HasSuffix(input, ".db"):
		log.Logf("Creating SQLite3 adapter for file %s to read dataset...", input)
		adapter, err := sqlite3adapter.New(input, maxDBConns)
		if err != nil {
			return nil, err
		}
		return sqldataset.Open(ctx, adapter, schema)
	}
	log.Logf("Opening %s to read dataset...", input)
	return csvds.ReadDatasetFromFilePath(input, schema, dg)
}

/*
openOutputWriter opens a writable dataset destination for the
output string, with the same conventions as openInputDataset
(STDOUT as CSV when output is ""). It returns the writer and a
finish function flushing any buffered rows and releasing the
destination.
*/
func openOutputWriter(ctx context.Context, output string, schema *feature.Schema, maxDBConns int, log logger) (datasetWriter, func() error, error) {
	switch {
	case output == "":
		log.Logf("Using STDOUT to dump output dataset...")
		w, err := csvds.NewWriter(os.Stdout, schema)
		if err != nil {
			return nil, nil, err
		}
		return w, w.Flush, nil
	case strings.HasPrefix(output, "postgresql://"):
		log.Logf("Creating PostgreSQL adapter for url %s to write dataset...", output)
		adapter, err := pgadapter.New(output)
		if err != nil {
			return nil, nil, err
		}
		ds, err := sqldataset.Open(ctx, adapter, schema)
		if err != nil {
			return nil, nil, err
		}
		return ds, noFlush, nil
	case strings.HasPrefix(output, "mongodb://"):
		log.Logf("Dialing %s to write dataset...", output)
		session, err := mgo.Dial(output)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to MongoDB at %s: %v", output, err)
		}
		ds, err := mongodataset.Open(ctx, session, schema)
		if err != nil {
			return nil, nil, err
		}
		return ds, noFlush, nil
	case strings.HasPrefix(output, "redis://"):
		log.Logf("Connecting to redis at %s to write dataset...", output)
		rc, err := redisClient(output)
		if err != nil {
			return nil, nil, err
		}
		return redisdataset.Open(rc, redisKeyPrefix, schema, jsonds.New(schema)), noFlush, nil
	case strings.HasSuffix(output, ".db"):
		log.Logf("Creating SQLite3 adapter for file %s to write dataset...", output)
		adapter, err := sqlite3adapter.New(output, maxDBConns)
		if err != nil {
			return nil, nil, err
		}
		ds, err := sqldataset.Open(ctx, adapter, schema)
		if err != nil {
			return nil, nil, err
		}
		return ds, noFlush, nil
	}
	log.Logf("Creating %s to dump output dataset...", output)
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	w, err := csvds.NewWriter(f, schema)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	finish := func() error {
		err := w.Flush()
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}
	return w, finish, nil
}

func redisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url %s: %v", url, err)
	}
	return redis.NewClient(opts), nil
}

func noFlush() error {
	return nil
}
