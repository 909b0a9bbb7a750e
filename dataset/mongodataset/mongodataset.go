/*
Package mongodataset provides an implementation of dataset.Dataset
that uses a MongoDB database as backend, pushing question
partitions down to the database as queries.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Dataset is a dataset.Dataset to which rows can be added and from
which rows can be sequentially read
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Row) (int, error)
	Read(context.Context) (<-chan dataset.Row, <-chan error)
}

type rowFilter struct {
	question *feature.Question
	want     bool
}

type mongodataset struct {
	session    *mgo.Session
	schema     *feature.Schema
	filters    []rowFilter
	mongoQuery bson.M
	gini       *float64
}

const (
	rowsCollectionName = "rows"
)

/*
Open takes a MongoDB database session and a schema and returns a
dataset.Dataset that works on the default database for that
session or an error if it fails to prepare it.
*/
func Open(ctx context.Context, session *mgo.Session, schema *feature.Schema) (Dataset, error) {
	mds := &mongodataset{session: session, schema: schema}
	err := mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

func (mds *mongodataset) Schema() *feature.Schema {
	return mds.schema
}

func (mds *mongodataset) Count(context.Context) (int, error) {
	return mds.query().Count()
}

func (mds *mongodataset) ClassCounts(ctx context.Context) (map[string]int, error) {
	label := mds.schema.Label().Name()
	iter := mds.rowsCollection().Pipe([]bson.M{{"$match": mds.queryDoc()}, {"$group": bson.M{"_id": fmt.Sprintf("$%s", label), "count": bson.M{"$sum": 1}}}}).Iter()
	defer iter.Close()
	var doc bson.M
	result := make(map[string]int)
	for iter.Next(&doc) {
		count, ok := doc["count"].(int)
		if !ok {
			return nil, fmt.Errorf("counting classes: mongo aggregation query returned a %T instead of an int as count", doc["count"])
		}
		labelValue, ok := doc["_id"].(string)
		if !ok {
			return nil, fmt.Errorf("counting classes: row label must be a text value, got %T", doc["_id"])
		}
		result[labelValue] = count
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (mds *mongodataset) GiniImpurity(ctx context.Context) (float64, error) {
	if mds.gini != nil {
		return *mds.gini, nil
	}
	counts, err := mds.ClassCounts(ctx)
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
	mds.gini = &gini
	return gini, nil
}

func (mds *mongodataset) DistinctValues(ctx context.Context, column int) ([]feature.Value, error) {
	field := mds.schema.Field(column)
	iter := mds.rowsCollection().Pipe([]bson.M{{"$match": mds.queryDoc()}, {"$group": bson.M{"_id": fmt.Sprintf("$%s", field.Name())}}}).Iter()
	defer iter.Close()
	var doc bson.M
	var result []feature.Value
	for iter.Next(&doc) {
		if doc["_id"] == nil {
			continue
		}
		v, err := valueFromMongo(field, doc["_id"])
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (mds *mongodataset) Partition(ctx context.Context, q *feature.Question) (dataset.Dataset, dataset.Dataset, error) {
	trueSide := &mongodataset{session: mds.session, schema: mds.schema, filters: append(append([]rowFilter{}, mds.filters...), rowFilter{q, true})}
	falseSide := &mongodataset{session: mds.session, schema: mds.schema, filters: append(append([]rowFilter{}, mds.filters...), rowFilter{q, false})}
	return trueSide, falseSide, nil
}

func (mds *mongodataset) Rows(ctx context.Context) ([]dataset.Row, error) {
	var rows []dataset.Row
	count, err := mds.Count(ctx)
	if err == nil {
		rows = make([]dataset.Row, 0, count)
	}
	rowChan, errs := mds.Read(ctx)
	for r := range rowChan {
		rows = append(rows, r)
	}
	err = <-errs
	return rows, err
}

func (mds *mongodataset) Write(ctx context.Context, rows []dataset.Row) (int, error) {
	docs := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		if err := r.Validate(mds.schema); err != nil {
			return 0, err
		}
		doc := make(bson.M)
		for i, f := range mds.schema.Fields() {
			switch v := r[i].(type) {
			case feature.Numeric:
				doc[f.Name()] = float64(v)
			case feature.Text:
				doc[f.Name()] = string(v)
			case feature.Missing:
			}
		}
		docs = append(docs, doc)
	}
	err := mds.rowsCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (mds *mongodataset) Read(ctx context.Context) (<-chan dataset.Row, <-chan error) {
	rows := make(chan dataset.Row)
	errs := make(chan error, 1)
	go func() {
		var doc bson.M
		var err error
		iter := mds.query().Iter()
		defer iter.Close()
		for iter.Next(&doc) {
			var r dataset.Row
			r, err = mds.rowFromDoc(doc)
			if err != nil {
				break
			}
			select {
			case <-ctx.Done():
				err = ctx.Err()
			case rows <- r:
			}
			if err != nil {
				break
			}
		}
		if err == nil {
			err = iter.Err()
		}
		if err != nil {
			errs <- err
		}
		close(errs)
		close(rows)
	}()
	return rows, errs
}

func (mds *mongodataset) rowFromDoc(doc bson.M) (dataset.Row, error) {
	row := make(dataset.Row, mds.schema.Len())
	for i, f := range mds.schema.Fields() {
		raw, ok := doc[f.Name()]
		if !ok || raw == nil {
			row[i] = feature.Missing{}
			continue
		}
		v, err := valueFromMongo(f, raw)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func (mds *mongodataset) ensureIndexes() error {
	for _, f := range mds.schema.Fields() {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid field name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid field name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
		index := mgo.Index{
			Key:        []string{fName},
			Background: true,
			Sparse:     true,
		}
		err := mds.rowsCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (mds *mongodataset) rowsCollection() *mgo.Collection {
	return mds.session.DB("").C(rowsCollectionName)
}

func (mds *mongodataset) query() *mgo.Query {
	return mds.rowsCollection().Find(mds.queryDoc())
}

// queryDoc translates the accumulated question filters into a
// mongo query. Absent document fields encode Missing cells, which
// must never satisfy a question, so false sides use $not clauses:
// they match both failing and absent values.
func (mds *mongodataset) queryDoc() bson.M {
	if mds.mongoQuery == nil {
		clauses := []bson.M{}
		for _, f := range mds.filters {
			fName := f.question.Header()
			var condition bson.M
			switch value := f.question.Value().(type) {
			case feature.Numeric:
				condition = bson.M{"$gte": float64(value)}
			case feature.Text:
				condition = bson.M{"$eq": string(value)}
			}
			if f.want {
				clauses = append(clauses, bson.M{fName: condition})
			} else {
				clauses = append(clauses, bson.M{fName: bson.M{"$not": condition}})
			}
		}
		mds.mongoQuery = make(bson.M)
		if len(clauses) > 0 {
			mds.mongoQuery["$and"] = clauses
		}
	}
	return mds.mongoQuery
}

func valueFromMongo(f feature.Field, raw interface{}) (feature.Value, error) {
	switch f.(type) {
	case *feature.NumericField:
		switch n := raw.(type) {
		case float64:
			return feature.Numeric(n), nil
		case int:
			return feature.Numeric(n), nil
		case int64:
			return feature.Numeric(n), nil
		}
		return nil, fmt.Errorf("numeric field %s holds a %T value on mongo", f.Name(), raw)
	case *feature.TextField:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("text field %s holds a %T value on mongo", f.Name(), raw)
		}
		return feature.Text(s), nil
	}
	return nil, fmt.Errorf("unknown field type %T for field %s", f, f.Name())
}
