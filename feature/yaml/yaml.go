/*
Package yaml provides methods to parse feature.Schema
specifications, also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/canopyml/canopy/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadSchema takes a slice of bytes with a schema specification in
YML and returns the feature.Schema parsed from it or an error.

The YML is expected to be an object containing a fields property
holding an ordered list of field declarations, each an object with
a name and a type of either 'numeric' or 'text'. The order of the
list is the column order of the dataset and the last field is the
class label, which must be of type text.
*/
func ReadSchema(md []byte) (*feature.Schema, error) {
	metadata := struct {
		Fields []struct {
			Name string
			Type string
		}
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml schema: %v", err)
	}
	if len(metadata.Fields) == 0 {
		return nil, fmt.Errorf("metadata file has no field information")
	}
	fields := make([]feature.Field, 0, len(metadata.Fields))
	for _, fd := range metadata.Fields {
		if fd.Name == "" {
			return nil, fmt.Errorf("field declaration %d has no name", len(fields))
		}
		switch fd.Type {
		case "numeric":
			fields = append(fields, feature.NewNumericField(fd.Name))
		case "text":
			fields = append(fields, feature.NewTextField(fd.Name))
		default:
			return nil, fmt.Errorf("field %s declares invalid type %q, want numeric or text", fd.Name, fd.Type)
		}
	}
	schema, err := feature.NewSchema(fields)
	if err != nil {
		return nil, fmt.Errorf("parsing yml schema: %v", err)
	}
	return schema, nil
}

/*
ReadSchemaFromFile takes a filepath string, reads its contents and
uses ReadSchema to parse it and return the parsed schema or an
error. If the file indicated by the filepath cannot be opened for
reading an error will be returned.
*/
func ReadSchemaFromFile(filepath string) (*feature.Schema, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading schema yml file %s: %v", filepath, err)
	}
	schema, err := ReadSchema(md)
	if err != nil {
		err = fmt.Errorf("parsing schema yml file %s: %v", filepath, err)
	}
	return schema, err
}
