// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package csql

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/relabs-tech/jobly/core/apierror"
)

// Fields is an ordered set of field values for a partial update. The order in
// which fields are set is the order of the SQL parameters.
type Fields struct {
	names  []string
	values []interface{}
}

// Set sets the value of the field name. A new field is appended, an existing
// one keeps its position.
func (f *Fields) Set(name string, value interface{}) *Fields {
	for i, n := range f.names {
		if n == name {
			f.values[i] = value
			return f
		}
	}
	f.names = append(f.names, name)
	f.values = append(f.values, value)
	return f
}

// Get returns the value of the field name
func (f Fields) Get(name string) (interface{}, bool) {
	for i, n := range f.names {
		if n == name {
			return f.values[i], true
		}
	}
	return nil, false
}

// Len returns the number of fields
func (f Fields) Len() int {
	return len(f.names)
}

// Names returns the field names in order
func (f Fields) Names() []string {
	return append([]string(nil), f.names...)
}

// Values returns the field values in order
func (f Fields) Values() []interface{} {
	return append([]interface{}(nil), f.values...)
}

// UnmarshalJSON decodes a JSON object and keeps the order of its keys.
// Numbers are decoded as json.Number, so the literal digits reach the database.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(stdjson.Delim); !ok || delim != '{' {
		return errors.New("fields must be a JSON object")
	}

	result := Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return err
		}
		result.Set(name, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = result
	return nil
}

// Columns maps the field names a resource accepts in a partial update to their
// database columns. An empty column means the column has the name of the field.
// Fields which are not in Columns are rejected.
type Columns map[string]string

// Column returns the column for field and whether the field is known
func (c Columns) Column(field string) (string, bool) {
	column, ok := c[field]
	if !ok {
		return "", false
	}
	if column == "" {
		column = field
	}
	return column, true
}

// SQLForPartialUpdate creates the SET clause of an UPDATE statement from data.
//
// Example:
//
//	data:    {"name": "Aliya", "numEmployees": 32}
//	columns: {"name": "", "numEmployees": "num_employees"}
//	=> `"name"=$1, "num_employees"=$2` and ["Aliya", 32]
//
// The values are the parameters of the clause, in the same order. Further
// parameters of the statement start at position len(values)+1.
func SQLForPartialUpdate(data Fields, columns Columns) (string, []interface{}, error) {
	if data.Len() == 0 {
		return "", nil, apierror.NewBadRequest("No data")
	}

	sets := make([]string, data.Len())
	for i, name := range data.names {
		column, ok := columns.Column(name)
		if !ok {
			return "", nil, apierror.NewBadRequest("unknown field: " + name)
		}
		sets[i] = `"` + column + `"=$` + strconv.Itoa(i+1)
	}
	return strings.Join(sets, ", "), data.Values(), nil
}
