// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package csql

import (
	"fmt"
	"strings"
)

// Where composes a WHERE clause from predicates which are all required to hold.
//
// A predicate has one $%d verb per argument, they are replaced with the
// positions of the arguments:
//
//	var where csql.Where
//	where.Add("num_employees >= $%d", 10)
//	where.Add("equity IS NULL OR equity = 0")
//	where.String() // " WHERE (num_employees >= $1) AND (equity IS NULL OR equity = 0)"
//
// Every predicate is put in parentheses, so an OR inside a predicate stays inside it.
type Where struct {
	predicates []string
	args       []interface{}
}

// Add adds a predicate with its arguments
func (w *Where) Add(predicate string, args ...interface{}) {
	if len(args) > 0 {
		positions := make([]interface{}, len(args))
		for i := range args {
			positions[i] = len(w.args) + i + 1
		}
		predicate = fmt.Sprintf(predicate, positions...)
	}
	w.predicates = append(w.predicates, "("+predicate+")")
	w.args = append(w.args, args...)
}

// Len returns the number of predicates
func (w *Where) Len() int {
	return len(w.predicates)
}

// String returns the WHERE clause with a leading space, or "" if there are no predicates
func (w *Where) String() string {
	if len(w.predicates) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.predicates, " AND ")
}

// Args returns the arguments of all predicates in position order
func (w *Where) Args() []interface{} {
	return w.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns a LIKE pattern matching every text which contains s
// literally. The wildcards of s are escaped with the default escape character.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
