// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Equity is a nullable fraction of ownership, carried as decimal text. It is
// never converted to a float, so 0.015 stays 0.015 on the way in and out.
//
// In JSON, an equity is read from a number or a numeric string and always
// written as a string, or null.
type Equity struct {
	Text  string
	Valid bool
}

// NewEquity returns a valid equity with the decimal text s
func NewEquity(s string) Equity {
	return Equity{Text: s, Valid: true}
}

// Scan implements sql.Scanner
func (e *Equity) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*e = Equity{}
	case []byte:
		*e = NewEquity(string(v))
	case string:
		*e = NewEquity(v)
	case int64:
		*e = NewEquity(strconv.FormatInt(v, 10))
	case float64:
		*e = NewEquity(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("cannot scan %T into equity", src)
	}
	return nil
}

// Value implements driver.Valuer
func (e Equity) Value() (driver.Value, error) {
	if !e.Valid {
		return nil, nil
	}
	return e.Text, nil
}

// MarshalJSON implements json.Marshaler
func (e Equity) MarshalJSON() ([]byte, error) {
	if !e.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(e.Text)
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Equity) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*e = Equity{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("equity is not a decimal: %s", string(data))
	}
	*e = NewEquity(s)
	return nil
}

// String returns the decimal text, or "null"
func (e Equity) String() string {
	if !e.Valid {
		return "null"
	}
	return e.Text
}
