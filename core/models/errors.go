// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models

import (
	stdjson "encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/relabs-tech/jobly/core/apierror"
)

// postgres error codes we translate into bad requests
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeInvalidText         = "22P02"
	codeOutOfRange          = "22003"
)

// pqCode returns the postgres error code of err, or "" if err is no postgres error
func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// isInvalidInput returns true if postgres refused the values of a statement
func isInvalidInput(err error) bool {
	switch pqCode(err) {
	case codeCheckViolation, codeNotNullViolation, codeInvalidText, codeOutOfRange:
		return true
	}
	return false
}

// invalidInput returns a bad request for a statement postgres refused, see isInvalidInput
// constraintCompanyName is the unique constraint on companies.name
const constraintCompanyName = "companies_name_key"

// duplicateCompany returns the error for a unique violation on the companies
// table. name is the name that was written, if any.
func duplicateCompany(err error, handle string, name interface{}) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint == constraintCompanyName {
		if s, ok := name.(string); ok {
			return apierror.NewBadRequest("Duplicate company name: " + s)
		}
		return apierror.NewBadRequest("Duplicate company name")
	}
	return apierror.NewBadRequest("Duplicate company: " + handle)
}

func invalidInput(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	return apierror.NewBadRequest("Invalid data: " + pqErr.Message)
}

// parameters passes JSON numbers in values as their literal text
func parameters(values []interface{}) []interface{} {
	for i, v := range values {
		if n, ok := v.(stdjson.Number); ok {
			values[i] = n.String()
		}
	}
	return values
}
