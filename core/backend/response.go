// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/relabs-tech/jobly/core/apierror"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/pointers"
)

// maxBodySize limits the size of request bodies
const maxBodySize = 1 << 20

// bytesToEtag returns a strong etag for data
func bytesToEtag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// ifNoneMatchFound returns true if etag is in the If-None-Match header ifNoneMatch.
func ifNoneMatchFound(ifNoneMatch, etag string) bool {
	ifNoneMatch = strings.Trim(ifNoneMatch, " ")
	if len(ifNoneMatch) == 0 {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, s := range strings.Split(ifNoneMatch, ",") {
		s = strings.Trim(s, " \"")
		t := strings.Trim(etag, " \"")
		if s == t {
			return true
		}
	}
	return false
}

// writeJSON writes response as JSON with status. Successful GET responses carry
// an Etag and are answered with 304 if the client has them already.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, response interface{}) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Errorf("Error 4750: cannot marshal response")
		apierror.Write(w, r, err)
		return
	}

	if r.Method == http.MethodGet && status == http.StatusOK {
		etag := bytesToEtag(jsonData)
		w.Header().Set("Etag", etag)
		if ifNoneMatchFound(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(jsonData)
}

// readBody reads the body of r and validates it against schemaID
func (b *Backend) readBody(r *http.Request, schemaID string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, apierror.NewBadRequest("cannot read body")
	}
	if len(body) > maxBodySize {
		return nil, apierror.NewBadRequest("body too large")
	}
	if len(body) == 0 {
		return nil, apierror.NewBadRequest("No data")
	}
	if err := b.validator.ValidateBytes(body, schemaID); err != nil {
		return nil, err
	}
	return body, nil
}

// decodeBody decodes a validated body into v
func decodeBody(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return apierror.NewBadRequest("invalid JSON: " + err.Error())
	}
	return nil
}

// queryParameters returns the first value of every URL parameter of r.
// Parameters in integers are converted to int if they are integers, parameters
// in booleans to bool if they are "true" or "false". Other values stay strings,
// so that the schema validation reports them.
func queryParameters(r *http.Request, integers []string, booleans []string) map[string]interface{} {
	parameters := map[string]interface{}{}
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		parameters[key] = values[0]
	}
	for _, key := range integers {
		if s, ok := parameters[key].(string); ok {
			if i, err := strconv.Atoi(s); err == nil {
				parameters[key] = i
			}
		}
	}
	for _, key := range booleans {
		if s, ok := parameters[key].(string); ok && (s == "true" || s == "false") {
			parameters[key] = s == "true"
		}
	}
	return parameters
}

// validateQuery validates the converted URL parameters of r against schemaID
func (b *Backend) validateQuery(r *http.Request, schemaID string, integers []string, booleans []string) (map[string]interface{}, error) {
	parameters := queryParameters(r, integers, booleans)
	if err := b.validator.ValidateStruct(parameters, schemaID); err != nil {
		return nil, err
	}
	return parameters, nil
}

func stringParameter(parameters map[string]interface{}, key string) *string {
	if s, ok := parameters[key].(string); ok {
		return pointers.NonEmpty(&s)
	}
	return nil
}

func intParameter(parameters map[string]interface{}, key string) *int {
	if i, ok := parameters[key].(int); ok {
		return &i
	}
	return nil
}

func boolParameter(parameters map[string]interface{}, key string) *bool {
	if v, ok := parameters[key].(bool); ok {
		return &v
	}
	return nil
}
