// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/logger"
)

var (
	// Version is the version of the curent build, set with
	//
	//	go build -ldflags "-X github.com/relabs-tech/jobly/core/backend.Version=1.2.3"
	Version = "unset"
)

func (b *Backend) handleVersion(router *mux.Router) {
	logger.Default().Debugln("version")
	logger.Default().Debugln("  handle version route: /version GET")
	router.Handle("/version", access.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		writeJSON(w, r, http.StatusOK, map[string]string{"version": Version})
	}))).Methods(http.MethodOptions, http.MethodGet)
}
