// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/apierror"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/schema"
	"github.com/relabs-tech/jobly/schemas"
)

// Backend is the jobly rest backend
type Backend struct {
	db        *csql.DB
	router    *mux.Router
	validator *schema.Validator
	companies *models.Companies
	jobs      *models.Jobs
}

// Builder is a builder helper for the Backend
type Builder struct {
	// DB is a postgres database. This is mandatory.
	DB *csql.DB
	// Router is a mux router. This is mandatory.
	Router *mux.Router
	// Secret is the HMAC secret of the JWT bearer tokens. This is mandatory.
	Secret []byte
	// UpdateSchema creates the database tables if they do not exist yet
	UpdateSchema bool
}

// New realizes the actual backend. It creates the sql tables (if requested) and
// adds the middlewares and the actual routes to router
func New(bb *Builder) *Backend {
	if bb.DB == nil {
		panic("DB is missing")
	}
	if bb.Router == nil {
		panic("Router is missing")
	}
	if len(bb.Secret) == 0 {
		panic("Secret is missing")
	}

	validator, err := schema.NewValidatorFromFS(schemas.FS)
	if err != nil {
		panic(fmt.Errorf("invalid schemas: %w", err))
	}

	if bb.UpdateSchema {
		if err := models.UpdateSchema(context.Background(), bb.DB); err != nil {
			panic(err)
		}
	}

	b := &Backend{
		db:        bb.DB,
		router:    bb.Router,
		validator: validator,
		companies: models.NewCompanies(bb.DB),
		jobs:      models.NewJobs(bb.DB),
	}

	logger.AddRequestID(b.router)
	b.handleRecovery()
	b.handleCORS()
	b.handleCompression()
	b.router.Use(access.NewJwtMiddleware(bb.Secret))

	b.router.NotFoundHandler = apierror.NotFoundHandler()
	b.router.MethodNotAllowedHandler = apierror.MethodNotAllowedHandler()

	b.handleCompanies(b.router)
	b.handleJobs(b.router)
	b.handleVersion(b.router)
	b.handleStatistics(b.router)
	return b
}

// Router returns the router of the backend
func (b *Backend) Router() *mux.Router {
	return b.router
}
