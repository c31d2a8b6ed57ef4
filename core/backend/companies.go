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
	"github.com/relabs-tech/jobly/core/apierror"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/schemas"
)

func (b *Backend) handleCompanies(router *mux.Router) {
	rlog := logger.Default()
	rlog.Debugln("companies")
	rlog.Debugln("  handle companies route: /companies GET")
	rlog.Debugln("  handle companies route: /companies POST")
	rlog.Debugln("  handle companies route: /companies/{handle} GET")
	rlog.Debugln("  handle companies route: /companies/{handle} PATCH")
	rlog.Debugln("  handle companies route: /companies/{handle} DELETE")

	adminOnly := access.RequireAdmin()

	router.HandleFunc("/companies", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.listCompanies(w, r)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.Handle("/companies", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.createCompany(w, r)
	}))).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/companies/{handle}", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.getCompany(w, r)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.Handle("/companies/{handle}", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.updateCompany(w, r)
	}))).Methods(http.MethodOptions, http.MethodPatch)

	router.Handle("/companies/{handle}", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.removeCompany(w, r)
	}))).Methods(http.MethodOptions, http.MethodDelete)
}

// listCompanies handles GET /companies?name=&minEmployees=&maxEmployees=
func (b *Backend) listCompanies(w http.ResponseWriter, r *http.Request) {
	parameters, err := b.validateQuery(r, schemas.CompanyFilter, []string{"minEmployees", "maxEmployees"}, nil)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	companies, err := b.companies.FindAll(r.Context(), models.CompanyFilter{
		Name:         stringParameter(parameters, "name"),
		MinEmployees: intParameter(parameters, "minEmployees"),
		MaxEmployees: intParameter(parameters, "maxEmployees"),
	})
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"companies": companies})
}

// createCompany handles POST /companies
func (b *Backend) createCompany(w http.ResponseWriter, r *http.Request) {
	body, err := b.readBody(r, schemas.CompanyNew)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	var company models.CompanyNew
	if err := decodeBody(body, &company); err != nil {
		apierror.Write(w, r, err)
		return
	}
	created, err := b.companies.Create(r.Context(), company)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]interface{}{"company": created})
}

// getCompany handles GET /companies/{handle}
func (b *Backend) getCompany(w http.ResponseWriter, r *http.Request) {
	company, err := b.companies.Get(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"company": company})
}

// updateCompany handles PATCH /companies/{handle}
func (b *Backend) updateCompany(w http.ResponseWriter, r *http.Request) {
	body, err := b.readBody(r, schemas.CompanyUpdate)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	var data csql.Fields
	if err := decodeBody(body, &data); err != nil {
		apierror.Write(w, r, err)
		return
	}
	company, err := b.companies.Update(r.Context(), mux.Vars(r)["handle"], data)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"company": company})
}

// removeCompany handles DELETE /companies/{handle}
func (b *Backend) removeCompany(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["handle"]
	if err := b.companies.Remove(r.Context(), handle); err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"deleted": handle})
}
