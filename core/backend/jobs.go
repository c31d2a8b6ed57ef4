// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/apierror"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/schemas"
)

func (b *Backend) handleJobs(router *mux.Router) {
	rlog := logger.Default()
	rlog.Debugln("jobs")
	rlog.Debugln("  handle jobs route: /jobs GET")
	rlog.Debugln("  handle jobs route: /jobs POST")
	rlog.Debugln("  handle jobs route: /jobs/{id} GET")
	rlog.Debugln("  handle jobs route: /jobs/{id} PATCH")
	rlog.Debugln("  handle jobs route: /jobs/{id} DELETE")

	adminOnly := access.RequireAdmin()

	router.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.listJobs(w, r)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.Handle("/jobs", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.createJob(w, r)
	}))).Methods(http.MethodOptions, http.MethodPost)

	router.HandleFunc("/jobs/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.getJob(w, r)
	}).Methods(http.MethodOptions, http.MethodGet)

	router.Handle("/jobs/{id:[0-9]+}", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.updateJob(w, r)
	}))).Methods(http.MethodOptions, http.MethodPatch)

	router.Handle("/jobs/{id:[0-9]+}", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		b.deleteJob(w, r)
	}))).Methods(http.MethodOptions, http.MethodDelete)
}

// jobID returns the id of the route. The route only matches digits, but the
// number can still exceed the 32 bit serial of the jobs table.
func jobID(r *http.Request) (int, error) {
	param := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(param, 10, 32)
	if err != nil {
		return 0, apierror.NewNotFound("No job: " + param)
	}
	return int(id), nil
}

// listJobs handles GET /jobs?title=&minSalary=&hasEquity=
func (b *Backend) listJobs(w http.ResponseWriter, r *http.Request) {
	parameters, err := b.validateQuery(r, schemas.JobFilter, []string{"minSalary"}, []string{"hasEquity"})
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	jobs, err := b.jobs.FindAll(r.Context(), models.JobFilter{
		Title:     stringParameter(parameters, "title"),
		MinSalary: intParameter(parameters, "minSalary"),
		HasEquity: boolParameter(parameters, "hasEquity"),
	})
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

// createJob handles POST /jobs
func (b *Backend) createJob(w http.ResponseWriter, r *http.Request) {
	body, err := b.readBody(r, schemas.JobNew)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	var job models.JobNew
	if err := decodeBody(body, &job); err != nil {
		apierror.Write(w, r, err)
		return
	}
	created, err := b.jobs.Create(r.Context(), job)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]interface{}{"job": created})
}

// getJob handles GET /jobs/{id}
func (b *Backend) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	job, err := b.jobs.Get(r.Context(), id)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"job": job})
}

// updateJob handles PATCH /jobs/{id}
func (b *Backend) updateJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	body, err := b.readBody(r, schemas.JobUpdate)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	var data csql.Fields
	if err := decodeBody(body, &data); err != nil {
		apierror.Write(w, r, err)
		return
	}
	job, err := b.jobs.Update(r.Context(), id, data)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"job": job})
}

// deleteJob handles DELETE /jobs/{id}
func (b *Backend) deleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}
	if err := b.jobs.Delete(r.Context(), id); err != nil {
		apierror.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"deleted": id})
}
