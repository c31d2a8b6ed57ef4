// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models

import (
	"context"
	"fmt"
	"strconv"

	"github.com/relabs-tech/jobly/core/apierror"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/pointers"
)

// Job is a job as returned by the API
type Job struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Salary        *int   `json:"salary"`
	Equity        Equity `json:"equity"`
	CompanyHandle string `json:"companyHandle"`
}

// JobNew is the data of a job to be created
type JobNew struct {
	Title         string `json:"title"`
	Salary        *int   `json:"salary"`
	Equity        Equity `json:"equity"`
	CompanyHandle string `json:"company_handle"`
}

// JobFilter restricts the jobs returned by FindAll. Nil values do not restrict.
type JobFilter struct {
	Title     *string
	MinSalary *int
	HasEquity *bool
}

// JobColumns are the fields of a job which can be updated. A job cannot move to
// another company.
var JobColumns = csql.Columns{
	"title":  "",
	"salary": "",
	"equity": "",
}

const jobColumns = `id, title, salary, equity, company_handle`

// Jobs are the jobs stored in the database
type Jobs struct {
	db *csql.DB
}

// NewJobs returns the jobs stored in db
func NewJobs(db *csql.DB) *Jobs {
	return &Jobs{db: db}
}

func scanJob(row scanner) (*Job, error) {
	j := &Job{}
	err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Create creates a new job. Title, salary and company handle are required, a
// salary of 0 counts as missing.
func (js *Jobs) Create(ctx context.Context, job JobNew) (*Job, error) {
	if job.Title == "" || pointers.SafeInt(job.Salary) == 0 || job.CompanyHandle == "" {
		return nil, apierror.NewBadRequest("Missing required data: title/salary/company_handle")
	}

	rlog := logger.FromContext(ctx)
	insertQuery := `INSERT INTO ` + js.db.Table("jobs") + ` (title, salary, equity, company_handle)
VALUES ($1, $2, $3, $4)
RETURNING ` + jobColumns + `;`
	created, err := scanJob(js.db.QueryRowContext(ctx, insertQuery, job.Title, *job.Salary, job.Equity, job.CompanyHandle))
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return nil, apierror.NewBadRequest("No company: " + job.CompanyHandle)
		}
		if isInvalidInput(err) {
			return nil, invalidInput(err)
		}
		rlog.WithError(err).Errorf("Error 4721: QueryRow query: `%s`", insertQuery)
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return created, nil
}

// FindAll returns all jobs matching filter, ordered by salary
func (js *Jobs) FindAll(ctx context.Context, filter JobFilter) ([]Job, error) {
	if filter.MinSalary != nil && *filter.MinSalary < 0 {
		return nil, apierror.NewBadRequest("minSalary must be value above 0")
	}

	var where csql.Where
	if filter.Title != nil && *filter.Title != "" {
		where.Add("title ILIKE $%d", csql.Contains(*filter.Title))
	}
	if filter.MinSalary != nil {
		where.Add("salary >= $%d", *filter.MinSalary)
	}
	if filter.HasEquity != nil {
		if *filter.HasEquity {
			where.Add("equity > 0")
		} else {
			where.Add("equity IS NULL OR equity = 0")
		}
	}

	rlog := logger.FromContext(ctx)
	sqlQuery := `SELECT ` + jobColumns + ` FROM ` + js.db.Table("jobs") + where.String() + ` ORDER BY salary, id;`
	rows, err := js.db.QueryContext(ctx, sqlQuery, where.Args()...)
	if err != nil {
		rlog.WithError(err).Errorf("Error 4722: cannot execute query `%s` %+v", sqlQuery, where.Args())
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			rlog.WithError(err).Errorf("Error 4723: cannot scan values")
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		rlog.WithError(err).Errorf("Error 4724: cannot iterate jobs")
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// Get returns the job with id
func (js *Jobs) Get(ctx context.Context, id int) (*Job, error) {
	job, err := scanJob(js.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM `+js.db.Table("jobs")+` WHERE id = $1;`, id))
	if err == csql.ErrNoRows {
		return nil, apierror.NewNotFound("No job: " + strconv.Itoa(id))
	}
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorf("Error 4725: cannot read job %d", id)
		return nil, fmt.Errorf("read job: %w", err)
	}
	return job, nil
}

// Update updates the given fields of the job with id and returns the updated job
func (js *Jobs) Update(ctx context.Context, id int, data csql.Fields) (*Job, error) {
	setCols, values, err := csql.SQLForPartialUpdate(data, JobColumns)
	if err != nil {
		return nil, err
	}

	updateQuery := `UPDATE ` + js.db.Table("jobs") + ` SET ` + setCols +
		` WHERE id = $` + strconv.Itoa(len(values)+1) + ` RETURNING ` + jobColumns + `;`
	job, err := scanJob(js.db.QueryRowContext(ctx, updateQuery, append(parameters(values), id)...))
	if err == csql.ErrNoRows {
		return nil, apierror.NewNotFound("No job: " + strconv.Itoa(id))
	}
	if err != nil {
		if isInvalidInput(err) {
			return nil, invalidInput(err)
		}
		logger.FromContext(ctx).WithError(err).Errorf("Error 4726: QueryRow query: `%s`", updateQuery)
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Delete deletes the job with id
func (js *Jobs) Delete(ctx context.Context, id int) error {
	res, err := js.db.ExecContext(ctx, `DELETE FROM `+js.db.Table("jobs")+` WHERE id = $1;`, id)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorf("Error 4727: cannot delete job %d", id)
		return fmt.Errorf("delete job: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if count == 0 {
		return apierror.NewNotFound("No job: " + strconv.Itoa(id))
	}
	return nil
}
