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
)

// Company is a company as returned by the API
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// CompanyNew is the data of a company to be created
type CompanyNew struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees,omitempty"`
	LogoURL      *string `json:"logoUrl,omitempty"`
}

// CompanyJob is a job as listed with its company
type CompanyJob struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Salary *int   `json:"salary"`
	Equity Equity `json:"equity"`
}

// CompanyDetail is a company with all its jobs
type CompanyDetail struct {
	Company
	Jobs []CompanyJob `json:"jobs"`
}

// CompanyFilter restricts the companies returned by FindAll. Nil values do not restrict.
type CompanyFilter struct {
	Name         *string
	MinEmployees *int
	MaxEmployees *int
}

// CompanyColumns are the fields of a company which can be updated
var CompanyColumns = csql.Columns{
	"name":         "",
	"description":  "",
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

const companyColumns = `handle, name, description, num_employees, logo_url`

// Companies are the companies stored in the database
type Companies struct {
	db *csql.DB
}

// NewCompanies returns the companies stored in db
func NewCompanies(db *csql.DB) *Companies {
	return &Companies{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCompany(row scanner) (*Company, error) {
	c := &Company{}
	err := row.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create creates a new company.
//
// The handle is looked up before the insert. Two concurrent creates of the same
// handle can both pass the lookup, the unique constraint of the table then
// refuses the second insert, which is reported as duplicate as well.
func (cs *Companies) Create(ctx context.Context, company CompanyNew) (*Company, error) {
	rlog := logger.FromContext(ctx)

	var exists bool
	err := cs.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+cs.db.Table("companies")+` WHERE handle = $1);`,
		company.Handle).Scan(&exists)
	if err != nil {
		rlog.WithError(err).Errorf("Error 4701: cannot look up company %s", company.Handle)
		return nil, fmt.Errorf("look up company: %w", err)
	}
	if exists {
		return nil, apierror.NewBadRequest("Duplicate company: " + company.Handle)
	}

	insertQuery := `INSERT INTO ` + cs.db.Table("companies") + ` (handle, name, description, num_employees, logo_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + companyColumns + `;`
	created, err := scanCompany(cs.db.QueryRowContext(ctx, insertQuery,
		company.Handle, company.Name, company.Description, company.NumEmployees, company.LogoURL))
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			rlog.WithError(err).Infof("Constraint violation: QueryRow query: `%s`", insertQuery)
			return nil, duplicateCompany(err, company.Handle, company.Name)
		}
		if isInvalidInput(err) {
			return nil, invalidInput(err)
		}
		rlog.WithError(err).Errorf("Error 4702: QueryRow query: `%s`", insertQuery)
		return nil, fmt.Errorf("insert company: %w", err)
	}
	return created, nil
}

// FindAll returns all companies matching filter, ordered by name
func (cs *Companies) FindAll(ctx context.Context, filter CompanyFilter) ([]Company, error) {
	if filter.MinEmployees != nil && filter.MaxEmployees != nil && *filter.MinEmployees > *filter.MaxEmployees {
		return nil, apierror.NewBadRequest("minEmployees cannot be higher than maxEmployees")
	}

	var where csql.Where
	if filter.MinEmployees != nil {
		where.Add("num_employees >= $%d", *filter.MinEmployees)
	}
	if filter.MaxEmployees != nil {
		where.Add("num_employees <= $%d", *filter.MaxEmployees)
	}
	if filter.Name != nil && *filter.Name != "" {
		where.Add("name ILIKE $%d", csql.Contains(*filter.Name))
	}

	rlog := logger.FromContext(ctx)
	sqlQuery := `SELECT ` + companyColumns + ` FROM ` + cs.db.Table("companies") + where.String() + ` ORDER BY name;`
	rows, err := cs.db.QueryContext(ctx, sqlQuery, where.Args()...)
	if err != nil {
		rlog.WithError(err).Errorf("Error 4703: cannot execute query `%s` %+v", sqlQuery, where.Args())
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			rlog.WithError(err).Errorf("Error 4704: cannot scan values")
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		rlog.WithError(err).Errorf("Error 4705: cannot iterate companies")
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

// Get returns the company with handle, together with its jobs ordered by id
func (cs *Companies) Get(ctx context.Context, handle string) (*CompanyDetail, error) {
	rlog := logger.FromContext(ctx)

	company, err := scanCompany(cs.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM `+cs.db.Table("companies")+` WHERE handle = $1;`, handle))
	if err == csql.ErrNoRows {
		return nil, apierror.NewNotFound("No company: " + handle)
	}
	if err != nil {
		rlog.WithError(err).Errorf("Error 4706: cannot read company %s", handle)
		return nil, fmt.Errorf("read company: %w", err)
	}

	rows, err := cs.db.QueryContext(ctx,
		`SELECT id, title, salary, equity FROM `+cs.db.Table("jobs")+` WHERE company_handle = $1 ORDER BY id;`, handle)
	if err != nil {
		rlog.WithError(err).Errorf("Error 4707: cannot read jobs of company %s", handle)
		return nil, fmt.Errorf("read jobs of company: %w", err)
	}
	defer rows.Close()

	detail := &CompanyDetail{Company: *company, Jobs: []CompanyJob{}}
	for rows.Next() {
		var job CompanyJob
		if err := rows.Scan(&job.ID, &job.Title, &job.Salary, &job.Equity); err != nil {
			rlog.WithError(err).Errorf("Error 4708: cannot scan values")
			return nil, fmt.Errorf("scan job: %w", err)
		}
		detail.Jobs = append(detail.Jobs, job)
	}
	if err := rows.Err(); err != nil {
		rlog.WithError(err).Errorf("Error 4709: cannot iterate jobs")
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return detail, nil
}

// Update updates the given fields of the company with handle and returns the
// updated company. The handle itself cannot be changed.
func (cs *Companies) Update(ctx context.Context, handle string, data csql.Fields) (*Company, error) {
	setCols, values, err := csql.SQLForPartialUpdate(data, CompanyColumns)
	if err != nil {
		return nil, err
	}

	rlog := logger.FromContext(ctx)
	updateQuery := `UPDATE ` + cs.db.Table("companies") + ` SET ` + setCols +
		` WHERE handle = $` + strconv.Itoa(len(values)+1) + ` RETURNING ` + companyColumns + `;`
	company, err := scanCompany(cs.db.QueryRowContext(ctx, updateQuery, append(parameters(values), handle)...))
	if err == csql.ErrNoRows {
		return nil, apierror.NewNotFound("No company: " + handle)
	}
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			name, _ := data.Get("name")
			return nil, duplicateCompany(err, handle, name)
		}
		if isInvalidInput(err) {
			return nil, invalidInput(err)
		}
		rlog.WithError(err).Errorf("Error 4710: QueryRow query: `%s`", updateQuery)
		return nil, fmt.Errorf("update company: %w", err)
	}
	return company, nil
}

// Remove deletes the company with handle and all its jobs
func (cs *Companies) Remove(ctx context.Context, handle string) error {
	res, err := cs.db.ExecContext(ctx, `DELETE FROM `+cs.db.Table("companies")+` WHERE handle = $1;`, handle)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorf("Error 4711: cannot delete company %s", handle)
		return fmt.Errorf("delete company: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if count == 0 {
		return apierror.NewNotFound("No company: " + handle)
	}
	return nil
}
