// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models_test

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/jobly/core/apierror"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/pointers"
	"github.com/relabs-tech/jobly/test"
)

var testDB *csql.DB

func TestMain(m *testing.M) {
	var terminate func()
	var err error
	testDB, terminate, err = test.OpenDatabase(context.Background(), "_jobly_models_unit_test_")
	if err != nil {
		logger.Default().WithError(err).Warnln("no database, database tests are skipped")
	}
	code := m.Run()
	terminate()
	os.Exit(code)
}

// seed recreates the tables with three companies and three jobs
func seed(t *testing.T) (*models.Companies, *models.Jobs, []int) {
	t.Helper()
	if testDB == nil {
		t.Skip("no database")
	}
	ctx := context.Background()
	testDB.ClearSchema()
	require.NoError(t, models.UpdateSchema(ctx, testDB))

	companies := models.NewCompanies(testDB)
	for i, c := range []models.CompanyNew{
		{Handle: "c1", Name: "C1", Description: "Desc1", NumEmployees: pointers.IntPtr(1), LogoURL: pointers.StringPtr("http://c1.img")},
		{Handle: "c2", Name: "C2", Description: "Desc2", NumEmployees: pointers.IntPtr(2), LogoURL: pointers.StringPtr("http://c2.img")},
		{Handle: "c3", Name: "C3", Description: "Desc3", NumEmployees: pointers.IntPtr(3), LogoURL: pointers.StringPtr("http://c3.img")},
	} {
		_, err := companies.Create(ctx, c)
		require.NoError(t, err, "company %d", i)
	}

	jobs := models.NewJobs(testDB)
	var ids []int
	for _, j := range []models.JobNew{
		{Title: "j1", Salary: pointers.IntPtr(30000), Equity: models.NewEquity("0"), CompanyHandle: "c1"},
		{Title: "j2", Salary: pointers.IntPtr(40000), Equity: models.NewEquity("0.23"), CompanyHandle: "c1"},
		{Title: "j3", Salary: pointers.IntPtr(55000), Equity: models.NewEquity("0.15"), CompanyHandle: "c3"},
	} {
		job, err := jobs.Create(ctx, j)
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}
	return companies, jobs, ids
}

func titles(jobs []models.Job) []string {
	var result []string
	for _, j := range jobs {
		result = append(result, j.Title)
	}
	return result
}

func handles(companies []models.Company) []string {
	result := []string{}
	for _, c := range companies {
		result = append(result, c.Handle)
	}
	return result
}

func fields(kv ...interface{}) csql.Fields {
	var f csql.Fields
	for i := 0; i < len(kv); i += 2 {
		f.Set(kv[i].(string), kv[i+1])
	}
	return f
}

// The following tests fail before any statement, they need no database

func TestCompanyFilterMinAboveMax(t *testing.T) {
	_, err := models.NewCompanies(nil).FindAll(context.Background(),
		models.CompanyFilter{MinEmployees: pointers.IntPtr(3), MaxEmployees: pointers.IntPtr(1)})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
	assert.Equal(t, "minEmployees cannot be higher than maxEmployees", err.Error())
}

func TestJobFilterNegativeSalary(t *testing.T) {
	_, err := models.NewJobs(nil).FindAll(context.Background(), models.JobFilter{MinSalary: pointers.IntPtr(-1)})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
	assert.Equal(t, "minSalary must be value above 0", err.Error())
}

func TestJobCreateMissingData(t *testing.T) {
	jobs := models.NewJobs(nil)
	for _, job := range []models.JobNew{
		{Salary: pointers.IntPtr(10000), Equity: models.NewEquity("0.12"), CompanyHandle: "c1"},
		{Title: "x", CompanyHandle: "c1"},
		{Title: "x", Salary: pointers.IntPtr(0), CompanyHandle: "c1"},
		{Title: "x", Salary: pointers.IntPtr(100)},
	} {
		_, err := jobs.Create(context.Background(), job)
		require.Error(t, err)
		assert.True(t, apierror.Is(err, http.StatusBadRequest))
		assert.Equal(t, "Missing required data: title/salary/company_handle", err.Error())
	}
}

func TestUpdateWithoutData(t *testing.T) {
	_, err := models.NewCompanies(nil).Update(context.Background(), "c1", csql.Fields{})
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
	_, err = models.NewJobs(nil).Update(context.Background(), 1, csql.Fields{})
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
}

func TestUpdateUnknownField(t *testing.T) {
	_, err := models.NewCompanies(nil).Update(context.Background(), "c1", fields("handle", "c1-new"))
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
	_, err = models.NewJobs(nil).Update(context.Background(), 1, fields("company_handle", "c2"))
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
}

// Companies

func TestCompanyCreate(t *testing.T) {
	companies, _, _ := seed(t)
	ctx := context.Background()

	newCompany := models.CompanyNew{Handle: "new", Name: "New", Description: "New Description",
		NumEmployees: pointers.IntPtr(1), LogoURL: pointers.StringPtr("http://new.img")}
	company, err := companies.Create(ctx, newCompany)
	require.NoError(t, err)
	assert.Equal(t, &models.Company{Handle: "new", Name: "New", Description: "New Description",
		NumEmployees: pointers.IntPtr(1), LogoURL: pointers.StringPtr("http://new.img")}, company)

	detail, err := companies.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, *company, detail.Company)

	_, err = companies.Create(ctx, newCompany)
	require.Error(t, err)
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
	assert.Equal(t, "Duplicate company: new", err.Error())
}

// A row inserted between the lookup and the insert of Create is caught by the
// unique constraint. This simulates the race by inserting the row directly.
func TestCompanyCreateRace(t *testing.T) {
	companies, _, _ := seed(t)
	ctx := context.Background()

	_, err := testDB.ExecContext(ctx, `INSERT INTO `+testDB.Table("companies")+
		` (handle, name, description) VALUES ('race', 'Race', 'inserted concurrently');`)
	require.NoError(t, err)

	_, err = companies.Create(ctx, models.CompanyNew{Handle: "other", Name: "Race", Description: "same name"})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, http.StatusBadRequest), "unique violation of the store, got %v", err)
	assert.Equal(t, "Duplicate company name: Race", err.Error())

	_, err = companies.Create(ctx, models.CompanyNew{Handle: "race", Name: "Race 2", Description: "x"})
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
	assert.Equal(t, "Duplicate company: race", err.Error())
}

func TestCompanyUpdateDuplicateName(t *testing.T) {
	companies, _, _ := seed(t)
	ctx := context.Background()

	_, err := companies.Update(ctx, "c1", fields("name", "C2"))
	require.Error(t, err)
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
	assert.Equal(t, "Duplicate company name: C2", err.Error())
}

func TestCompanyFindAll(t *testing.T) {
	companies, _, _ := seed(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		filter   models.CompanyFilter
		expected []string
	}{
		{"no filter", models.CompanyFilter{}, []string{"c1", "c2", "c3"}},
		{"name", models.CompanyFilter{Name: pointers.StringPtr("c1")}, []string{"c1"}},
		{"name is case insensitive", models.CompanyFilter{Name: pointers.StringPtr("C")}, []string{"c1", "c2", "c3"}},
		{"empty name", models.CompanyFilter{Name: pointers.StringPtr("")}, []string{"c1", "c2", "c3"}},
		{"name wildcard is literal", models.CompanyFilter{Name: pointers.StringPtr("_")}, []string{}},
		{"name percent is literal", models.CompanyFilter{Name: pointers.StringPtr("%")}, []string{}},
		{"min", models.CompanyFilter{MinEmployees: pointers.IntPtr(2)}, []string{"c2", "c3"}},
		{"max", models.CompanyFilter{MaxEmployees: pointers.IntPtr(2)}, []string{"c1", "c2"}},
		{"min and max", models.CompanyFilter{MinEmployees: pointers.IntPtr(2), MaxEmployees: pointers.IntPtr(2)}, []string{"c2"}},
		{"all", models.CompanyFilter{Name: pointers.StringPtr("3"), MinEmployees: pointers.IntPtr(1), MaxEmployees: pointers.IntPtr(3)}, []string{"c3"}},
		{"none", models.CompanyFilter{Name: pointers.StringPtr("nope")}, []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := companies.FindAll(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, handles(result))
		})
	}
}

func TestCompanyGet(t *testing.T) {
	companies, _, ids := seed(t)
	ctx := context.Background()

	detail, err := companies.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "C1", detail.Name)
	assert.Equal(t, []models.CompanyJob{
		{ID: ids[0], Title: "j1", Salary: pointers.IntPtr(30000), Equity: models.NewEquity("0")},
		{ID: ids[1], Title: "j2", Salary: pointers.IntPtr(40000), Equity: models.NewEquity("0.23")},
	}, detail.Jobs)

	detail, err = companies.Get(ctx, "c2")
	require.NoError(t, err)
	assert.NotNil(t, detail.Jobs)
	assert.Empty(t, detail.Jobs)

	_, err = companies.Get(ctx, "nope")
	require.Error(t, err)
	assert.True(t, apierror.Is(err, http.StatusNotFound))
	assert.Equal(t, "No company: nope", err.Error())
}

func TestCompanyUpdate(t *testing.T) {
	companies, _, _ := seed(t)
	ctx := context.Background()

	company, err := companies.Update(ctx, "c1", fields("name", "New", "numEmployees", 10))
	require.NoError(t, err)
	assert.Equal(t, &models.Company{Handle: "c1", Name: "New", Description: "Desc1",
		NumEmployees: pointers.IntPtr(10), LogoURL: pointers.StringPtr("http://c1.img")}, company)

	company, err = companies.Update(ctx, "c1", fields("logoUrl", nil))
	require.NoError(t, err)
	assert.Nil(t, company.LogoURL)
	assert.Equal(t, "New", company.Name)

	_, err = companies.Update(ctx, "nope", fields("name", "x"))
	assert.True(t, apierror.Is(err, http.StatusNotFound))

	_, err = companies.Update(ctx, "c2", fields("name", "C3"))
	assert.True(t, apierror.Is(err, http.StatusBadRequest), "name is unique")
}

func TestCompanyRemove(t *testing.T) {
	companies, jobs, ids := seed(t)
	ctx := context.Background()

	require.NoError(t, companies.Remove(ctx, "c1"))
	_, err := companies.Get(ctx, "c1")
	assert.True(t, apierror.Is(err, http.StatusNotFound))

	_, err = jobs.Get(ctx, ids[0])
	assert.True(t, apierror.Is(err, http.StatusNotFound), "jobs are removed with their company")

	err = companies.Remove(ctx, "c1")
	assert.True(t, apierror.Is(err, http.StatusNotFound))
}

// Jobs

func TestJobCreate(t *testing.T) {
	_, jobs, _ := seed(t)
	ctx := context.Background()

	job, err := jobs.Create(ctx, models.JobNew{Title: "newJob", Salary: pointers.IntPtr(12000), Equity: models.NewEquity("0"), CompanyHandle: "c2"})
	require.NoError(t, err)
	assert.Equal(t, "newJob", job.Title)
	assert.Equal(t, models.NewEquity("0"), job.Equity)
	assert.Equal(t, "c2", job.CompanyHandle)

	read, err := jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job, read)

	job, err = jobs.Create(ctx, models.JobNew{Title: "noEquity", Salary: pointers.IntPtr(1), CompanyHandle: "c2"})
	require.NoError(t, err)
	assert.False(t, job.Equity.Valid)

	_, err = jobs.Create(ctx, models.JobNew{Title: "x", Salary: pointers.IntPtr(1), CompanyHandle: "nope"})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, http.StatusBadRequest))
	assert.Equal(t, "No company: nope", err.Error())

	_, err = jobs.Create(ctx, models.JobNew{Title: "x", Salary: pointers.IntPtr(1), Equity: models.NewEquity("1.5"), CompanyHandle: "c1"})
	assert.True(t, apierror.Is(err, http.StatusBadRequest), "equity above 1")
}

func TestJobFindAll(t *testing.T) {
	_, jobs, _ := seed(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		filter   models.JobFilter
		expected []string
	}{
		{"no filter", models.JobFilter{}, []string{"j1", "j2", "j3"}},
		{"title", models.JobFilter{Title: pointers.StringPtr("j2")}, []string{"j2"}},
		{"title wildcard is literal", models.JobFilter{Title: pointers.StringPtr("j_")}, nil},
		{"min salary", models.JobFilter{MinSalary: pointers.IntPtr(40000)}, []string{"j2", "j3"}},
		{"zero min salary", models.JobFilter{MinSalary: pointers.IntPtr(0)}, []string{"j1", "j2", "j3"}},
		{"with equity", models.JobFilter{HasEquity: pointers.BoolPtr(true)}, []string{"j2", "j3"}},
		{"without equity", models.JobFilter{HasEquity: pointers.BoolPtr(false)}, []string{"j1"}},
		{"title and min salary", models.JobFilter{Title: pointers.StringPtr("J"), MinSalary: pointers.IntPtr(50000)}, []string{"j3"}},
		// the equity predicate must not OR across the other predicates
		{"without equity and min salary", models.JobFilter{HasEquity: pointers.BoolPtr(false), MinSalary: pointers.IntPtr(40000)}, nil},
		{"without equity and title", models.JobFilter{HasEquity: pointers.BoolPtr(false), Title: pointers.StringPtr("j3")}, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := jobs.FindAll(ctx, tc.filter)
			require.NoError(t, err)
			assert.NotNil(t, result)
			assert.Equal(t, tc.expected, titles(result))
		})
	}
}

func TestJobFindAllNullEquity(t *testing.T) {
	_, jobs, _ := seed(t)
	ctx := context.Background()

	_, err := jobs.Create(ctx, models.JobNew{Title: "j4", Salary: pointers.IntPtr(10), CompanyHandle: "c2"})
	require.NoError(t, err)

	result, err := jobs.FindAll(ctx, models.JobFilter{HasEquity: pointers.BoolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, []string{"j4", "j1"}, titles(result))
}

func TestJobGet(t *testing.T) {
	_, jobs, ids := seed(t)
	ctx := context.Background()

	job, err := jobs.Get(ctx, ids[2])
	require.NoError(t, err)
	assert.Equal(t, &models.Job{ID: ids[2], Title: "j3", Salary: pointers.IntPtr(55000),
		Equity: models.NewEquity("0.15"), CompanyHandle: "c3"}, job)

	_, err = jobs.Get(ctx, 0)
	require.Error(t, err)
	assert.True(t, apierror.Is(err, http.StatusNotFound))
	assert.Equal(t, "No job: 0", err.Error())
}

func TestJobUpdate(t *testing.T) {
	_, jobs, ids := seed(t)
	ctx := context.Background()

	var data csql.Fields
	require.NoError(t, data.UnmarshalJSON([]byte(`{"salary": 45000, "equity": 0.015}`)))
	job, err := jobs.Update(ctx, ids[0], data)
	require.NoError(t, err)
	assert.Equal(t, &models.Job{ID: ids[0], Title: "j1", Salary: pointers.IntPtr(45000),
		Equity: models.NewEquity("0.015"), CompanyHandle: "c1"}, job)

	job, err = jobs.Update(ctx, ids[0], fields("title", "updated"))
	require.NoError(t, err)
	assert.Equal(t, "updated", job.Title)
	assert.Equal(t, 45000, *job.Salary, "untouched fields keep their value")

	_, err = jobs.Update(ctx, 0, fields("title", "x"))
	assert.True(t, apierror.Is(err, http.StatusNotFound))
}

func TestJobDelete(t *testing.T) {
	_, jobs, ids := seed(t)
	ctx := context.Background()

	require.NoError(t, jobs.Delete(ctx, ids[0]))
	_, err := jobs.Get(ctx, ids[0])
	assert.True(t, apierror.Is(err, http.StatusNotFound))

	err = jobs.Delete(ctx, ids[0])
	assert.True(t, apierror.Is(err, http.StatusNotFound))
}

func TestStatistics(t *testing.T) {
	seed(t)
	stats, err := models.Statistics(context.Background(), testDB)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "companies", stats[0].Table)
	assert.Equal(t, int64(3), stats[0].Count)
	assert.Equal(t, "jobs", stats[1].Table)
	assert.Equal(t, int64(3), stats[1].Count)
}
