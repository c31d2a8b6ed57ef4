// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package models

import (
	"context"
	"fmt"

	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/logger"
)

// Tables are the tables of the jobly schema, in creation order
var Tables = []string{"companies", "jobs"}

// UpdateSchema creates the companies and jobs tables in the schema of db if they do not exist yet
func UpdateSchema(ctx context.Context, db *csql.DB) error {
	rlog := logger.FromContext(ctx)
	rlog.Infoln("update schema", db.Schema)

	createQuery := `CREATE TABLE IF NOT EXISTS ` + db.Table("companies") + ` (
handle varchar(25) PRIMARY KEY CHECK (handle = lower(handle)),
name text NOT NULL CONSTRAINT companies_name_key UNIQUE,
num_employees integer CHECK (num_employees >= 0),
description text NOT NULL,
logo_url text
);
CREATE TABLE IF NOT EXISTS ` + db.Table("jobs") + ` (
id serial PRIMARY KEY,
title text NOT NULL,
salary integer CHECK (salary >= 0),
equity numeric CHECK (equity <= 1.0),
company_handle varchar(25) NOT NULL REFERENCES ` + db.Table("companies") + ` ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS jobs_company_handle ON ` + db.Table("jobs") + `(company_handle);`

	if _, err := db.ExecContext(ctx, createQuery); err != nil {
		rlog.WithError(err).Errorln("Error 4700: cannot create tables")
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
