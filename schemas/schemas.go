// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

// Package schemas contains the JSON schemas of the jobly request documents
package schemas

import "embed"

// FS holds all schemas, see schema.NewValidatorFromFS
//
//go:embed *.json
var FS embed.FS

// IDs of the embedded schemas
const (
	CompanyNew    = "https://jobly.relabs-tech.com/schemas/companyNew.json"
	CompanyUpdate = "https://jobly.relabs-tech.com/schemas/companyUpdate.json"
	CompanyFilter = "https://jobly.relabs-tech.com/schemas/companyFilter.json"
	JobNew        = "https://jobly.relabs-tech.com/schemas/jobNew.json"
	JobUpdate     = "https://jobly.relabs-tech.com/schemas/jobUpdate.json"
	JobFilter     = "https://jobly.relabs-tech.com/schemas/jobFilter.json"
)
