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

// TableStatistics represents information about a table
type TableStatistics struct {
	Table        string  `json:"table"`
	Count        int64   `json:"count"`
	SizeMB       float64 `json:"size_mb"`
	AverageSizeB float64 `json:"average_size_b"`
}

// Statistics returns row count and size of all tables, in the order of Tables
func Statistics(ctx context.Context, db *csql.DB) ([]TableStatistics, error) {
	stats := []TableStatistics{}
	for _, table := range Tables {
		row := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT pg_total_relation_size('%s'), count(*) FROM %s;`,
			db.Table(table), db.Table(table)))
		var size, count int64
		if err := row.Scan(&size, &count); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("Error 4028: Scan")
			return nil, fmt.Errorf("statistics of %s: %w", table, err)
		}
		var averageSize float64
		if count != 0 {
			averageSize = float64(size / count)
		}
		stats = append(stats, TableStatistics{
			Table:        table,
			Count:        count,
			SizeMB:       float64(size) / 1024. / 1024.,
			AverageSizeB: averageSize,
		})
	}
	return stats, nil
}
