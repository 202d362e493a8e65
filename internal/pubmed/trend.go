// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"fmt"
	"time"

	"github.com/IMTENANUR/Research-Toolkit/internal/query"
	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

// YearlyTrend counts PubMed matches for the term, restricted to
// Title/Abstract, for every year from startYear through endYear
// inclusive. A zero endYear means the current year. One esearch call is
// made per year; the client's pacer keeps the loop under the NCBI
// request budget.
func (c *Client) YearlyTrend(ctx context.Context, term string, startYear, endYear int) (types.Trend, error) {
	if term == "" {
		return nil, fmt.Errorf("empty trend term")
	}
	if endYear <= 0 {
		endYear = time.Now().Year()
	}
	if startYear <= 0 {
		startYear = 2000
	}
	if startYear > endYear {
		return nil, fmt.Errorf("start year %d is after end year %d", startYear, endYear)
	}

	base, err := query.Build([]query.Clause{{Term: term, Field: query.FieldTitleAbstract}})
	if err != nil {
		return nil, err
	}

	trend := make(types.Trend, 0, endYear-startYear+1)
	for yr := startYear; yr <= endYear; yr++ {
		count, err := c.Count(ctx, query.WithYear(base, yr))
		if err != nil {
			return nil, fmt.Errorf("counting year %d: %w", yr, err)
		}
		trend = append(trend, types.YearCount{Year: yr, Count: count})
	}
	return trend, nil
}
