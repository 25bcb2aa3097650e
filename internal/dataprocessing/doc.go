// Package dataprocessing turns a raw sales snapshot into analytics ready for
// charting. It owns the whole batch computation, from cleaning the source
// tables to the statistics and distributions a dashboard renders.
//
// # Stages
//
//  1. Normalize: drop rows with nulls, parse dates and amounts, remove exact duplicates
//  2. Join: attach product attributes to each sale through the product key
//  3. Aggregate: sum sales per calendar day and sales, cost and profit per month
//  4. Statistics: count, total, min, max, mean and sample standard deviation of the daily series
//  5. Trend: least squares line over the daily series indexed from zero
//  6. Distributions: sale amounts binned by color or subcategory against an allow-list
//
// # Usage
//
//	snap, err := dataprocessing.LoadWorkbook(ctx, "AdventureWorks.xlsx", dataprocessing.DefaultSheetNames(), logger)
//	if err != nil {
//	    return err
//	}
//	result, err := dataprocessing.NewPipeline(logger, dataprocessing.DefaultOptions()).Compute(ctx, snap)
//	if err != nil {
//	    return err
//	}
//	colors, err := result.ColorDistribution(domain.FieldColor,
//	    []string{"Red", "Silver", "Black", "Yellow", "Blue"}, dataprocessing.WithCategory("Bikes"))
//
// # Error Handling
//
// Missing columns, unparseable values and ambiguous join keys abort the run
// with a typed *errors.AppError. A daily series too short for a trend line is
// not an error; the result carries a nil Trend and a warning instead.
//
// Every function in this package is deterministic and free of shared state,
// so a Pipeline may be used from several goroutines at once.
package dataprocessing
