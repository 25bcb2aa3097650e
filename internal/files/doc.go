// Package files finds snapshots on disk and archives earlier reports.
//
// Discovery lists the .xlsx workbooks and CSV snapshot directories (a
// directory holding sales.csv and products.csv) below the data directory.
// The CLI uses it for "salespulse sources" and for "report --latest".
//
// Manager moves the previous contents of the output directory into
// archive/<timestamp>/ before a new report is written.
package files
