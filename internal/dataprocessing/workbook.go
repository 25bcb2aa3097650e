package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// SheetNames names the worksheets holding each table.
type SheetNames struct {
	Sales     string
	Products  string
	Customers string
}

// DefaultSheetNames matches the AdventureWorks workbook.
func DefaultSheetNames() SheetNames {
	return SheetNames{Sales: "Sales", Products: "Products", Customers: "Customers"}
}

// WorkbookSource loads a snapshot from an .xlsx file on every call.
type WorkbookSource struct {
	Path   string
	Sheets SheetNames
	Logger *slog.Logger
}

// Load implements SnapshotSource.
func (w WorkbookSource) Load(ctx context.Context) (domain.Snapshot, error) {
	return LoadWorkbook(ctx, w.Path, w.Sheets, w.Logger)
}

// LoadWorkbook reads the sales, products and customers sheets of an Excel
// workbook. Cells are read raw so dates arrive as Excel serial numbers and are
// interpreted by the normalizer. A missing customers sheet yields an empty table.
func LoadWorkbook(ctx context.Context, path string, sheets SheetNames, logger *slog.Logger) (domain.Snapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.Snapshot{}, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()
	return readWorkbook(ctx, f, path, sheets, logger)
}

// ReadWorkbook is LoadWorkbook over an already open stream.
func ReadWorkbook(ctx context.Context, r io.Reader, sheets SheetNames, logger *slog.Logger) (domain.Snapshot, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Snapshot{}, apperrors.NewParsingError("failed to read workbook", err)
	}
	defer f.Close()
	return readWorkbook(ctx, f, "<stream>", sheets, logger)
}

func readWorkbook(ctx context.Context, f *excelize.File, path string, sheets SheetNames, logger *slog.Logger) (domain.Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if sheets.Sales == "" || sheets.Products == "" {
		def := DefaultSheetNames()
		if sheets.Sales == "" {
			sheets.Sales = def.Sales
		}
		if sheets.Products == "" {
			sheets.Products = def.Products
		}
	}

	var snap domain.Snapshot
	var err error
	if snap.Sales, err = readSheet(f, sheets.Sales); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.Products, err = readSheet(f, sheets.Products); err != nil {
		return domain.Snapshot{}, err
	}
	if sheets.Customers != "" {
		if idx, _ := f.GetSheetIndex(sheets.Customers); idx >= 0 {
			if snap.Customers, err = readSheet(f, sheets.Customers); err != nil {
				return domain.Snapshot{}, err
			}
		} else {
			logger.WarnContext(ctx, "customers sheet not found, continuing without customers",
				slog.String("sheet", sheets.Customers),
				slog.Any("available", f.GetSheetList()))
			snap.Customers = domain.RawTable{Name: sheets.Customers}
		}
	}

	logger.InfoContext(ctx, "workbook loaded",
		slog.String("path", path),
		slog.Int("sales_rows", snap.Sales.Len()),
		slog.Int("product_rows", snap.Products.Len()),
		slog.Int("customer_rows", snap.Customers.Len()))
	return snap, nil
}

// readSheet turns a worksheet into a RawTable. The first non-empty row is the
// header; fully empty rows are skipped and short rows are padded with nulls.
func readSheet(f *excelize.File, sheet string) (domain.RawTable, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return domain.RawTable{}, apperrors.NewParsingError(
			fmt.Sprintf("sheet %q not found (available: %s)", sheet, strings.Join(f.GetSheetList(), ", ")), err)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.RawTable{}, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	return rowsToTable(sheet, rows), nil
}

// rowsToTable builds a RawTable from string rows, shared by the workbook and CSV loaders.
func rowsToTable(name string, rows [][]string) domain.RawTable {
	table := domain.RawTable{Name: name}
	header := -1
	for i, row := range rows {
		if !emptyRow(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return table
	}

	for _, col := range rows[header] {
		table.Columns = append(table.Columns, strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
	}
	for _, row := range rows[header+1:] {
		if emptyRow(row) {
			continue
		}
		cells := make([]any, len(table.Columns))
		for i := range cells {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				cells[i] = row[i]
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
