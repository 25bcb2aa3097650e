package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// CSVFiles names the per-table files inside a snapshot directory.
type CSVFiles struct {
	Sales     string
	Products  string
	Customers string
}

// DefaultCSVFiles returns sales.csv, products.csv and customers.csv.
func DefaultCSVFiles() CSVFiles {
	return CSVFiles{Sales: "sales.csv", Products: "products.csv", Customers: "customers.csv"}
}

// CSVDirSource loads a snapshot from a directory of CSV exports.
type CSVDirSource struct {
	Dir    string
	Files  CSVFiles
	Logger *slog.Logger
}

// Load implements SnapshotSource.
func (c CSVDirSource) Load(ctx context.Context) (domain.Snapshot, error) {
	return LoadCSVDir(ctx, c.Dir, c.Files, c.Logger)
}

// LoadCSVDir reads the three tables concurrently. The customers file is
// optional; sales and products must exist.
func LoadCSVDir(ctx context.Context, dir string, files CSVFiles, logger *slog.Logger) (domain.Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultCSVFiles()
	if files.Sales == "" {
		files.Sales = def.Sales
	}
	if files.Products == "" {
		files.Products = def.Products
	}
	if files.Customers == "" {
		files.Customers = def.Customers
	}

	var snap domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := readCSVTable(gctx, filepath.Join(dir, files.Sales), "sales", false)
		snap.Sales = t
		return err
	})
	g.Go(func() error {
		t, err := readCSVTable(gctx, filepath.Join(dir, files.Products), "products", false)
		snap.Products = t
		return err
	})
	g.Go(func() error {
		t, err := readCSVTable(gctx, filepath.Join(dir, files.Customers), "customers", true)
		snap.Customers = t
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}

	logger.InfoContext(ctx, "csv snapshot loaded",
		slog.String("dir", dir),
		slog.Int("sales_rows", snap.Sales.Len()),
		slog.Int("product_rows", snap.Products.Len()),
		slog.Int("customer_rows", snap.Customers.Len()))
	return snap, nil
}

func readCSVTable(ctx context.Context, path, name string, optional bool) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return domain.RawTable{Name: name}, nil
		}
		return domain.RawTable{}, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return domain.RawTable{}, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.RawTable{}, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
		}
		rows = append(rows, record)
	}
	return rowsToTable(name, rows), nil
}
