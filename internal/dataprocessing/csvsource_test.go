package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadCSVDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sales.csv", "\ufeffDate,ProductKey,Sales,Costs,CustomerKey\n"+
		"2023-01-01,1,100,40,11000\n"+
		"2023-01-01,1,100,40,11000\n"+
		",,,,\n"+
		"2023-01-02,1,50,20,11000\n")
	writeFile(t, dir, "products.csv", "ProductKey,Category,SubCategory,Color\n1,Bikes,Road Bikes,Red\n")

	src := CSVDirSource{Dir: dir, Logger: testLogger()}
	snap, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Date", snap.Sales.Columns[0])
	assert.Equal(t, 3, snap.Sales.Len())
	assert.Equal(t, 1, snap.Products.Len())
	assert.Zero(t, snap.Customers.Len(), "customers file is optional")

	result, err := Compute(context.Background(), snap, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, result.Summary.Mean)
	assert.Equal(t, 75.0, *result.Summary.Mean)
}

func TestLoadCSVDir_MissingSales(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "products.csv", "ProductKey,Category,SubCategory,Color\n")

	_, err := LoadCSVDir(context.Background(), dir, CSVFiles{}, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Type: apperrors.ErrTypeStorage})
}

func TestLoadCSVDir_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sales.csv", "Date,ProductKey,Sales,Costs\n2023-01-01,1,1,1\n")
	writeFile(t, dir, "products.csv", "ProductKey,Category,SubCategory,Color\n1,Bikes,Road Bikes,Red\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadCSVDir(ctx, dir, DefaultCSVFiles(), testLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
