package dataprocessing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

func TestNormalizeSales(t *testing.T) {
	schema := DefaultOptions().Sales

	tests := []struct {
		name          string
		table         domain.RawTable
		opts          NormalizeOptions
		wantOutput    int
		wantNull      int
		wantDuplicate int
		wantErr       error
	}{
		{
			name:       "clean rows pass through",
			table:      salesTable([]any{"2023-01-01", 1, 10.0, 5.0, 7}, []any{"2023-01-02", 2, 20.0, 8.0, 7}),
			wantOutput: 2,
		},
		{
			name:          "exact duplicate removed",
			table:         exampleSnapshot().Sales,
			wantOutput:    2,
			wantDuplicate: 1,
		},
		{
			name: "rows with nulls dropped",
			table: salesTable(
				[]any{nil, 1, 10.0, 5.0, 7},
				[]any{"2023-01-01", "  ", 10.0, 5.0, 7},
				[]any{"2023-01-01", 1, math.NaN(), 5.0, 7},
				[]any{"2023-01-01", 1, 10.0, 5.0, nil},
				[]any{"2023-01-01", 1, 10.0},
				[]any{"2023-01-01", 1, 10.0, 5.0, 7},
			),
			wantOutput: 1,
			wantNull:   5,
		},
		{
			name: "rows differing only in an untracked column kept",
			table: domain.RawTable{
				Name:    "Sales",
				Columns: []string{"OrderNumber", "Date", "ProductKey", "Sales", "Costs", "CustomerKey"},
				Rows: [][]any{
					{"SO1", "2023-01-01", 1, 100.0, 40.0, 11000},
					{"SO2", "2023-01-01", 1, 100.0, 40.0, 11000},
					{"SO2", "2023-01-01", "1", 100, "40", "11000"},
				},
			},
			wantOutput:    2,
			wantDuplicate: 1,
		},
		{
			name: "same instant on different calendar days kept",
			table: salesTable(
				[]any{time.Date(2023, 1, 1, 23, 0, 0, 0, time.UTC), 1, 10.0, 5.0, 7},
				[]any{time.Date(2023, 1, 2, 1, 0, 0, 0, time.FixedZone("UTC+2", 2*3600)), 1, 10.0, 5.0, 7},
			),
			wantOutput: 2,
		},
		{
			name:    "missing column is a schema error",
			table:   domain.RawTable{Name: "Sales", Columns: []string{"Date", "ProductKey", "Sales"}, Rows: [][]any{{"2023-01-01", 1, 10.0}}},
			wantErr: apperrors.ErrSchema,
		},
		{
			name:    "unparseable date is an integrity error",
			table:   salesTable([]any{"yesterday", 1, 10.0, 5.0, 7}),
			wantErr: apperrors.ErrDataIntegrity,
		},
		{
			name:    "unparseable amount is an integrity error",
			table:   salesTable([]any{"2023-01-01", 1, "ten", 5.0, 7}),
			wantErr: apperrors.ErrDataIntegrity,
		},
		{
			name: "unparseable rows dropped when requested",
			table: salesTable(
				[]any{"yesterday", 1, 10.0, 5.0, 7},
				[]any{"2023-01-01", 1, "ten", 5.0, 7},
				[]any{"2023-01-01", 1, 10.0, 5.0, 7},
			),
			opts:       NormalizeOptions{DropUnparseable: true},
			wantOutput: 1,
		},
		{
			name:  "empty input yields empty output",
			table: domain.RawTable{},
		},
		{
			name:  "header only yields empty output",
			table: salesTable(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report, err := NormalizeSales(tt.table, schema, tt.opts)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantOutput)
			assert.Equal(t, tt.wantOutput, report.Output)
			assert.Equal(t, tt.wantNull, report.DroppedNull)
			assert.Equal(t, tt.wantDuplicate, report.DroppedDuplicate)
			assert.Equal(t, report.Input, report.Output+report.Dropped())
		})
	}
}

func TestNormalizeSales_SchemaErrorNamesColumns(t *testing.T) {
	table := domain.RawTable{Name: "Sales", Columns: []string{"Date", "ProductKey"}}
	_, _, err := NormalizeSales(table, DefaultOptions().Sales, NormalizeOptions{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeSchema, appErr.Type)
	assert.Equal(t, []string{"Sales", "Costs"}, appErr.Context["missing"])
}

func TestNormalizeSales_IntegrityErrorLocatesCell(t *testing.T) {
	table := salesTable(
		[]any{"2023-01-01", 1, 10.0, 5.0, 7},
		[]any{"2023-01-01", 1, 10.0, "n/a", 7},
	)
	_, _, err := NormalizeSales(table, DefaultOptions().Sales, NormalizeOptions{})

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeDataIntegrity, appErr.Type)
	assert.Equal(t, "Costs", appErr.Context["column"])
	assert.Equal(t, 2, appErr.Context["row"])
}

func TestNormalizeSales_ParsesFields(t *testing.T) {
	table := salesTable(
		[]any{"44927", "007", "1,250.50", "$400", 11000.0},
		[]any{44928.0, 7.0, 10, "0", "11000"},
		[]any{"01/03/2023", "7", " 5 ", "2", 11000},
	)
	got, _, err := NormalizeSales(table, DefaultOptions().Sales, NormalizeOptions{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, day(2023, 1, 1), got[0].Date)
	assert.Equal(t, day(2023, 1, 2), got[1].Date)
	assert.Equal(t, day(2023, 1, 3), got[2].Date)
	for _, s := range got {
		assert.Equal(t, "7", s.ProductKey)
		assert.Equal(t, "11000", s.CustomerKey)
	}
	assert.Equal(t, 1250.50, got[0].Amount)
	assert.Equal(t, 400.0, got[0].Cost)
	assert.Equal(t, 5.0, got[2].Amount)
}

func TestNormalizeSales_Idempotent(t *testing.T) {
	schema := DefaultOptions().Sales
	once, _, err := NormalizeSales(bikeSnapshot().Sales, schema, NormalizeOptions{})
	require.NoError(t, err)

	twice, report, err := NormalizeSales(schema.SalesRaw("Sales", once), schema, NormalizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Zero(t, report.Dropped())
}

func TestNormalizeSales_NoDuplicates(t *testing.T) {
	snap := exampleSnapshot()
	snap.Sales.Rows = append(snap.Sales.Rows, snap.Sales.Rows...)
	got, report, err := NormalizeSales(snap.Sales, DefaultOptions().Sales, NormalizeOptions{})
	require.NoError(t, err)

	seen := make(map[domain.Sale]bool)
	for _, s := range got {
		assert.False(t, seen[s], "duplicate row %+v", s)
		seen[s] = true
	}
	assert.Equal(t, 4, report.DroppedDuplicate)
	assert.Equal(t, day(2023, 1, 1), got[0].Date, "first occurrence kept in order")
}

func TestNormalizeSales_WithoutCustomerColumn(t *testing.T) {
	table := domain.RawTable{
		Columns: []string{"Date", "ProductKey", "Sales", "Costs"},
		Rows:    [][]any{{"2023-01-01", 1, 10.0, 5.0}},
	}
	got, _, err := NormalizeSales(table, DefaultOptions().Sales, NormalizeOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].CustomerKey)

	raw := DefaultOptions().Sales.SalesRaw("Sales", got)
	assert.Equal(t, []string{"Date", "ProductKey", "Sales", "Costs"}, raw.Columns)
}

func TestNormalizeProducts(t *testing.T) {
	schema := DefaultOptions().Products
	table := productsTable(
		[]any{1, "Bikes", "Road Bikes", "Red"},
		[]any{"1", "Bikes", "Road Bikes", "Red"},
		[]any{2, "Bikes", nil, "Blue"},
		[]any{3, "Clothing", "Caps", "Multi"},
	)

	got, report, err := NormalizeProducts(table, schema)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductTable{
		{Key: "1", Category: "Bikes", SubCategory: "Road Bikes", Color: "Red"},
		{Key: "3", Category: "Clothing", SubCategory: "Caps", Color: "Multi"},
	}, got)
	assert.Equal(t, 1, report.DroppedNull)
	assert.Equal(t, 1, report.DroppedDuplicate)

	again, _, err := NormalizeProducts(schema.ProductsRaw("Products", got), schema)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestNormalizeProducts_ConflictingKeyReachesJoin(t *testing.T) {
	schema := DefaultOptions().Products
	table := domain.RawTable{
		Name:    "Products",
		Columns: []string{"ProductKey", "ProductName", "Category", "SubCategory", "Color"},
		Rows: [][]any{
			{1, "Road-150 Red", "Bikes", "Road Bikes", "Red"},
			{1, "Road-250 Red", "Bikes", "Road Bikes", "Red"},
			{1, "Road-250 Red", "Bikes", "Road Bikes", "Red"},
		},
	}

	products, report, err := NormalizeProducts(table, schema)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, report.DroppedDuplicate)

	sales, _, err := NormalizeSales(exampleSnapshot().Sales, DefaultOptions().Sales, NormalizeOptions{})
	require.NoError(t, err)
	_, _, err = Join(sales, products, schema.Key)
	assert.ErrorIs(t, err, apperrors.ErrJoinAmbiguity)
}

func TestNormalizeSales_TotalsKeepDistinctOrders(t *testing.T) {
	table := domain.RawTable{
		Name:    "Sales",
		Columns: []string{"OrderNumber", "Date", "ProductKey", "Sales", "Costs", "CustomerKey"},
		Rows: [][]any{
			{"SO1", "2023-01-01", 1, 100.0, 40.0, 11000},
			{"SO2", "2023-01-01", 1, 100.0, 40.0, 11000},
		},
	}
	got, _, err := NormalizeSales(table, DefaultOptions().Sales, NormalizeOptions{})
	require.NoError(t, err)

	total := 0.0
	for _, s := range got {
		total += s.Amount
	}
	assert.Equal(t, 200.0, total)
}

func TestRowKey(t *testing.T) {
	table := domain.RawTable{
		Columns: []string{"A", "B"},
		Rows: [][]any{
			{"x\x1fy", "z"},
			{"x", "y\x1fz"},
			{"ab", "c"},
			{"a", "bc"},
			{1, nil},
			{"1.0", ""},
		},
	}
	assert.NotEqual(t, rowKey(table, 0), rowKey(table, 1))
	assert.NotEqual(t, rowKey(table, 2), rowKey(table, 3))
	assert.Equal(t, rowKey(table, 4), rowKey(table, 5))
}

func TestNormalizeCustomers_SeparatorInValue(t *testing.T) {
	table := customersTable(
		[]any{11000, "Jon\x1fYang", "Australia"},
		[]any{11000, "Jon", "Yang\x1fAustralia"},
	)
	got, report, err := NormalizeCustomers(table, DefaultOptions().Customers)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Zero(t, report.DroppedDuplicate)
}

func TestNormalizeProducts_SchemaError(t *testing.T) {
	table := domain.RawTable{Name: "Products", Columns: []string{"ProductKey", "Category"}}
	_, _, err := NormalizeProducts(table, DefaultOptions().Products)
	assert.ErrorIs(t, err, apperrors.ErrSchema)
}

func TestNormalizeCustomers(t *testing.T) {
	schema := DefaultOptions().Customers
	table := customersTable(
		[]any{11000, "Jon Yang", "Australia"},
		[]any{11000, "Jon Yang", "Australia"},
		[]any{11001, "Eugene Huang", nil},
		[]any{11002, "Ruben Torres", "Australia"},
	)

	got, report, err := NormalizeCustomers(table, schema)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "11000", got[0].Key)
	assert.Equal(t, map[string]string{"Name": "Jon Yang", "Country": "Australia"}, got[0].Attributes)
	assert.Equal(t, 1, report.DroppedNull)
	assert.Equal(t, 1, report.DroppedDuplicate)

	again, _, err := NormalizeCustomers(schema.CustomersRaw("Customers", got), schema)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}
