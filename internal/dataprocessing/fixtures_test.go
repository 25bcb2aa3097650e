package dataprocessing

import (
	"time"

	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

func salesTable(rows ...[]any) domain.RawTable {
	return domain.RawTable{
		Name:    "Sales",
		Columns: []string{"Date", "ProductKey", "Sales", "Costs", "CustomerKey"},
		Rows:    rows,
	}
}

func productsTable(rows ...[]any) domain.RawTable {
	return domain.RawTable{
		Name:    "Products",
		Columns: []string{"ProductKey", "Category", "SubCategory", "Color"},
		Rows:    rows,
	}
}

func customersTable(rows ...[]any) domain.RawTable {
	return domain.RawTable{
		Name:    "Customers",
		Columns: []string{"CustomerKey", "Name", "Country"},
		Rows:    rows,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// exampleSnapshot is the three-row snapshot with one duplicate used across tests.
func exampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Sales: salesTable(
			[]any{"2023-01-01", 1, 100.0, 40.0, 11000},
			[]any{"2023-01-01", 1, 100.0, 40.0, 11000},
			[]any{"2023-01-02", 1, 50.0, 20.0, 11000},
		),
		Products: productsTable(
			[]any{1, "Bikes", "Road Bikes", "Red"},
		),
		Customers: customersTable(
			[]any{11000, "Jon Yang", "Australia"},
		),
	}
}

// bikeSnapshot mixes categories, colors and an unmatched product key.
func bikeSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Sales: salesTable(
			[]any{"2023-01-01", 1, 100.0, 60.0, 1},
			[]any{"2023-01-01", 2, 200.0, 120.0, 2},
			[]any{"2023-01-02", 3, 300.0, 180.0, 1},
			[]any{"2023-01-02", 4, 25.0, 10.0, 3},
			[]any{"2023-02-01", 1, 150.0, 90.0, 2},
			[]any{"2023-02-03", 9, 75.0, 30.0, 3},
		),
		Products: productsTable(
			[]any{1, "Bikes", "Road Bikes", "Red"},
			[]any{2, "Bikes", "Mountain Bikes", "Blue"},
			[]any{3, "Bikes", "Touring Bikes", "Black"},
			[]any{4, "Clothing", "Jerseys", "Red"},
		),
		Customers: customersTable(
			[]any{1, "A", "US"},
			[]any{2, "B", "DE"},
			[]any{3, "C", "FR"},
		),
	}
}
