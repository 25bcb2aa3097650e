package domain

import (
	"math"
	"strings"
	"time"
)

// RawTable is a loosely typed tabular snapshot as handed over by a loader.
// Rows are positional and aligned with Columns. A nil cell, a blank string
// or a NaN float is treated as null.
type RawTable struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// ColumnIndex returns the position of the named column or -1.
// Header matching ignores surrounding whitespace and a UTF-8 BOM.
func (t RawTable) ColumnIndex(name string) int {
	want := strings.TrimSpace(name)
	for i, col := range t.Columns {
		if strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) == want {
			return i
		}
	}
	return -1
}

// Len returns the number of rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}

// Cell returns the value at row/col, or nil when the row is shorter than the header.
func (t RawTable) Cell(row, col int) any {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][col]
}

// IsNull reports whether a cell value counts as missing.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case time.Time:
		return x.IsZero()
	case *string:
		return x == nil || strings.TrimSpace(*x) == ""
	}
	return false
}

// Snapshot bundles the three input tables of one pipeline invocation.
type Snapshot struct {
	Sales     RawTable `json:"sales"`
	Products  RawTable `json:"products"`
	Customers RawTable `json:"customers"`
}

// Sale is one clean transactional sales row.
type Sale struct {
	Date        time.Time `json:"date"`
	ProductKey  string    `json:"product_key"`
	Amount      float64   `json:"amount"`
	Cost        float64   `json:"cost"`
	CustomerKey string    `json:"customer_key,omitempty"`
}

// Product is one clean product row.
type Product struct {
	Key         string `json:"key"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Color       string `json:"color"`
}

// Customer is one clean customer row. Attributes hold every non-key column.
type Customer struct {
	Key        string            `json:"key"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// SalesTable is the clean, typed sales table.
type SalesTable []Sale

// ProductTable is the clean, typed products table.
type ProductTable []Product

// CustomerTable is the clean, typed customers table.
type CustomerTable []Customer

// EnrichedSale is a sale joined with the attributes of its product.
type EnrichedSale struct {
	Sale
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Color       string `json:"color"`
}

// TotalAmount sums the amount column of the table.
func (t SalesTable) TotalAmount() float64 {
	var acc KahanSum
	for _, s := range t {
		acc.Add(s.Amount)
	}
	return acc.Sum()
}

// KahanSum accumulates float64 values with Neumaier's compensated summation
// so long sales columns do not lose cents to rounding.
type KahanSum struct {
	sum  float64
	comp float64
}

// Add adds v to the running total.
func (k *KahanSum) Add(v float64) {
	t := k.sum + v
	if math.Abs(k.sum) >= math.Abs(v) {
		k.comp += (k.sum - t) + v
	} else {
		k.comp += (v - t) + k.sum
	}
	k.sum = t
}

// Sum returns the compensated total.
func (k KahanSum) Sum() float64 {
	return k.sum + k.comp
}
