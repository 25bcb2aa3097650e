package dataprocessing

import (
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// NormalizeOptions controls how unparseable fields are treated.
type NormalizeOptions struct {
	DropUnparseable bool
}

// resolveColumns maps required and optional column names to positions.
// Optional columns that are absent map to -1.
func resolveColumns(t domain.RawTable, required, optional []string) (map[string]int, error) {
	idx := make(map[string]int, len(required)+len(optional))
	var missing []string
	for _, name := range required {
		i := t.ColumnIndex(name)
		if i < 0 {
			missing = append(missing, name)
			continue
		}
		idx[name] = i
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(tableName(t, "table"), missing)
	}
	for _, name := range optional {
		if name == "" {
			continue
		}
		idx[name] = t.ColumnIndex(name)
	}
	return idx, nil
}

// isBlank reports a table with neither header nor rows.
func isBlank(t domain.RawTable) bool {
	return len(t.Columns) == 0 && len(t.Rows) == 0
}

func tableName(t domain.RawTable, fallback string) string {
	if t.Name != "" {
		return t.Name
	}
	return fallback
}

// hasNull reports whether any of the given columns is null in the row.
func hasNull(t domain.RawTable, row int, cols ...int) bool {
	for _, c := range cols {
		if c < 0 {
			continue
		}
		if domain.IsNull(t.Cell(row, c)) {
			return true
		}
	}
	return false
}

// rowKey encodes every cell of a row, tracked or not, so two rows share a key
// only when all of their cells match. Each cell is tagged and length-prefixed.
// Numeric cells are canonical so 1, 1.0 and "1" match. Timestamps keep their
// offset, so the same instant on different wall-clock days does not match.
func rowKey(t domain.RawTable, row int) string {
	var b strings.Builder
	for col := range t.Columns {
		v := t.Cell(row, col)
		var tag byte
		var s string
		switch x := v.(type) {
		case time.Time:
			tag, s = 't', x.Format(time.RFC3339Nano)
		default:
			if domain.IsNull(v) {
				b.WriteString("n;")
				continue
			}
			tag, s = 'v', canonicalKey(v)
		}
		b.WriteByte(tag)
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}

// NormalizeSales validates the sales schema, drops rows with nulls in tracked
// columns, parses the typed fields and removes rows whose every cell repeats
// an earlier row, keeping the first occurrence.
func NormalizeSales(t domain.RawTable, schema SalesSchema, opts NormalizeOptions) (domain.SalesTable, domain.TableReport, error) {
	name := tableName(t, "sales")
	report := domain.TableReport{Table: name, Input: len(t.Rows)}
	if isBlank(t) {
		return domain.SalesTable{}, report, nil
	}

	idx, err := resolveColumns(t, []string{schema.Date, schema.ProductKey, schema.Amount, schema.Cost}, []string{schema.CustomerKey})
	if err != nil {
		return nil, report, err
	}
	dateCol, keyCol, amountCol, costCol := idx[schema.Date], idx[schema.ProductKey], idx[schema.Amount], idx[schema.Cost]
	customerCol := -1
	if schema.CustomerKey != "" {
		customerCol = idx[schema.CustomerKey]
	}

	out := make(domain.SalesTable, 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))

	for i := range t.Rows {
		if hasNull(t, i, dateCol, keyCol, amountCol, costCol, customerCol) {
			report.DroppedNull++
			continue
		}

		sale, col, cause := parseSale(t, i, dateCol, keyCol, amountCol, costCol, customerCol)
		if cause != nil {
			if opts.DropUnparseable {
				report.DroppedUnparseable++
				continue
			}
			return nil, report, apperrors.NewDataIntegrityError(name, t.Columns[col], i+1, t.Cell(i, col), cause)
		}

		key := rowKey(t, i)
		if _, dup := seen[key]; dup {
			report.DroppedDuplicate++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sale)
	}

	report.Output = len(out)
	return out, report, nil
}

// parseSale returns the failing column index alongside any parse error.
func parseSale(t domain.RawTable, row, dateCol, keyCol, amountCol, costCol, customerCol int) (domain.Sale, int, error) {
	date, err := parseDate(t.Cell(row, dateCol))
	if err != nil {
		return domain.Sale{}, dateCol, err
	}
	amount, err := parseAmount(t.Cell(row, amountCol))
	if err != nil {
		return domain.Sale{}, amountCol, err
	}
	cost, err := parseAmount(t.Cell(row, costCol))
	if err != nil {
		return domain.Sale{}, costCol, err
	}
	sale := domain.Sale{
		Date:       date,
		ProductKey: canonicalKey(t.Cell(row, keyCol)),
		Amount:     amount,
		Cost:       cost,
	}
	if customerCol >= 0 {
		sale.CustomerKey = canonicalKey(t.Cell(row, customerCol))
	}
	return sale, -1, nil
}

// NormalizeProducts validates the products schema, drops rows with nulls in
// tracked columns and removes full-row duplicates keeping the first occurrence.
// Rows sharing a key but differing elsewhere are kept for Join to reject.
func NormalizeProducts(t domain.RawTable, schema ProductSchema) (domain.ProductTable, domain.TableReport, error) {
	name := tableName(t, "products")
	report := domain.TableReport{Table: name, Input: len(t.Rows)}
	if isBlank(t) {
		return domain.ProductTable{}, report, nil
	}

	idx, err := resolveColumns(t, []string{schema.Key, schema.Category, schema.SubCategory, schema.Color}, nil)
	if err != nil {
		return nil, report, err
	}
	keyCol, catCol, subCol, colorCol := idx[schema.Key], idx[schema.Category], idx[schema.SubCategory], idx[schema.Color]

	out := make(domain.ProductTable, 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	for i := range t.Rows {
		if hasNull(t, i, keyCol, catCol, subCol, colorCol) {
			report.DroppedNull++
			continue
		}
		p := domain.Product{
			Key:         canonicalKey(t.Cell(i, keyCol)),
			Category:    cellString(t.Cell(i, catCol)),
			SubCategory: cellString(t.Cell(i, subCol)),
			Color:       cellString(t.Cell(i, colorCol)),
		}
		key := rowKey(t, i)
		if _, dup := seen[key]; dup {
			report.DroppedDuplicate++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	report.Output = len(out)
	return out, report, nil
}

// NormalizeCustomers validates the customers schema. Every column is tracked:
// a null anywhere in the row drops it.
func NormalizeCustomers(t domain.RawTable, schema CustomerSchema) (domain.CustomerTable, domain.TableReport, error) {
	name := tableName(t, "customers")
	report := domain.TableReport{Table: name, Input: len(t.Rows)}
	if isBlank(t) {
		return domain.CustomerTable{}, report, nil
	}

	idx, err := resolveColumns(t, []string{schema.Key}, nil)
	if err != nil {
		return nil, report, err
	}
	keyCol := idx[schema.Key]
	all := make([]int, len(t.Columns))
	for i := range all {
		all[i] = i
	}

	out := make(domain.CustomerTable, 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	for i := range t.Rows {
		if hasNull(t, i, all...) {
			report.DroppedNull++
			continue
		}
		c := domain.Customer{
			Key:        canonicalKey(t.Cell(i, keyCol)),
			Attributes: make(map[string]string, len(t.Columns)-1),
		}
		for col, header := range t.Columns {
			if col == keyCol {
				continue
			}
			c.Attributes[strings.TrimSpace(header)] = cellString(t.Cell(i, col))
		}
		key := rowKey(t, i)
		if _, dup := seen[key]; dup {
			report.DroppedDuplicate++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	report.Output = len(out)
	return out, report, nil
}

// SalesRaw renders a clean sales table back into raw form with the schema's
// column names. The customer column is emitted only when every row carries one.
func (s SalesSchema) SalesRaw(name string, t domain.SalesTable) domain.RawTable {
	withCustomer := s.CustomerKey != "" && len(t) > 0
	for _, sale := range t {
		if sale.CustomerKey == "" {
			withCustomer = false
			break
		}
	}
	cols := []string{s.Date, s.ProductKey, s.Amount, s.Cost}
	if withCustomer {
		cols = append(cols, s.CustomerKey)
	}
	raw := domain.RawTable{Name: name, Columns: cols, Rows: make([][]any, 0, len(t))}
	for _, sale := range t {
		row := []any{sale.Date, sale.ProductKey, sale.Amount, sale.Cost}
		if withCustomer {
			row = append(row, sale.CustomerKey)
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw
}

// ProductsRaw renders a clean products table back into raw form.
func (s ProductSchema) ProductsRaw(name string, t domain.ProductTable) domain.RawTable {
	raw := domain.RawTable{
		Name:    name,
		Columns: []string{s.Key, s.Category, s.SubCategory, s.Color},
		Rows:    make([][]any, 0, len(t)),
	}
	for _, p := range t {
		raw.Rows = append(raw.Rows, []any{p.Key, p.Category, p.SubCategory, p.Color})
	}
	return raw
}

// CustomersRaw renders a clean customers table back into raw form. Attribute
// columns are sorted by name.
func (s CustomerSchema) CustomersRaw(name string, t domain.CustomerTable) domain.RawTable {
	attrSet := make(map[string]struct{})
	for _, c := range t {
		for k := range c.Attributes {
			attrSet[k] = struct{}{}
		}
	}
	attrs := make([]string, 0, len(attrSet))
	for k := range attrSet {
		attrs = append(attrs, k)
	}
	sort.Strings(attrs)

	raw := domain.RawTable{Name: name, Columns: append([]string{s.Key}, attrs...), Rows: make([][]any, 0, len(t))}
	for _, c := range t {
		row := make([]any, 0, len(attrs)+1)
		row = append(row, c.Key)
		for _, a := range attrs {
			if v, ok := c.Attributes[a]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw
}
