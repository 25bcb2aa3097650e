package dataprocessing

import (
	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// Join enriches every sale with the attributes of the product sharing its key.
// It is an inner join: sales without a product are dropped and counted. A key
// that appears on more than one clean product row fails with a join ambiguity
// error because product keys are expected to be unique. Output keeps sales order.
func Join(sales domain.SalesTable, products domain.ProductTable, keyColumn string) ([]domain.EnrichedSale, domain.JoinReport, error) {
	report := domain.JoinReport{Input: len(sales)}

	counts := make(map[string]int, len(products))
	for _, p := range products {
		counts[p.Key]++
	}
	index := make(map[string]domain.Product, len(products))
	for _, p := range products {
		if n := counts[p.Key]; n > 1 {
			return nil, report, apperrors.NewJoinAmbiguityError(keyColumn, p.Key, n)
		}
		index[p.Key] = p
	}

	out := make([]domain.EnrichedSale, 0, len(sales))
	for _, s := range sales {
		p, ok := index[s.ProductKey]
		if !ok {
			report.Unmatched++
			continue
		}
		out = append(out, domain.EnrichedSale{
			Sale:        s,
			Category:    p.Category,
			SubCategory: p.SubCategory,
			Color:       p.Color,
		})
	}

	report.Output = len(out)
	return out, report, nil
}
