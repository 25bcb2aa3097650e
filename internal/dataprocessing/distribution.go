package dataprocessing

import (
	"fmt"
	"strings"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// CategorySet is an unordered allow-list of category values.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from the given names, ignoring blanks.
func NewCategorySet(names ...string) CategorySet {
	set := make(CategorySet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Has reports membership.
func (s CategorySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

type binConfig struct {
	category string
}

// BinOption narrows the records considered by Bin.
type BinOption func(*binConfig)

// WithCategory keeps only records of the given product category, e.g. "Bikes".
func WithCategory(category string) BinOption {
	return func(c *binConfig) {
		c.category = strings.TrimSpace(category)
	}
}

// Bin partitions sale amounts by the given field. Only categories in allowed
// are returned, in allowed's order; records outside the list are dropped
// rather than collected under an "other" key. Values keep record order.
func Bin(records []domain.EnrichedSale, field domain.CategoryField, allowed []string, opts ...BinOption) (domain.DistributionGroup, error) {
	if !field.Valid() {
		return domain.DistributionGroup{}, apperrors.NewAppValidationError(fmt.Sprintf("unknown category field %q", field))
	}
	var cfg binConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	order := make([]string, 0, len(allowed))
	slots := make(map[string]int, len(allowed))
	for _, name := range allowed {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := slots[name]; dup {
			continue
		}
		slots[name] = len(order)
		order = append(order, name)
	}

	buckets := make([][]float64, len(order))
	for _, r := range records {
		if cfg.category != "" && r.Category != cfg.category {
			continue
		}
		slot, ok := slots[field.Of(r)]
		if !ok {
			continue
		}
		buckets[slot] = append(buckets[slot], r.Amount)
	}

	group := domain.DistributionGroup{Field: field, Groups: make([]domain.CategoryValues, 0, len(order))}
	for i, name := range order {
		if len(buckets[i]) == 0 {
			continue
		}
		group.Groups = append(group.Groups, domain.CategoryValues{Category: name, Values: buckets[i]})
	}
	return group, nil
}

// FilterSubcategories keeps the records whose subcategory is allowed,
// preserving order.
func FilterSubcategories(records []domain.EnrichedSale, allowed CategorySet) []domain.EnrichedSale {
	out := make([]domain.EnrichedSale, 0, len(records))
	for _, r := range records {
		if allowed.Has(r.SubCategory) {
			out = append(out, r)
		}
	}
	return out
}
