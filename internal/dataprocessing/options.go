package dataprocessing

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
)

var validate = validator.New()

// SalesSchema names the columns of the sales table. CustomerKey is optional:
// when the column exists it is tracked for nulls and carried on each Sale.
type SalesSchema struct {
	Date        string `json:"date" yaml:"date" validate:"required"`
	ProductKey  string `json:"product_key" yaml:"product_key" validate:"required"`
	Amount      string `json:"amount" yaml:"amount" validate:"required"`
	Cost        string `json:"cost" yaml:"cost" validate:"required"`
	CustomerKey string `json:"customer_key,omitempty" yaml:"customer_key"`
}

// ProductSchema names the columns of the products table.
type ProductSchema struct {
	Key         string `json:"key" yaml:"key" validate:"required"`
	Category    string `json:"category" yaml:"category" validate:"required"`
	SubCategory string `json:"sub_category" yaml:"sub_category" validate:"required"`
	Color       string `json:"color" yaml:"color" validate:"required"`
}

// CustomerSchema names the key column of the customers table. Every other
// column is kept as an attribute.
type CustomerSchema struct {
	Key string `json:"key" yaml:"key" validate:"required"`
}

// Options configures one pipeline invocation. Nothing is read from the
// environment; callers pass everything explicitly.
type Options struct {
	// JoinKey is the product key column shared by sales and products.
	// When set it overrides Sales.ProductKey and Products.Key.
	JoinKey string `json:"join_key" validate:"required"`

	Sales     SalesSchema    `json:"sales"`
	Products  ProductSchema  `json:"products"`
	Customers CustomerSchema `json:"customers"`

	// DropUnparseable drops rows whose date or amount cannot be parsed
	// instead of failing with a data integrity error.
	DropUnparseable bool `json:"drop_unparseable"`
}

// DefaultOptions returns the column layout of the AdventureWorks workbook.
func DefaultOptions() Options {
	return Options{
		JoinKey: "ProductKey",
		Sales: SalesSchema{
			Date:        "Date",
			ProductKey:  "ProductKey",
			Amount:      "Sales",
			Cost:        "Costs",
			CustomerKey: "CustomerKey",
		},
		Products: ProductSchema{
			Key:         "ProductKey",
			Category:    "Category",
			SubCategory: "SubCategory",
			Color:       "Color",
		},
		Customers: CustomerSchema{
			Key: "CustomerKey",
		},
	}
}

// normalized applies the join key to both schemas and fills blanks from the defaults.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if strings.TrimSpace(o.JoinKey) == "" {
		o.JoinKey = def.JoinKey
	}
	o.JoinKey = strings.TrimSpace(o.JoinKey)
	fill := func(dst *string, fallback string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = fallback
		}
	}
	fill(&o.Sales.Date, def.Sales.Date)
	fill(&o.Sales.Amount, def.Sales.Amount)
	fill(&o.Sales.Cost, def.Sales.Cost)
	fill(&o.Products.Category, def.Products.Category)
	fill(&o.Products.SubCategory, def.Products.SubCategory)
	fill(&o.Products.Color, def.Products.Color)
	fill(&o.Customers.Key, def.Customers.Key)
	o.Sales.ProductKey = o.JoinKey
	o.Products.Key = o.JoinKey
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	n := o.normalized()
	if err := validate.Struct(n); err != nil {
		return apperrors.NewAppValidationError(fmt.Sprintf("invalid pipeline options: %v", err))
	}
	if n.Sales.CustomerKey != "" && n.Sales.CustomerKey == n.JoinKey {
		return apperrors.NewAppValidationError("sales customer key column must differ from the join key")
	}
	return nil
}
