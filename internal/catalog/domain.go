package catalog

import "time"

// Product is a finished good from the catalog: bricks, blocks, beams.
// StockQuantity tracks finished stock; production lots increase it and
// validated invoices decrease it.
type Product struct {
	ID             int64     `json:"id" db:"id"`
	Code           string    `json:"code" db:"code"`
	Designation    string    `json:"designation" db:"designation"`
	Unit           string    `json:"unit" db:"unit"`
	UnitPriceHT    float64   `json:"unit_price_ht" db:"unit_price_ht"`
	DefaultTaxPct  float64   `json:"default_tax_pct" db:"default_tax_pct"`
	StockQuantity  float64   `json:"stock_quantity" db:"stock_quantity"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	Description    *string   `json:"description,omitempty" db:"description"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type CreateProductRequest struct {
	Code          string  `json:"code" validate:"required,max=50"`
	Designation   string  `json:"designation" validate:"required,max=200"`
	Unit          string  `json:"unit" validate:"required,max=20"`
	UnitPriceHT   float64 `json:"unit_price_ht" validate:"gte=0"`
	DefaultTaxPct float64 `json:"default_tax_pct" validate:"gte=0,lte=100"`
	Description   *string `json:"description,omitempty"`
}

type UpdateProductRequest struct {
	Designation   *string  `json:"designation,omitempty" validate:"omitempty,max=200"`
	Unit          *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	UnitPriceHT   *float64 `json:"unit_price_ht,omitempty" validate:"omitempty,gte=0"`
	DefaultTaxPct *float64 `json:"default_tax_pct,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsActive      *bool    `json:"is_active,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

type ListProductsRequest struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}

// StockAdjustment moves finished stock by a signed delta.
type StockAdjustment struct {
	ProductID int64
	Delta     float64
	Reason    string
}
