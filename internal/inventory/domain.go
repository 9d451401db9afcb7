package inventory

import "time"

// MovementType enumerates raw-material stock movements.
type MovementType string

const (
	// MovementIn represents an inbound movement (delivery, return).
	MovementIn MovementType = "IN"
	// MovementOut represents an outbound movement (production consumption, loss).
	MovementOut MovementType = "OUT"
)

// Material is a raw material consumed by production: cement, sand,
// gravel, additives.
type Material struct {
	ID             int64     `json:"id" db:"id"`
	Code           string    `json:"code" db:"code"`
	Name           string    `json:"name" db:"name"`
	Unit           string    `json:"unit" db:"unit"`
	StockQuantity  float64   `json:"stock_quantity" db:"stock_quantity"`
	AlertThreshold float64   `json:"alert_threshold" db:"alert_threshold"`
	UnitCost       float64   `json:"unit_cost" db:"unit_cost"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Movement is one append-only ledger entry against a material.
type Movement struct {
	ID         int64        `json:"id" db:"id"`
	MaterialID int64        `json:"material_id" db:"material_id"`
	Type       MovementType `json:"type" db:"type"`
	Quantity   float64      `json:"quantity" db:"quantity"`
	Reason     string       `json:"reason" db:"reason"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

type CreateMaterialRequest struct {
	Code           string  `json:"code" validate:"required,max=50"`
	Name           string  `json:"name" validate:"required,max=200"`
	Unit           string  `json:"unit" validate:"required,max=20"`
	AlertThreshold float64 `json:"alert_threshold" validate:"gte=0"`
	UnitCost       float64 `json:"unit_cost" validate:"gte=0"`
}

type UpdateMaterialRequest struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Unit           *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	AlertThreshold *float64 `json:"alert_threshold,omitempty" validate:"omitempty,gte=0"`
	UnitCost       *float64 `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
}

type RecordMovementRequest struct {
	Type     MovementType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity float64      `json:"quantity" validate:"required,gt=0"`
	Reason   string       `json:"reason" validate:"required,max=200"`
}

// Deduction consumes a quantity of one material, used by production
// lot recording.
type Deduction struct {
	MaterialID int64
	Quantity   float64
	Reason     string
}
