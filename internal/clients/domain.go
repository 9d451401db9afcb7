package clients

import "time"

// Client is a customer directory entry. Financial totals are never
// stored here; créances are always derived from the billing snapshot.
type Client struct {
	ID        int64     `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Type      *string   `json:"type,omitempty" db:"type"`
	Address   *string   `json:"address,omitempty" db:"address"`
	City      *string   `json:"city,omitempty" db:"city"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	NIF       *string   `json:"nif,omitempty" db:"nif"`
	NIS       *string   `json:"nis,omitempty" db:"nis"`
	RC        *string   `json:"rc,omitempty" db:"rc"`
	AI        *string   `json:"ai,omitempty" db:"ai"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateClientRequest struct {
	Code    string  `json:"code" validate:"required,max=50"`
	Name    string  `json:"name" validate:"required,max=200"`
	Type    *string `json:"type,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	NIF     *string `json:"nif,omitempty" validate:"omitempty,max=30"`
	NIS     *string `json:"nis,omitempty" validate:"omitempty,max=30"`
	RC      *string `json:"rc,omitempty" validate:"omitempty,max=30"`
	AI      *string `json:"ai,omitempty" validate:"omitempty,max=30"`
	Notes   *string `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Type     *string `json:"type,omitempty" validate:"omitempty,max=50"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	NIF      *string `json:"nif,omitempty" validate:"omitempty,max=30"`
	NIS      *string `json:"nis,omitempty" validate:"omitempty,max=30"`
	RC       *string `json:"rc,omitempty" validate:"omitempty,max=30"`
	AI       *string `json:"ai,omitempty" validate:"omitempty,max=30"`
	IsActive *bool   `json:"is_active,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type ListClientsRequest struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
